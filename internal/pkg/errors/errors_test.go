package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected int
	}{
		{"ConfigWrite", ErrConfigWrite, 1},
		{"UnsupportedProvider", ErrUnsupportedProvider, 1},
		{"MissingAPIKey", ErrMissingAPIKey, 1},
		{"GitCommandFailed", ErrGitCommandFailed, 1},
		{"CommitFailed", ErrCommitFailed, 1},
		{"ProviderCall", ErrProviderCall, 1},
		{"AuthenticationFailed", ErrAuthenticationFailed, 1},
		{"Interrupted", ErrInterrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorCode_String(t *testing.T) {
	if got := ErrAuthenticationFailed.String(); got != "AuthenticationFailed" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorCode(999).String(); got != "Unknown" {
		t.Errorf("String() = %q, want Unknown", got)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      &AppError{Code: ErrMissingAPIKey, Message: "API key for openai not provided"},
			expected: "API key for openai not provided",
		},
		{
			name: "with cause",
			err: &AppError{
				Code:    ErrGitCommandFailed,
				Message: "git command failed",
				Cause:   errors.New("exit status 1"),
			},
			expected: "git command failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrGitCommandFailed, "git failed")
	err.WithContext("command", "git commit").WithContext("exit_code", 1)

	if err.Context["command"] != "git commit" {
		t.Errorf("Context[command] = %v, want 'git commit'", err.Context["command"])
	}
	if err.Context["exit_code"] != 1 {
		t.Errorf("Context[exit_code] = %v, want 1", err.Context["exit_code"])
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrConfigRead, "read failed")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}
	if err.Code != ErrConfigRead {
		t.Errorf("Code = %v", err.Code)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("x"), 1},
		{"app error", NewProviderError("openai", "gpt-4", errors.New("x")), 1},
		{"wrapped app error", fmt.Errorf("outer: %w", NewInterruptedError(nil)), 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewAuthenticationError("google", nil))
	if !HasCode(err, ErrAuthenticationFailed) {
		t.Error("HasCode should find the code through wrapping")
	}
	if HasCode(err, ErrRateLimited) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(errors.New("plain"), ErrRateLimited) {
		t.Error("HasCode matched a plain error")
	}
}

func TestNewMissingAPIKeyError(t *testing.T) {
	err := NewMissingAPIKeyError("openai", "OPENAI_API_KEY")
	if err.Code != ErrMissingAPIKey {
		t.Errorf("Code = %v", err.Code)
	}
	if !strings.Contains(err.Suggestion, "OPENAI_API_KEY") {
		t.Errorf("Suggestion should mention the env var, got %q", err.Suggestion)
	}
}

func TestNewCommitError_IncludesOutput(t *testing.T) {
	err := NewCommitError(errors.New("exit status 1"), "pre-commit hook failed")
	if !strings.Contains(err.Message, "pre-commit hook failed") {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Context["output"] != "pre-commit hook failed" {
		t.Errorf("Context[output] = %v", err.Context["output"])
	}
}

func TestNewProviderError_Message(t *testing.T) {
	err := NewProviderError("google", "gemini-pro", errors.New("dial tcp"))
	if err.Message != "failed to generate commit with google (gemini-pro)" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "nil",
			err:      nil,
			contains: nil,
		},
		{
			name:     "plain",
			err:      errors.New("something broke"),
			contains: []string{"Error: something broke"},
		},
		{
			name: "app error with cause and suggestion",
			err: NewAuthenticationError("openai", errors.New("401 Unauthorized")).
				WithSuggestion("Check the API key for openai in /home/u/.clizinrc.json"),
			contains: []string{
				"Error: authentication failed with openai",
				"Cause: 401 Unauthorized",
				"Suggestion: Check the API key for openai in /home/u/.clizinrc.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			if tt.err == nil && got != "" {
				t.Errorf("FormatError(nil) = %q", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestFormatError_MasksKeys(t *testing.T) {
	openaiKey := "sk-abcdefghijklmnopqrstuvwxyz123456"
	googleKey := "AIzaSyA1234567890abcdefghijklmnopqrs"
	err := NewProviderError("openai", "gpt-4", fmt.Errorf("bad key %s and %s", openaiKey, googleKey))

	got := FormatError(err)
	if strings.Contains(got, openaiKey) || strings.Contains(got, googleKey) {
		t.Errorf("FormatError leaked a key: %q", got)
	}
	if !strings.Contains(got, "3456") || !strings.Contains(got, "pqrs") {
		t.Errorf("masked keys should keep their last four characters: %q", got)
	}
}

func TestFormatErrorVerbose(t *testing.T) {
	err := NewGitError(errors.New("exit status 128"), "fatal: bad revision")
	got := FormatErrorVerbose(err)

	for _, want := range []string{"Error [GitCommandFailed]", "exit status 128", "output: fatal: bad revision"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatErrorVerbose() = %q, missing %q", got, want)
		}
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "****"},
		{"abcd", "****"},
		{"sk-12345678", "*******5678"},
	}
	for _, tt := range tests {
		if got := MaskAPIKey(tt.in); got != tt.want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
