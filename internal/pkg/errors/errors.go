// Package errors provides the error taxonomy, exit-code mapping and logging for clizin.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// Configuration and usage errors
	ErrConfigCorrupt ErrorCode = iota + 100
	ErrConfigRead
	ErrConfigWrite
	ErrUnsupportedProvider
	ErrUnsupportedLanguage
	ErrInvalidArguments
	ErrMissingAPIKey
	ErrNotATerminal

	// Version control errors
	ErrNotARepository ErrorCode = iota + 200
	ErrGitCommandFailed
	ErrCommitFailed

	// Provider errors
	ErrProviderCall ErrorCode = iota + 300
	ErrAuthenticationFailed
	ErrRateLimited
	ErrTimeout

	// ErrInterrupted is reported when the user aborts a prompt or the process is signalled.
	ErrInterrupted ErrorCode = 130
)

// ExitCodeInterrupted mirrors the shell convention for SIGINT.
const ExitCodeInterrupted = 130

// ExitCode returns the process exit status for an error code.
func (c ErrorCode) ExitCode() int {
	if c == ErrInterrupted {
		return ExitCodeInterrupted
	}
	return 1
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrConfigCorrupt:
		return "ConfigCorrupt"
	case ErrConfigRead:
		return "ConfigRead"
	case ErrConfigWrite:
		return "ConfigWrite"
	case ErrUnsupportedProvider:
		return "UnsupportedProvider"
	case ErrUnsupportedLanguage:
		return "UnsupportedLanguage"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrMissingAPIKey:
		return "MissingAPIKey"
	case ErrNotATerminal:
		return "NotATerminal"
	case ErrNotARepository:
		return "NotARepository"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrCommitFailed:
		return "CommitFailed"
	case ErrProviderCall:
		return "ProviderCall"
	case ErrAuthenticationFailed:
		return "AuthenticationFailed"
	case ErrRateLimited:
		return "RateLimited"
	case ErrTimeout:
		return "Timeout"
	case ErrInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// NewConfigReadError creates an error for an unreadable configuration file.
func NewConfigReadError(path string, err error) *AppError {
	return &AppError{
		Code:       ErrConfigRead,
		Message:    fmt.Sprintf("failed to read configuration %s", path),
		Cause:      err,
		Suggestion: fmt.Sprintf("Check the permissions of %s", path),
	}
}

// NewConfigWriteError creates an error for a failed configuration write.
func NewConfigWriteError(path string, err error) *AppError {
	return &AppError{
		Code:       ErrConfigWrite,
		Message:    fmt.Sprintf("failed to save configuration to %s", path),
		Cause:      err,
		Suggestion: "Check that your home directory is writable",
	}
}

// NewUnsupportedProviderError creates an error for an unknown provider name.
func NewUnsupportedProviderError(name string, known []string) *AppError {
	return &AppError{
		Code:       ErrUnsupportedProvider,
		Message:    fmt.Sprintf("unsupported provider: %s", name),
		Suggestion: fmt.Sprintf("Choose one of: %s", strings.Join(known, ", ")),
	}
}

// NewUnsupportedLanguageError creates an error for an unknown prompt language.
func NewUnsupportedLanguageError(lang string) *AppError {
	return &AppError{
		Code:       ErrUnsupportedLanguage,
		Message:    fmt.Sprintf("unsupported language: %s", lang),
		Suggestion: "Choose one of: pt, en",
	}
}

// NewInvalidArgumentsError creates an error for bad command-line input.
func NewInvalidArgumentsError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidArguments,
		Message:    message,
		Suggestion: "Run 'clizin --help' for usage",
	}
}

// NewMissingAPIKeyError creates an error for missing API key.
func NewMissingAPIKeyError(provider, envKey string) *AppError {
	suggestion := fmt.Sprintf("Run 'clizin config set-key %s <key>'", provider)
	if envKey != "" {
		suggestion += fmt.Sprintf(" or export %s", envKey)
	}
	return &AppError{
		Code:       ErrMissingAPIKey,
		Message:    fmt.Sprintf("API key for %s not provided", provider),
		Suggestion: suggestion,
	}
}

// NewNotATerminalError creates an error for runs without an interactive stdin.
func NewNotATerminalError() *AppError {
	return &AppError{
		Code:       ErrNotATerminal,
		Message:    "clizin needs an interactive terminal",
		Suggestion: "Run clizin directly from a terminal session",
	}
}

// NewNotARepositoryError creates an error for runs outside a git work tree.
func NewNotARepositoryError(err error) *AppError {
	return &AppError{
		Code:       ErrNotARepository,
		Message:    "not a git repository",
		Cause:      err,
		Suggestion: "Run clizin from inside a git repository",
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.WithContext("output", output)
	}
	return appErr
}

// NewCommitError creates an error for a rejected or failed commit.
func NewCommitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:       ErrCommitFailed,
		Message:    "git commit failed",
		Cause:      err,
		Suggestion: "Check the output of your commit hooks; the staged changes are untouched",
	}
	if output != "" {
		appErr.Message = fmt.Sprintf("git commit failed: %s", output)
		appErr.WithContext("output", output)
	}
	return appErr
}

// NewProviderError creates an error for a failed generation call.
func NewProviderError(provider, model string, err error) *AppError {
	return &AppError{
		Code:       ErrProviderCall,
		Message:    fmt.Sprintf("failed to generate commit with %s (%s)", provider, model),
		Cause:      err,
		Suggestion: "Check your network connection and the selected model",
	}
}

// NewAuthenticationError creates an error for authentication failures.
func NewAuthenticationError(provider string, err error) *AppError {
	return &AppError{
		Code:       ErrAuthenticationFailed,
		Message:    fmt.Sprintf("authentication failed with %s", provider),
		Cause:      err,
		Suggestion: "Please check your API key is valid and has not expired",
	}
}

// NewRateLimitError creates an error for rate limiting.
func NewRateLimitError(provider string, err error) *AppError {
	return &AppError{
		Code:       ErrRateLimited,
		Message:    fmt.Sprintf("rate limit exceeded for %s", provider),
		Cause:      err,
		Suggestion: "Please wait and try again later",
	}
}

// NewTimeoutError creates an error for timeouts.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:       ErrTimeout,
		Message:    "request timed out",
		Cause:      err,
		Suggestion: "Please check your network connection or try again later",
	}
}

// NewInterruptedError creates an error for an aborted run.
func NewInterruptedError(err error) *AppError {
	return &AppError{
		Code:    ErrInterrupted,
		Message: "interrupted",
		Cause:   err,
	}
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Suggestion))
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with its code, chain and context.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr == nil {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))
	if appErr.Cause != nil {
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, appErr.Cause, 2)
	}
	for k, v := range appErr.Context {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
	}
	if appErr.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", SanitizeErrorMessage(appErr.Suggestion)))
	}

	return sb.String()
}

func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, SanitizeErrorMessage(err.Error())))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	for _, pattern := range apiKeyPatterns {
		msg = pattern.ReplaceAllStringFunc(msg, MaskAPIKey)
	}
	return msg
}

// apiKeyPatterns matches OpenAI and Google key shapes.
var apiKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{20,}`),
	regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`),
}

// MaskAPIKey masks an API key for safe logging, showing only the last 4 characters.
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
