package errors

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.Warn("warn message")
	logger.Debug("debug message")

	output := buf.String()
	for _, want := range []string{"warn message", "debug message"} {
		if !strings.Contains(output, want) {
			t.Errorf("verbose output should contain %q, got %q", want, output)
		}
	}
}

func TestLogger_NonVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Warn("warn message")
	logger.Debug("debug message")

	if buf.Len() != 0 {
		t.Errorf("non-verbose output should be empty, got %q", buf.String())
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.LogAPIRequest("openai", "gpt-4", 1234)
	logger.LogAPIResponse("openai", 42, 1500*time.Millisecond)

	output := buf.String()
	for _, want := range []string{"provider=openai", "model=gpt-4", "prompt_length=1234", "response_length=42"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got %q", want, output)
		}
	}
}

func TestLogger_APILogsSilentWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.LogAPIRequest("google", "gemini-pro", 10)
	logger.LogAPIResponse("google", 10, time.Second)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetVerbose(false)
	}()

	if !IsVerbose() {
		t.Fatal("IsVerbose() should be true")
	}

	id := SetRunID()
	if len(id) != 8 {
		t.Errorf("run id = %q, want 8 characters", id)
	}

	Debug("staged files", "count", 3)
	output := buf.String()
	if !strings.Contains(output, "staged files") || !strings.Contains(output, "run="+id) {
		t.Errorf("output = %q", output)
	}
}
