package errors

import (
	"io"
	"os"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger wraps a charmbracelet logger with verbose mode support.
type Logger struct {
	mu      sync.Mutex
	base    *charmlog.Logger
	verbose bool
}

var defaultLogger = NewLogger(os.Stderr, false)

// NewLogger creates a logger writing to output. Verbose enables debug output;
// otherwise the logger stays quiet and the CLI reports failures itself.
func NewLogger(output io.Writer, verbose bool) *Logger {
	base := charmlog.NewWithOptions(output, charmlog.Options{
		Prefix:          "clizin",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	l := &Logger{base: base}
	l.setVerbose(verbose)
	return l
}

func (l *Logger) setVerbose(verbose bool) {
	l.verbose = verbose
	if verbose {
		l.base.SetLevel(charmlog.DebugLevel)
	} else {
		l.base.SetLevel(charmlog.ErrorLevel)
	}
}

func (l *Logger) logger() *charmlog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.base
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.logger().Warn(msg, keyvals...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.logger().Debug(msg, keyvals...)
}

// LogAPIRequest logs an outgoing provider request. The key is never part of the record.
func (l *Logger) LogAPIRequest(provider, model string, promptLength int) {
	l.Debug("provider request", "provider", provider, "model", model, "prompt_length", promptLength)
}

// LogAPIResponse logs a provider response summary.
func (l *Logger) LogAPIResponse(provider string, responseLength int, duration time.Duration) {
	l.Debug("provider response", "provider", provider, "response_length", responseLength, "duration", duration.Round(time.Millisecond))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.setVerbose(verbose)
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.verbose
}

// SetOutput sets the output writer for the logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.base.SetOutput(w)
}

// SetRunID tags every subsequent record with a fresh short run identifier and returns it.
func SetRunID() string {
	id := uuid.NewString()[:8]
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.base = defaultLogger.base.With("run", id)
	return id
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	defaultLogger.Warn(msg, keyvals...)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	defaultLogger.Debug(msg, keyvals...)
}

// LogAPIRequest logs an API request in verbose mode.
func LogAPIRequest(provider, model string, promptLength int) {
	defaultLogger.LogAPIRequest(provider, model, promptLength)
}

// LogAPIResponse logs an API response in verbose mode.
func LogAPIResponse(provider string, responseLength int, duration time.Duration) {
	defaultLogger.LogAPIResponse(provider, responseLength, duration)
}
