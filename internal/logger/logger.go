package logger

import (
	"log/slog"
	"os"
)

var verboseMode bool

// Init configures the global logger. Verbose mode surfaces everything down
// to debug level on stderr; otherwise only warnings and errors are shown
// so interactive output stays clean.
func Init(verbose bool) {
	verboseMode = verbose

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// Debug logs debug messages, visible only in verbose mode
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Info logs info messages, visible only in verbose mode
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Warn logs warning messages regardless of verbose mode
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error always logs error messages
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verboseMode
}
