package glfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine,
// including runtime cleanup goroutines that feed the leak registry.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package-wide logger used by glfx.
// By default glfx produces no log output. Pass nil to restore silence.
//
// Contexts created with [WithLogger] use their own logger instead. A
// backend receives its logger once, from NewContext; SetLogger does not
// reach the backends of contexts that already exist.
//
// Log levels used by glfx:
//   - [slog.LevelDebug]: allocation, release, capability queries
//   - [slog.LevelInfo]: context creation and teardown
//   - [slog.LevelWarn]: orphaned handles swept at frame end, late orphans
//   - [slog.LevelError]: fatal release failures (logged before panicking)
//
// Example:
//
//	glfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package-wide logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by Native backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands the logger to a backend if it implements
// loggerSetter. Called from NewContext.
func propagateLogger(n Native, l *slog.Logger) {
	if ls, ok := n.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
