package stellar

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// loggerPtr stores the active package logger. Accessed atomically so that
// SetLogger can be called while a host loop is logging.
var loggerPtr atomic.Pointer[log.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// newNopLogger returns a logger that discards everything. Its level is
// above Fatal so formatting is skipped.
func newNopLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel + 1})
}

// SetLogger configures the logger used by stellar. By default stellar
// produces no log output. Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: layout and regeneration details
//   - Info: lifecycle transitions (activate, deactivate, resize)
//   - Warn: skipped glyphs, empty layouts
//   - Error: per-entity update/draw failures, zero-area containers
//
// Example:
//
//	stellar.SetLogger(log.NewWithOptions(os.Stderr, log.Options{
//		ReportTimestamp: true,
//		Level:           log.DebugLevel,
//	}))
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *log.Logger {
	return loggerPtr.Load()
}

func logger() *log.Logger {
	return loggerPtr.Load()
}
