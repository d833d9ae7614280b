package linemesh

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/linemesh/internal/gpu"
)

// silent discards every record. Its handler reports every level as
// disabled, so log calls cost only the level check.
var silent = slog.New(slog.DiscardHandler)

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while buckets are parsed on worker goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(silent)
}

// SetLogger configures the logger for linemesh and its sub-packages.
// By default, linemesh produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by linemesh:
//   - [slog.LevelDebug]: skipped geometry, segment splits, buffer sizes
//   - [slog.LevelInfo]: pipeline creation
//   - [slog.LevelWarn]: resource release errors
//
// Example:
//
//	linemesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger used by linemesh.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
