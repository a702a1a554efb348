package safe

import (
	"log/slog"
	"runtime/debug"
	"strings"
)

// Run executes fn and converts a panic into an error log instead of
// tearing down the scheduler goroutine.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", stackTrace()),
			)
		}
	}()

	fn()
}

// RunWithLog is Run with an explicit component tag for the log line.
func RunWithLog(fn func(), component string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", stackTrace()),
			)
		}
	}()

	fn()
}

func stackTrace() string {
	lines := strings.Split(string(debug.Stack()), "\n")
	if len(lines) > 24 {
		lines = append(lines[:24], "... (truncated)")
	}
	return strings.Join(lines, "\n")
}
