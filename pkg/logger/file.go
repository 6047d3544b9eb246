package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// DebugFileName is the log file written inside .forkline/ under --debug.
const DebugFileName = "debug.log"

// AppendFile opens path for appending and returns a JSON debug logger that
// records the source location of every line, plus the file to close.
func AppendFile(path string) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	l := New(
		WithWriter(f),
		WithJSON(true),
		WithDebug(true),
		WithSource(true),
	)
	return l, f, nil
}
