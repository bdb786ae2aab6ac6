// Package logging builds the slog loggers used across the editor binaries.
//
// Log output always goes to Stderr so it never interleaves with the stdout
// surfaces (JSON-RPC framing, rendered TUI output, piped exports).
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the standard CLI logger. Verbose mode lowers the
// threshold to Debug; otherwise Info and above are emitted.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return NewAt(os.Stderr, level)
}

// NewAt builds a text logger writing to w at the given level. Attribute
// keys are normalized so log scrapers see a single spelling: "error"
// becomes "err".
func NewAt(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
