// Package logging builds the structured failure log.
//
// Every fetch, tag-write, and filesystem error in the pipeline is
// recorded here with the artist/title context; the console stays
// reserved for progress and the final summary.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewErrorLog opens the failure log at path and returns a logger
// writing timestamped entries to it.
//
// The file is truncated on open: each run starts with a fresh log.
// Entries below Info level (cancellation noise) are suppressed.
//
// The caller owns the returned closer and should close it after the
// run completes.
func NewErrorLog(path string) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler), f, nil
}

// Discard returns a logger that drops everything. Used as the default
// when no error log is configured, and in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
