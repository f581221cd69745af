// Package logging builds the diagnostic logger for a routerctl run.
//
// Diagnostics go to stderr through log/slog, separate from the styled
// progress output on stdout. Every record carries the run_id of the
// invocation so the lines of one run can be grouped.
package logging

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Options selects the handler and level.
type Options struct {
	// Verbose lowers the level to Debug.
	Verbose bool

	// JSON switches from the text handler to the JSON handler.
	JSON bool

	// RunID tags every record. Empty generates a new one.
	RunID string
}

// New returns a logger writing to w and the run id it tags records with.
func New(w io.Writer, opts Options) (*slog.Logger, string) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	runID := opts.RunID
	if runID == "" {
		runID = NewRunID()
	}

	return slog.New(handler).With(slog.String("run_id", runID)), runID
}

// NewRunID returns a random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
