package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"routerctl/internal/browser"
)

// Workflow is a named, ordered list of stages.
type Workflow struct {
	Name   string
	Stages []Stage
}

// StageNames lists the stage names in execution order.
func (w Workflow) StageNames() []string {
	names := make([]string, len(w.Stages))
	for i, s := range w.Stages {
		names[i] = s.StageName()
	}
	return names
}

// Observer is notified around every stage the [Runner] executes.
//
// Implementations must not block; they are called inline.
type Observer interface {
	StageStarted(workflow, stage string)
	StageFinished(workflow, stage string, elapsed time.Duration, err error)
}

// Runner executes workflows against a browser session.
//
// Runner is safe to reuse across workflows. It holds no session state: the
// session passed to [Runner.Run] is the only shared state.
type Runner struct {
	logger    *slog.Logger
	observers []Observer
}

// NewRunner creates a Runner that logs through logger. A nil logger discards.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger}
}

// AddObserver registers o for stage notifications.
func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Run executes the stages of wf in order and stops at the first failure.
//
// The returned error is always an [*Error] with Workflow set. Stages after
// the failing one are never executed.
func (r *Runner) Run(ctx context.Context, wf Workflow, s browser.Session) error {
	log := r.logger.With("workflow", wf.Name)
	log.Debug("workflow started", "stages", len(wf.Stages))

	for _, st := range wf.Stages {
		name := st.StageName()
		for _, o := range r.observers {
			o.StageStarted(wf.Name, name)
		}

		start := time.Now()
		err := st.Execute(ctx, s)
		elapsed := time.Since(start)

		for _, o := range r.observers {
			o.StageFinished(wf.Name, name, elapsed, err)
		}

		if err != nil {
			var werr *Error
			if !errors.As(err, &werr) {
				werr = &Error{Kind: SessionError, Step: name, Err: err}
			}
			if werr.Workflow == "" {
				werr.Workflow = wf.Name
			}
			log.Error("stage failed", "stage", name, "kind", string(werr.Kind), "elapsed", elapsed, "error", werr.Err)
			return werr
		}
		log.Debug("stage completed", "stage", name, "elapsed", elapsed)
	}

	log.Info("workflow completed")
	return nil
}
