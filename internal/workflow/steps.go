// Package workflow provides the step engine that drives the router console.
//
// A [Workflow] is an ordered list of stages. Each stage is either a fixed
// [Step] (actions followed by a bounded wait on a [Predicate]) or a [Branch]
// that reads live page state and picks the Step to run. The [Runner] executes
// stages in order against a [browser.Session] and stops at the first failure.
//
// Key types:
//   - [Action] is one element interaction (navigate, click, type...)
//   - [Predicate] is a completion condition polled after a Step's actions
//   - [Step] / [Branch] are the stages of a workflow
//   - [Runner] executes workflows and reports to an [Observer]
//   - [Error] carries the [FailureKind] of a failed stage
//
// Failure classification: an action that cannot find its element, or any
// driver error, is a [SessionError]. A predicate that does not hold before the
// Step's timeout is the Step's own FailureKind wrapping [ErrTimeout].
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"routerctl/internal/browser"
)

// DefaultPollInterval is used by a Step whose PollInterval is zero.
const DefaultPollInterval = 250 * time.Millisecond

// Stage is one entry of a [Workflow]: a [Step] or a [Branch].
type Stage interface {
	// StageName identifies the stage in progress output and errors.
	StageName() string

	// Execute runs the stage against the session.
	Execute(ctx context.Context, s browser.Session) error
}

// Step is a named unit of work: perform Actions in order, then wait until
// the Until predicate holds.
//
// Steps are built once when a workflow is defined and never mutated.
type Step struct {
	// Name is used for diagnostics, e.g. "submit-credentials".
	Name string

	// Actions run in declaration order.
	Actions []Action

	// Until is the completion condition. A nil Until completes as soon as
	// the actions do.
	Until Predicate

	// Timeout bounds the wait on Until.
	Timeout time.Duration

	// PollInterval is how often Until is checked. Zero uses
	// [DefaultPollInterval].
	PollInterval time.Duration

	// Failure is the kind reported when Until does not hold in time.
	Failure FailureKind
}

// StageName implements [Stage].
func (s *Step) StageName() string {
	return s.Name
}

// Execute implements [Stage].
func (s *Step) Execute(ctx context.Context, sess browser.Session) error {
	for _, a := range s.Actions {
		if err := a.Apply(ctx, sess); err != nil {
			return &Error{Kind: SessionError, Step: s.Name, Err: fmt.Errorf("%s: %w", a, err)}
		}
	}

	if s.Until == nil {
		return nil
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	if err := waitUntil(ctx, sess, s.Until, s.Timeout, interval); err != nil {
		kind := SessionError
		if errors.Is(err, ErrTimeout) {
			kind = s.Failure
		}
		return &Error{Kind: kind, Step: s.Name, Err: err}
	}
	return nil
}

// Branch is a stage that decides at execution time which Step to run.
//
// Choose must read the state it needs from the live session; the page can only
// be queried, never cached. A nil Step from Choose means nothing needs doing
// and the branch succeeds.
type Branch struct {
	Name   string
	Choose func(ctx context.Context, s browser.Session) (*Step, error)
}

// StageName implements [Stage].
func (b *Branch) StageName() string {
	return b.Name
}

// Execute implements [Stage].
func (b *Branch) Execute(ctx context.Context, sess browser.Session) error {
	step, err := b.Choose(ctx, sess)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return werr
		}
		return &Error{Kind: SessionError, Step: b.Name, Err: err}
	}
	if step == nil {
		return nil
	}
	return step.Execute(ctx, sess)
}

// waitUntil polls p every interval until it holds or timeout elapses. The
// predicate is always checked at least once.
func waitUntil(ctx context.Context, sess browser.Session, p Predicate, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := p.Check(ctx, sess)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %s within %s", ErrTimeout, p, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
