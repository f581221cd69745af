// Package lifecycle runs a CLI operation as its chain of console workflows.
//
// The lifecycle package provides [Executor] which resolves an operation to
// its workflow chain via the router (login, the operation's own workflows,
// logout) and runs each workflow against one browser session.
//
// Key concepts:
//   - Chains are determined by [router.Router.GetChain] from the operation
//   - Each workflow is built by the console package from the loaded config
//   - Progress can be tracked via [ProgressCallback]
package lifecycle

import (
	"context"
	"fmt"

	"routerctl/internal/browser"
	"routerctl/internal/config"
	"routerctl/internal/console"
	"routerctl/internal/router"
	"routerctl/internal/workflow"
)

// WorkflowRunner is the interface for executing individual workflows.
//
// Run executes wf against the session and returns nil on success or the
// first failure. The [workflow.Runner] type implements this interface.
type WorkflowRunner interface {
	Run(ctx context.Context, wf workflow.Workflow, s browser.Session) error
}

// ProgressCallback is invoked before each workflow begins execution.
//
// The callback receives stepIndex (1-based), totalSteps count, and the workflow name.
// This enables progress reporting in the UI. The callback is optional and can be set
// via [Executor.SetProgressCallback].
type ProgressCallback func(stepIndex, totalSteps int, workflow string)

// Executor orchestrates an operation's workflow chain.
//
// Executor uses dependency injection for testability: [WorkflowRunner] executes
// workflows and the session is passed to [Executor.Execute] by the caller, who
// owns its lifetime. Use [NewExecutor] to create an instance.
type Executor struct {
	runner           WorkflowRunner
	console          *console.Console
	enableChannel    bool
	progressCallback ProgressCallback
	router           *router.Router
}

// NewExecutor creates a new Executor that builds workflows from cfg.
//
// The desired channel state is taken from cfg.Router.EnableChannel when the
// executor is created.
func NewExecutor(runner WorkflowRunner, cfg *config.Config) *Executor {
	return &Executor{
		runner:        runner,
		console:       console.New(cfg),
		enableChannel: cfg.Router.EnableChannel,
	}
}

// SetRouter configures a custom [router.Router]. If not set (or set to nil),
// the package-level default chains are used.
func (e *Executor) SetRouter(r *router.Router) {
	e.router = r
}

// SetProgressCallback configures an optional progress callback for workflow execution.
func (e *Executor) SetProgressCallback(cb ProgressCallback) {
	e.progressCallback = cb
}

func (e *Executor) getChain(op router.Operation) ([]string, error) {
	if e.router != nil {
		return e.router.GetChain(op)
	}
	return router.GetChain(op)
}

// Steps returns the workflows op would run, without executing them.
//
// Steps provides the --dry-run preview: it needs no session and never
// touches the browser. Returns [router.ErrUnknownOperation] for unknown
// operations.
func (e *Executor) Steps(op router.Operation) ([]workflow.Workflow, error) {
	names, err := e.getChain(op)
	if err != nil {
		return nil, err
	}

	wfs := make([]workflow.Workflow, len(names))
	for i, name := range names {
		wf, err := e.build(name)
		if err != nil {
			return nil, err
		}
		wfs[i] = wf
	}
	return wfs, nil
}

// Execute runs op's workflows in sequence against s.
//
// Execute uses fail-fast behavior: it stops on the first error and returns it
// unchanged, so a [*workflow.Error] keeps its FailureKind. Nothing after the
// failing workflow runs, including the trailing logout.
func (e *Executor) Execute(ctx context.Context, s browser.Session, op router.Operation) error {
	wfs, err := e.Steps(op)
	if err != nil {
		return err
	}

	total := len(wfs)
	for i, wf := range wfs {
		if e.progressCallback != nil {
			e.progressCallback(i+1, total, wf.Name)
		}

		if err := e.runner.Run(ctx, wf, s); err != nil {
			return err
		}
	}
	return nil
}

// build maps a workflow name to its console builder.
func (e *Executor) build(name string) (workflow.Workflow, error) {
	switch name {
	case console.LoginWorkflow:
		return e.console.Login(), nil
	case console.NavigateWorkflow:
		return e.console.NavigateToProfile(), nil
	case console.ChangePasswordWorkflow:
		return e.console.ChangePassword(), nil
	case console.ToggleChannelWorkflow:
		return e.console.ToggleChannel(e.enableChannel), nil
	case console.LogoutWorkflow:
		return e.console.Logout(), nil
	default:
		return workflow.Workflow{}, fmt.Errorf("no builder for workflow %q", name)
	}
}
