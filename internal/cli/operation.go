package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"routerctl/internal/lifecycle"
	"routerctl/internal/metrics"
	"routerctl/internal/router"
	"routerctl/internal/workflow"
)

// runOperation is the body shared by the operation commands: validate the
// configuration, preview or open a session, run the workflow chain and
// report.
func runOperation(cmd *cobra.Command, app *App, op router.Operation) error {
	cfg := app.Config
	log := app.Logger.With("operation", op.String())

	if err := cfg.Validate(router.NeedsNewPassword(op)); err != nil {
		app.Printer.Failure(err)
		return NewExitError(ExitConfig, err)
	}

	runner := workflow.NewRunner(log)
	runner.AddObserver(app.Printer)

	var recorder *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewRecorder()
		runner.AddObserver(recorder)
	}

	executor := lifecycle.NewExecutor(runner, cfg)
	executor.SetProgressCallback(app.Printer.WorkflowStart)

	if app.flags.dryRun {
		wfs, err := executor.Steps(op)
		if err != nil {
			app.Printer.Failure(err)
			return NewExitError(ExitFailure, err)
		}
		app.Printer.DryRun(op.String(), wfs)
		return nil
	}

	ctx := cmd.Context()
	app.Printer.OperationStart(op.String(), fmt.Sprintf("%s (channel %d)", cfg.Router.URL, cfg.Router.Channel))

	session, err := app.NewSession(ctx, cfg)
	if err != nil {
		err = &workflow.Error{Kind: workflow.SessionError, Workflow: "start-browser", Step: "launch", Err: err}
		finish(app, recorder, op, err)
		app.Printer.Failure(err)
		return NewExitError(ExitFailure, err)
	}
	defer func() {
		if cfg.Debug {
			app.Printer.Warning("debug mode: browser left open, press Ctrl+C to exit")
			app.WaitForInterrupt(ctx)
		}
		if err := session.Close(); err != nil {
			log.Warn("failed to close browser", "error", err)
		}
	}()

	start := time.Now()
	err = executor.Execute(ctx, session, op)
	finish(app, recorder, op, err)
	if err != nil {
		app.Printer.Failure(err)
		return NewExitError(ExitFailure, err)
	}

	app.Printer.OperationComplete(op.String(), time.Since(start))
	return nil
}

// finish records the run outcome and writes the metrics textfile when one
// is configured.
func finish(app *App, recorder *metrics.Recorder, op router.Operation, err error) {
	if recorder == nil {
		return
	}
	recorder.RunFinished(op.String(), err)
	if werr := recorder.WriteTextfile(app.Config.Metrics.Textfile); werr != nil {
		app.Logger.Warn("failed to write metrics textfile", "path", app.Config.Metrics.Textfile, "error", werr)
	}
}
