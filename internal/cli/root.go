// Package cli implements the routerctl command line.
//
// Each command lives in its own file and receives the shared [App]. Commands
// never call os.Exit: failures are reported through the printer and returned
// as [ExitError] so tests can assert on exit codes.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"routerctl/internal/browser"
	"routerctl/internal/config"
	"routerctl/internal/logging"
	"routerctl/internal/output"
)

// SessionFactory opens the browser session a command runs against.
type SessionFactory func(ctx context.Context, cfg *config.Config) (browser.Session, error)

// App holds the dependencies shared by all commands.
//
// Fields left nil are filled in with production defaults when the root
// command runs: configuration from the standard search path, a Chrome
// session factory and a stderr logger.
type App struct {
	Config  *config.Config
	Printer *output.Printer
	Logger  *slog.Logger

	// LogWriter receives diagnostics. Default: stderr.
	LogWriter io.Writer

	// NewSession opens a browser session. Default: [ChromeSessionFactory].
	NewSession SessionFactory

	// WaitForInterrupt blocks in debug mode until the user asks to exit.
	// Default: wait for the command context to be cancelled by Ctrl+C.
	WaitForInterrupt func(ctx context.Context)

	flags globalFlags
}

type globalFlags struct {
	dryRun     bool
	debug      bool
	verbose    bool
	logJSON    bool
	configPath string
}

// NewApp returns an App with the production printer and session factory.
// A nil cfg is loaded when the first command runs.
func NewApp(cfg *config.Config) *App {
	return &App{
		Config:     cfg,
		Printer:    output.NewPrinter(),
		NewSession: ChromeSessionFactory,
	}
}

// ChromeSessionFactory launches (or attaches to) Chrome as configured. In
// debug mode the window is always shown.
func ChromeSessionFactory(ctx context.Context, cfg *config.Config) (browser.Session, error) {
	return browser.NewChromeSession(ctx, browser.ChromeOptions{
		Headless:      cfg.Browser.Headless && !cfg.Debug,
		RemoteURL:     cfg.Browser.RemoteURL,
		ExecPath:      cfg.Browser.ExecPath,
		WindowWidth:   cfg.Browser.WindowWidth,
		WindowHeight:  cfg.Browser.WindowHeight,
		ActionTimeout: cfg.Timeouts.Action,
	})
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "routerctl",
		Short: "Automate the router web console",
		Long: `routerctl drives the router's web console through Chrome.

It logs in, opens the configured wireless profile, changes its passphrase,
enables or disables the profile's channel, and logs out. Every step waits
for the console to confirm the change and stops at the first failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&app.flags.dryRun, "dry-run", false, "print the workflows without opening a browser")
	flags.BoolVar(&app.flags.debug, "debug", false, "show the browser and keep it open until Ctrl+C")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "log every stage at debug level")
	flags.BoolVar(&app.flags.logJSON, "log-json", false, "write diagnostics as JSON")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default: search path)")

	rootCmd.AddCommand(
		newRunCommand(app),
		newSetPasswordCommand(app),
		newToggleChannelCommand(app),
		newLoginCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// prepare loads configuration and applies the global flags.
func (app *App) prepare(cmd *cobra.Command) error {
	if app.Printer == nil {
		app.Printer = output.NewPrinterWithWriter(cmd.OutOrStdout())
	}

	if app.Config == nil || app.flags.configPath != "" {
		loader := config.NewLoader()
		var cfg *config.Config
		var err error
		if app.flags.configPath != "" {
			cfg, err = loader.LoadFromFile(app.flags.configPath)
		} else {
			cfg, err = loader.Load()
		}
		if err != nil {
			app.Printer.Failure(err)
			return NewExitError(ExitConfig, err)
		}
		app.Config = cfg
	}

	if cmd.Flags().Changed("debug") {
		app.Config.Debug = app.flags.debug
	}

	if app.Logger == nil {
		w := app.LogWriter
		if w == nil {
			w = os.Stderr
		}
		app.Logger, _ = logging.New(w, logging.Options{Verbose: app.flags.verbose, JSON: app.flags.logJSON})
	}
	if app.NewSession == nil {
		app.NewSession = ChromeSessionFactory
	}
	if app.WaitForInterrupt == nil {
		app.WaitForInterrupt = func(ctx context.Context) { <-ctx.Done() }
	}
	return nil
}

// ExecuteResult is the outcome of a command run.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig runs the command line args against app and maps the result
// to an exit code.
func RunWithConfig(ctx context.Context, app *App, args []string) ExecuteResult {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		// Flag and argument errors from cobra itself.
		rootCmd.PrintErrln("Error:", err)
		return ExecuteResult{ExitCode: ExitFailure, Err: err}
	}
	return ExecuteResult{ExitCode: ExitSuccess}
}

// Execute runs the command line and exits the process. Ctrl+C or SIGTERM
// cancel the run.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result := RunWithConfig(ctx, NewApp(nil), os.Args[1:])
	stop()

	if result.Err != nil && errors.Is(result.Err, context.Canceled) {
		os.Exit(130)
	}
	os.Exit(result.ExitCode)
}
