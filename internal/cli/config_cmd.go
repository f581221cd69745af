package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, config file, .env and
environment have been merged. Passwords are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Config.YAML()
			if err != nil {
				app.Printer.Failure(err)
				return NewExitError(ExitFailure, err)
			}
			app.Printer.Text(string(data))
			return nil
		},
	}
}
