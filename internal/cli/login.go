package cli

import (
	"github.com/spf13/cobra"

	"routerctl/internal/router"
)

func newLoginCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that the console accepts the credentials",
		Long:  `Log in to the web console and log out again without changing anything.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, app, router.OpLogin)
		},
	}
}
