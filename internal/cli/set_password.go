package cli

import (
	"github.com/spf13/cobra"

	"routerctl/internal/router"
)

func newSetPasswordCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Change the wireless profile passphrase",
		Long: `Log in, open the editor of the configured profile, save the new
passphrase (NEW_PASSWORD) and log out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, app, router.OpSetPassword)
		},
	}
}
