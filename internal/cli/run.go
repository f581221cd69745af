package cli

import (
	"github.com/spf13/cobra"

	"routerctl/internal/router"
)

func newRunCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Change the profile password and apply the channel state",
		Long: `Run the full maintenance sequence against the configured profile:
  1. login                - Sign in to the web console
  2. change-password      - Open the profile editor and save the new passphrase
  3. toggle-channel       - Enable or disable the channel (ENABLE_CHANNEL)
  4. logout               - Sign out

The sequence stops at the first step the console does not confirm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, app, router.OpRun)
		},
	}
}
