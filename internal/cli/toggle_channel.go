package cli

import (
	"github.com/spf13/cobra"

	"routerctl/internal/router"
)

func newToggleChannelCommand(app *App) *cobra.Command {
	var enable, disable bool

	cmd := &cobra.Command{
		Use:   "toggle-channel",
		Short: "Enable or disable the profile's channel",
		Long: `Log in, set the channel row to the requested state and log out.

Without --enable or --disable the state comes from ENABLE_CHANNEL.
A channel already in the requested state is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case enable:
				app.Config.Router.EnableChannel = true
			case disable:
				app.Config.Router.EnableChannel = false
			}
			return runOperation(cmd, app, router.OpToggleChannel)
		},
	}

	cmd.Flags().BoolVar(&enable, "enable", false, "enable the channel")
	cmd.Flags().BoolVar(&disable, "disable", false, "disable the channel")
	cmd.MarkFlagsMutuallyExclusive("enable", "disable")

	return cmd
}
