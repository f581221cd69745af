// Package console describes the router's web console as workflows.
//
// Each builder on [Console] returns a [workflow.Workflow] closed over the
// loaded configuration: credentials, target channel, new passphrase and
// timeouts. Builders never touch a session; the page is only read when the
// [workflow.Runner] executes the stages.
//
// The selectors target the "tf1_" markup used by JioFiber-style routers.
package console

import (
	"context"
	"strings"
	"time"

	"routerctl/internal/browser"
	"routerctl/internal/config"
	"routerctl/internal/workflow"
)

// Workflow names.
const (
	LoginWorkflow          = "login"
	NavigateWorkflow       = "navigate-to-profile"
	ChangePasswordWorkflow = "change-password"
	ToggleChannelWorkflow  = "toggle-channel"
	LogoutWorkflow         = "logout"
)

// Console builds workflows for one router.
type Console struct {
	cfg *config.Config
}

// New returns a Console for cfg.
func New(cfg *config.Config) *Console {
	return &Console{cfg: cfg}
}

// Login opens the console, submits the credentials and waits for the
// dashboard.
func (c *Console) Login() workflow.Workflow {
	r := c.cfg.Router
	return workflow.Workflow{
		Name: LoginWorkflow,
		Stages: []workflow.Stage{
			c.step("submit-credentials", workflow.LoginFailed, c.cfg.Timeouts.Step,
				workflow.TextPresent(pageBody, "Dashboard"),
				workflow.Navigate(r.URL),
				workflow.Type(userNameField, r.Username),
				workflow.Type(passwordField, r.Password),
				workflow.Click(loginButton),
			),
		},
	}
}

// NavigateToProfile opens the editor dialog of the configured channel's
// wireless profile.
func (c *Console) NavigateToProfile() workflow.Workflow {
	return workflow.Workflow{
		Name:   NavigateWorkflow,
		Stages: c.navigateStages(),
	}
}

// ChangePassword opens the profile editor and saves the new passphrase.
func (c *Console) ChangePassword() workflow.Workflow {
	pw := c.cfg.Router.NewPassword
	stages := append(c.navigateStages(),
		c.step("save-password", workflow.PasswordUpdateFailed, c.cfg.Timeouts.Step,
			workflow.TextPresent(statusMessage, operationSucceeded),
			workflow.Clear(passphraseField),
			workflow.Type(passphraseField, pw),
			workflow.Clear(passphraseConfirm),
			workflow.Type(passphraseConfirm, pw),
			workflow.Click(dialogSaveButton),
		),
	)
	return workflow.Workflow{Name: ChangePasswordWorkflow, Stages: stages}
}

// ToggleChannel brings the channel to the enabled state given by enable.
// When the channel is already in that state it returns to the dashboard and
// succeeds, so running it twice with the same flag changes nothing.
func (c *Console) ToggleChannel(enable bool) workflow.Workflow {
	nav := c.navigateStages()
	return workflow.Workflow{
		Name: ToggleChannelWorkflow,
		Stages: []workflow.Stage{
			nav[0],
			nav[1],
			&workflow.Branch{
				Name: "apply-channel-state",
				Choose: func(ctx context.Context, s browser.Session) (*workflow.Step, error) {
					enabled, err := c.ChannelEnabled(ctx, s)
					if err != nil {
						return nil, err
					}
					switch {
					case enable && !enabled:
						return c.channelStep("enable-channel", enableMenu), nil
					case !enable && enabled:
						return c.channelStep("disable-channel", disableMenu), nil
					default:
						return &workflow.Step{
							Name:    "channel-unchanged",
							Actions: []workflow.Action{workflow.Click(dashboardMenu)},
						}, nil
					}
				},
			},
		},
	}
}

// Logout signs out through the user menu and waits for the login form.
func (c *Console) Logout() workflow.Workflow {
	return workflow.Workflow{
		Name: LogoutWorkflow,
		Stages: []workflow.Stage{
			c.step("sign-out", workflow.LogoutFailed, c.cfg.Timeouts.Step,
				workflow.TextPresent(loginButtonLabel, "Login"),
				workflow.Hover(loggedInUserLabel),
				workflow.Click(logoutAnchor),
				workflow.Click(logoutConfirm),
			),
		},
	}
}

// ChannelEnabled reads the channel's status cell from the live page. The
// class attribute is matched as a substring, exactly as the console renders
// it for an enabled row.
func (c *Console) ChannelEnabled(ctx context.Context, s browser.Session) (bool, error) {
	cell, err := s.Find(ctx, channelStatusCell(c.cfg.Router.Channel))
	if err != nil {
		return false, err
	}
	class, err := cell.Attribute(ctx, "class")
	if err != nil {
		return false, err
	}
	return strings.Contains(class, c.cfg.Router.EnabledClass), nil
}

// navigateStages returns fresh copies of the three navigation steps.
func (c *Console) navigateStages() []workflow.Stage {
	t := c.cfg.Timeouts
	return []workflow.Stage{
		c.step("open-network-menu", workflow.NavigationFailed, t.Clickable,
			workflow.Clickable(wirelessEntry),
			workflow.Click(networkMenu),
		),
		c.step("open-wireless", workflow.NavigationFailed, t.Step,
			workflow.Present(profilesLink),
			workflow.Click(wirelessEntry),
		),
		c.step("open-profile-editor", workflow.NavigationFailed, t.Step,
			workflow.All(
				workflow.TextPresent(dialogTitle, profileDialogHeading),
				workflow.TextPresent(profileNameText, c.cfg.ProfileName()),
			),
			workflow.Click(profilesLink),
			workflow.ContextClick(profileRow(c.cfg.Router.Channel)),
			workflow.Click(editMenu),
		),
	}
}

func (c *Console) channelStep(name string, menu browser.Locator) *workflow.Step {
	return c.step(name, workflow.ChannelToggleFailed, c.cfg.Timeouts.Step,
		workflow.TextPresent(statusMessage, operationSucceeded),
		workflow.ContextClick(channelStatusCell(c.cfg.Router.Channel)),
		workflow.Click(menu),
	)
}

func (c *Console) step(name string, failure workflow.FailureKind, timeout time.Duration, until workflow.Predicate, actions ...workflow.Action) *workflow.Step {
	return &workflow.Step{
		Name:         name,
		Actions:      actions,
		Until:        until,
		Timeout:      timeout,
		PollInterval: c.cfg.Timeouts.PollInterval,
		Failure:      failure,
	}
}
