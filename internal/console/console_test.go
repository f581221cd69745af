package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routerctl/internal/browser"
	"routerctl/internal/config"
	"routerctl/internal/workflow"
)

func testConfig(channel int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Router.URL = "http://192.168.29.1"
	cfg.Router.Username = "admin"
	cfg.Router.Password = "secret"
	cfg.Router.NewPassword = "python@123"
	cfg.Router.Channel = channel
	cfg.Timeouts.Step = 50 * time.Millisecond
	cfg.Timeouts.Clickable = 20 * time.Millisecond
	cfg.Timeouts.PollInterval = 2 * time.Millisecond
	return cfg
}

// run executes the workflows in order against the fake router, stopping at
// the first error.
func run(t *testing.T, r *FakeRouter, wfs ...workflow.Workflow) error {
	t.Helper()
	runner := workflow.NewRunner(nil)
	for _, wf := range wfs {
		if err := runner.Run(context.Background(), wf, r.Session); err != nil {
			return err
		}
	}
	return nil
}

func requireKind(t *testing.T, err error, want workflow.FailureKind, step string) {
	t.Helper()
	require.Error(t, err)
	var werr *workflow.Error
	require.True(t, errors.As(err, &werr), "expected *workflow.Error, got %T", err)
	assert.Equal(t, want, werr.Kind)
	assert.Equal(t, step, werr.Step)
}

func TestLogin(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)

	require.NoError(t, run(t, r, New(cfg).Login()))

	assert.Equal(t, "http://192.168.29.1", r.Session.URL)
	assert.Equal(t, "admin", r.Session.Get(userNameField).Value)
	assert.Equal(t, "secret", r.Session.Get(passwordField).Value)
}

func TestLogin_NoDashboard(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)
	r.BreakLogin = true

	err := run(t, r, New(cfg).Login())

	requireKind(t, err, workflow.LoginFailed, "submit-credentials")
	assert.ErrorIs(t, err, workflow.ErrTimeout)
}

func TestLogin_NavigateError(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)
	r.Session.NavigateErr = errors.New("net::ERR_CONNECTION_REFUSED")

	err := run(t, r, New(cfg).Login())

	requireKind(t, err, workflow.SessionError, "submit-credentials")
}

func TestNavigateToProfile(t *testing.T) {
	cfg := testConfig(7)
	r := NewFakeRouter(7, "Jio_7", false)
	c := New(cfg)

	require.NoError(t, run(t, r, c.Login(), c.NavigateToProfile()))

	assert.Contains(t, r.Session.Calls, `context-click xpath=//tbody/tr[@id="7"]/td[1]`)
	assert.Contains(t, r.Session.Calls, "click id=editMenu")
}

func TestNavigateToProfile_WrongProfileTimesOut(t *testing.T) {
	cfg := testConfig(7)
	r := NewFakeRouter(7, "Jio_3", false)
	c := New(cfg)

	err := run(t, r, c.Login(), c.NavigateToProfile())

	requireKind(t, err, workflow.NavigationFailed, "open-profile-editor")
	assert.ErrorIs(t, err, workflow.ErrTimeout)
}

func TestNavigateToProfile_CustomPrefix(t *testing.T) {
	cfg := testConfig(4)
	cfg.Router.ProfilePrefix = "Home_"
	r := NewFakeRouter(4, "Home_4", false)
	c := New(cfg)

	require.NoError(t, run(t, r, c.Login(), c.NavigateToProfile()))
}

func TestNavigateToProfile_MissingMenuIsSessionError(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)

	// Not logged in: the main menu is not on the page.
	err := run(t, r, New(cfg).NavigateToProfile())

	requireKind(t, err, workflow.SessionError, "open-network-menu")
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestChangePassword(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)
	c := New(cfg)

	require.NoError(t, run(t, r, c.Login(), c.ChangePassword()))

	assert.Equal(t, "python@123", r.Passphrase)
	assert.Equal(t, "python@123", r.Confirm)
}

func TestChangePassword_NotConfirmed(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)
	r.BreakSave = true
	c := New(cfg)

	err := run(t, r, c.Login(), c.ChangePassword())

	requireKind(t, err, workflow.PasswordUpdateFailed, "save-password")
}

func TestToggleChannel(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		enable     bool
		wantClick  string
		wantNoMenu bool
	}{
		{name: "enable disabled channel", enabled: false, enable: true, wantClick: "click id=enableMenu"},
		{name: "disable enabled channel", enabled: true, enable: false, wantClick: "click id=disableMenu"},
		{name: "already enabled", enabled: true, enable: true, wantClick: "click id=mainMenu1", wantNoMenu: true},
		{name: "already disabled", enabled: false, enable: false, wantClick: "click id=mainMenu1", wantNoMenu: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(3)
			r := NewFakeRouter(3, "Jio_3", tt.enabled)
			c := New(cfg)

			require.NoError(t, run(t, r, c.Login(), c.ToggleChannel(tt.enable)))

			assert.Equal(t, tt.enable, r.Enabled)
			assert.Contains(t, r.Session.Calls, tt.wantClick)
			if tt.wantNoMenu {
				assert.NotContains(t, r.Session.Calls, "click id=enableMenu")
				assert.NotContains(t, r.Session.Calls, "click id=disableMenu")
			}
		})
	}
}

func TestToggleChannel_Idempotent(t *testing.T) {
	cfg := testConfig(3)
	r := NewFakeRouter(3, "Jio_3", false)
	c := New(cfg)

	require.NoError(t, run(t, r, c.Login(), c.ToggleChannel(true)))
	r.Session.Calls = nil
	require.NoError(t, run(t, r, c.ToggleChannel(true)))

	assert.True(t, r.Enabled)
	assert.NotContains(t, r.Session.Calls, "click id=enableMenu")
	assert.Contains(t, r.Session.Calls, "click id=mainMenu1")
}

func TestToggleChannel_NotConfirmed(t *testing.T) {
	cfg := testConfig(3)
	r := NewFakeRouter(3, "Jio_3", false)
	r.BreakToggle = true
	c := New(cfg)

	err := run(t, r, c.Login(), c.ToggleChannel(true))

	requireKind(t, err, workflow.ChannelToggleFailed, "enable-channel")
}

func TestToggleChannel_StaleSuccessMessageCleared(t *testing.T) {
	// A success banner left by the password change must not confirm the
	// toggle: opening the network menu clears it.
	cfg := testConfig(3)
	r := NewFakeRouter(3, "Jio_3", false)
	c := New(cfg)
	require.NoError(t, run(t, r, c.Login(), c.ChangePassword()))
	r.BreakToggle = true

	err := run(t, r, c.ToggleChannel(true))

	requireKind(t, err, workflow.ChannelToggleFailed, "enable-channel")
}

func TestChannelEnabled_ClassToken(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{class: "enableIcon sorting_1", want: true},
		{class: "row enableIcon sorting_1 odd", want: true},
		{class: "disableIcon sorting_1", want: false},
		{class: "sorting_1 enableIcon", want: false},
		{class: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			s := browser.NewFakeSession()
			s.Put(channelStatusCell(5), &browser.FakeElement{Attrs: map[string]string{"class": tt.class}})

			got, err := New(testConfig(5)).ChannelEnabled(context.Background(), s)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChannelEnabled_MissingRow(t *testing.T) {
	_, err := New(testConfig(5)).ChannelEnabled(context.Background(), browser.NewFakeSession())

	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestLogout(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)
	c := New(cfg)

	require.NoError(t, run(t, r, c.Login(), c.Logout()))

	assert.Contains(t, r.Session.Calls, "hover id=lblLoggedinUser")
}

func TestLogout_NoLoginForm(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)
	r.BreakLogout = true
	c := New(cfg)

	err := run(t, r, c.Login(), c.Logout())

	requireKind(t, err, workflow.LogoutFailed, "sign-out")
}

func TestFullRun(t *testing.T) {
	cfg := testConfig(2)
	r := NewFakeRouter(2, "Jio_2", false)
	c := New(cfg)

	require.NoError(t, run(t, r, c.Login(), c.ChangePassword(), c.ToggleChannel(true), c.Logout()))

	assert.Equal(t, "python@123", r.Passphrase)
	assert.True(t, r.Enabled)
}

func TestWorkflowShapes(t *testing.T) {
	c := New(testConfig(2))

	tests := []struct {
		wf   workflow.Workflow
		want []string
	}{
		{wf: c.Login(), want: []string{"submit-credentials"}},
		{wf: c.NavigateToProfile(), want: []string{"open-network-menu", "open-wireless", "open-profile-editor"}},
		{wf: c.ChangePassword(), want: []string{"open-network-menu", "open-wireless", "open-profile-editor", "save-password"}},
		{wf: c.ToggleChannel(true), want: []string{"open-network-menu", "open-wireless", "apply-channel-state"}},
		{wf: c.Logout(), want: []string{"sign-out"}},
	}

	for _, tt := range tests {
		t.Run(tt.wf.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.wf.StageNames())
		})
	}
}

func TestNavigateStages_Timeouts(t *testing.T) {
	cfg := testConfig(2)
	stages := New(cfg).navigateStages()

	assert.Equal(t, cfg.Timeouts.Clickable, stages[0].(*workflow.Step).Timeout)
	assert.Equal(t, cfg.Timeouts.Step, stages[1].(*workflow.Step).Timeout)
	assert.Equal(t, cfg.Timeouts.Step, stages[2].(*workflow.Step).Timeout)
	for _, st := range stages {
		assert.Equal(t, workflow.NavigationFailed, st.(*workflow.Step).Failure)
	}
}
