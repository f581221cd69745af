// Package config provides configuration loading and management for routerctl.
//
// Configuration is loaded using Viper, supporting YAML config files, a .env
// file and environment variable overrides. The router credentials keep the
// plain environment names the console scripts always used (ROUTER_URL,
// ROUTER_USER_NAME, ROUTER_PASSWORD, NEW_PASSWORD, ROUTER_CHANNEL,
// ENABLE_CHANNEL); every key can also be set with the ROUTERCTL_ prefix.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [RouterConfig] holds the router address, credentials and target channel
//   - [BrowserConfig] controls how Chrome is started or attached to
//   - [TimeoutConfig] holds the wait budgets for workflow steps
//
// Configuration priority (highest to lowest):
//  1. Environment variables
//  2. .env file (./.env or ROUTERCTL_DOTENV_PATH)
//  3. Config file specified by ROUTERCTL_CONFIG_PATH
//  4. User config directory (platform-standard):
//     - Linux: ~/.config/routerctl/config.yaml
//     - macOS: ~/Library/Application Support/routerctl/config.yaml
//     - Windows: %APPDATA%\routerctl\config.yaml
//  5. ./routerctl.yaml
//  6. [DefaultConfig] defaults
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidChannel is returned when router.channel is not an integer.
var ErrInvalidChannel = errors.New("invalid router channel")

// ErrMissingValue is returned by [Config.Validate] for a required empty key.
var ErrMissingValue = errors.New("missing required configuration value")

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used throughout
// the application. Use [DefaultConfig] to get sensible defaults.
type Config struct {
	// Router identifies the device and the wireless profile to change.
	Router RouterConfig `mapstructure:"router" yaml:"router"`

	// Debug starts Chrome headed and leaves it open after the run.
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// Browser controls the Chrome session.
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`

	// Timeouts bounds every wait.
	Timeouts TimeoutConfig `mapstructure:"timeouts" yaml:"timeouts"`

	// Metrics configures the Prometheus textfile export.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// RouterConfig holds the router console address, credentials and the
// wireless profile the workflows operate on.
type RouterConfig struct {
	// URL is the console login page, e.g. "http://192.168.29.1".
	URL string `mapstructure:"url" yaml:"url"`

	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// Channel is the wireless profile row id in the profiles table.
	// Default: 2
	Channel int `mapstructure:"channel" yaml:"channel"`

	// EnableChannel is the desired state for the toggle workflow.
	EnableChannel bool `mapstructure:"enable_channel" yaml:"enable_channel"`

	// NewPassword is the passphrase written by the change-password workflow.
	NewPassword string `mapstructure:"new_password" yaml:"new_password"`

	// ProfilePrefix is prepended to the channel to form the profile name
	// shown in the editor dialog.
	// Default: "Jio_"
	ProfilePrefix string `mapstructure:"profile_prefix" yaml:"profile_prefix"`

	// EnabledClass is the class token the profiles table puts on the first
	// cell of an enabled row.
	// Default: "enableIcon sorting_1"
	EnabledClass string `mapstructure:"enabled_class" yaml:"enabled_class"`
}

// BrowserConfig controls how the Chrome session is created.
type BrowserConfig struct {
	// Headless runs Chrome without a window. Ignored in debug mode.
	// Default: true
	Headless bool `mapstructure:"headless" yaml:"headless"`

	// RemoteURL attaches to an already running Chrome over its DevTools
	// websocket instead of launching one.
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`

	// ExecPath overrides the Chrome binary.
	ExecPath string `mapstructure:"exec_path" yaml:"exec_path"`

	WindowWidth  int `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int `mapstructure:"window_height" yaml:"window_height"`
}

// TimeoutConfig holds wait budgets.
type TimeoutConfig struct {
	// Step bounds the completion wait of most steps.
	// Default: 5s
	Step time.Duration `mapstructure:"step" yaml:"step"`

	// Clickable is the short wait for the wireless menu entry to become
	// clickable after the network menu opens.
	// Default: 1s
	Clickable time.Duration `mapstructure:"clickable" yaml:"clickable"`

	// PollInterval is how often a completion condition is checked.
	// Default: 250ms
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	// Action bounds each individual browser call.
	// Default: 10s
	Action time.Duration `mapstructure:"action" yaml:"action"`
}

// MarshalYAML renders the durations in their string form, e.g. "5s".
func (t TimeoutConfig) MarshalYAML() (any, error) {
	return map[string]string{
		"step":          t.Step.String(),
		"clickable":     t.Clickable.String(),
		"poll_interval": t.PollInterval.String(),
		"action":        t.Action.String(),
	}, nil
}

// MetricsConfig configures the node-exporter textfile export.
type MetricsConfig struct {
	// Textfile is the .prom file written after each run. Empty disables
	// the export.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
//
// Credentials and the router URL have no defaults; [Config.Validate] reports
// them as missing.
func DefaultConfig() *Config {
	return &Config{
		Router: RouterConfig{
			Channel:       2,
			ProfilePrefix: "Jio_",
			EnabledClass:  "enableIcon sorting_1",
		},
		Browser: BrowserConfig{
			Headless:     true,
			WindowWidth:  1280,
			WindowHeight: 800,
		},
		Timeouts: TimeoutConfig{
			Step:         5 * time.Second,
			Clickable:    1 * time.Second,
			PollInterval: 250 * time.Millisecond,
			Action:       10 * time.Second,
		},
	}
}

// Validate checks the keys every operation needs. When needNewPassword is
// set, router.new_password is required as well.
func (c *Config) Validate(needNewPassword bool) error {
	required := [][2]string{
		{"router.url", c.Router.URL},
		{"router.username", c.Router.Username},
		{"router.password", c.Router.Password},
	}
	if needNewPassword {
		required = append(required, [2]string{"router.new_password", c.Router.NewPassword})
	}

	for _, r := range required {
		if r[1] == "" {
			return fmt.Errorf("%w: %s", ErrMissingValue, r[0])
		}
	}
	if c.Router.Channel < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, c.Router.Channel)
	}
	return nil
}

// ProfileName is the profile name the editor dialog shows for the
// configured channel, e.g. "Jio_2".
func (c *Config) ProfileName() string {
	return fmt.Sprintf("%s%d", c.Router.ProfilePrefix, c.Router.Channel)
}

// Redacted returns a copy of c with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Router.Password = mask(c.Router.Password)
	out.Router.NewPassword = mask(c.Router.NewPassword)
	return &out
}

// YAML renders c as a YAML document with secrets masked.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
