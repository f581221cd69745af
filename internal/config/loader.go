package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ROUTERCTL_DEBUG.
const EnvPrefix = "ROUTERCTL"

// legacyEnv maps keys to the unprefixed variable names the router scripts
// and their .env files have always used.
var legacyEnv = map[string]string{
	"router.url":            "ROUTER_URL",
	"router.username":       "ROUTER_USER_NAME",
	"router.password":       "ROUTER_PASSWORD",
	"router.new_password":   "NEW_PASSWORD",
	"router.channel":        "ROUTER_CHANNEL",
	"router.enable_channel": "ENABLE_CHANNEL",
}

// Loader handles configuration loading with Viper.
//
// Use [NewLoader] to create a Loader, then call [Loader.Load] for the
// standard search path or [Loader.LoadFromFile] for an explicit file.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader with defaults and environment
// bindings applied.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(append([]string{key}, envNames(key)...)...)
	}

	return &Loader{v: v}
}

// Load reads the first config file found on the search path, merges the
// .env file over it and returns the resulting [Config]. A missing config
// file is not an error; defaults and the environment still apply.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		return l.LoadFromFile(path)
	}

	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return l.LoadFromFile(path)
		}
	}

	return l.finish()
}

// LoadFromFile reads configuration from path. The format is taken from the
// file extension (YAML, JSON and TOML are all accepted).
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.finish()
}

// finish merges the .env layer and decodes the result.
func (l *Loader) finish() (*Config, error) {
	dotenv := os.Getenv(EnvPrefix + "_DOTENV_PATH")
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := l.mergeDotenv(dotenv); err != nil {
		return nil, err
	}
	return l.decode()
}

// mergeDotenv layers KEY=VALUE pairs from path over the config file. Real
// environment variables still win because viper checks them first.
func (l *Loader) mergeDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading dotenv file %s: %w", path, err)
	}

	layer := make(map[string]any)
	for _, key := range l.v.AllKeys() {
		for _, name := range envNames(key) {
			if dv.IsSet(name) {
				setNested(layer, key, dv.Get(name))
				break
			}
		}
	}
	if len(layer) == 0 {
		return nil
	}
	return l.v.MergeConfigMap(layer)
}

// decode validates the fields that need explicit parsing and unmarshals.
func (l *Loader) decode() (*Config, error) {
	raw := strings.TrimSpace(l.v.GetString("router.channel"))
	channel, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidChannel, raw)
	}
	l.v.Set("router.channel", channel)
	l.v.Set("router.enable_channel", parseFlag(l.v.GetString("router.enable_channel")))

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// ConfigDir returns the platform-standard configuration directory for
// routerctl, e.g. ~/.config/routerctl on Linux.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "routerctl"), nil
}

// DefaultConfigPath returns the config.yaml path inside [ConfigDir].
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func searchPaths() []string {
	var paths []string
	if p, err := DefaultConfigPath(); err == nil {
		paths = append(paths, p)
	}
	return append(paths, "routerctl.yaml")
}

// envNames lists the variables bound to key, prefixed name first.
func envNames(key string) []string {
	names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if legacy, ok := legacyEnv[key]; ok {
		names = append(names, legacy)
	}
	return names
}

// parseFlag accepts the spellings ENABLE_CHANNEL has always accepted.
// Anything else is false.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t":
		return true
	}
	return false
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("router.url", d.Router.URL)
	v.SetDefault("router.username", d.Router.Username)
	v.SetDefault("router.password", d.Router.Password)
	v.SetDefault("router.channel", d.Router.Channel)
	v.SetDefault("router.enable_channel", d.Router.EnableChannel)
	v.SetDefault("router.new_password", d.Router.NewPassword)
	v.SetDefault("router.profile_prefix", d.Router.ProfilePrefix)
	v.SetDefault("router.enabled_class", d.Router.EnabledClass)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("browser.headless", d.Browser.Headless)
	v.SetDefault("browser.remote_url", d.Browser.RemoteURL)
	v.SetDefault("browser.exec_path", d.Browser.ExecPath)
	v.SetDefault("browser.window_width", d.Browser.WindowWidth)
	v.SetDefault("browser.window_height", d.Browser.WindowHeight)
	v.SetDefault("timeouts.step", d.Timeouts.Step)
	v.SetDefault("timeouts.clickable", d.Timeouts.Clickable)
	v.SetDefault("timeouts.poll_interval", d.Timeouts.PollInterval)
	v.SetDefault("timeouts.action", d.Timeouts.Action)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}

// setNested stores value under a dotted key in a nested map.
func setNested(m map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
