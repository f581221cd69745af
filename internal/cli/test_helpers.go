package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"routerctl/internal/browser"
	"routerctl/internal/config"
	"routerctl/internal/console"
	"routerctl/internal/logging"
	"routerctl/internal/output"
)

// MockSessionFactory hands out the session of a scripted router console.
type MockSessionFactory struct {
	// Router is the console the session talks to.
	Router *console.FakeRouter
	// Err, when set, is returned instead of a session.
	Err error
	// Calls counts how many sessions were requested.
	Calls int
}

// New implements [SessionFactory].
func (m *MockSessionFactory) New(ctx context.Context, cfg *config.Config) (browser.Session, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Router.Session, nil
}

// testConfig returns a complete configuration for channel 2 with timeouts
// short enough for failing steps to give up quickly.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Router.URL = "http://192.168.29.1"
	cfg.Router.Username = "admin"
	cfg.Router.Password = "secret"
	cfg.Router.NewPassword = "python@123"
	cfg.Router.Channel = 2
	cfg.Timeouts.Step = 50 * time.Millisecond
	cfg.Timeouts.Clickable = 20 * time.Millisecond
	cfg.Timeouts.PollInterval = 2 * time.Millisecond
	return cfg
}

// newTestApp wires an App to a fake router and an output buffer.
func newTestApp(t *testing.T, cfg *config.Config, r *console.FakeRouter) (*App, *MockSessionFactory, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	factory := &MockSessionFactory{Router: r}
	app := &App{
		Config:     cfg,
		Printer:    output.NewPrinterWithWriter(buf),
		Logger:     logging.Discard(),
		NewSession: factory.New,
	}
	return app, factory, buf
}
