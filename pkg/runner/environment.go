package runner

import (
	"fmt"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/dispatch"
	"github.com/entrhq/waprobe/pkg/logging"
)

var envLog = logging.NewLogger("browser")

// Environment supplies the browser side of a run.
type Environment interface {
	// Factory returns the session factory for the configured browser
	Factory() dispatch.SessionFactory

	// PrepareWorkers makes sure count worker profiles exist
	PrepareWorkers(count int) error

	// Close releases every session and the browser runtime
	Close() error
}

// EnvironmentBuilder creates the environment for a resolved config.
type EnvironmentBuilder func(cfg *config.AppConfig) (Environment, error)

// BrowserEnvironment is the Playwright-backed Environment.
type BrowserEnvironment struct {
	manager *browser.Manager
	factory *browser.Factory
	root    string
}

// NewBrowserEnvironment starts Playwright for cfg.Browser and binds a factory to it.
// It satisfies EnvironmentBuilder.
func NewBrowserEnvironment(cfg *config.AppConfig) (Environment, error) {
	kind, err := browser.ParseKind(cfg.Browser)
	if err != nil {
		return nil, err
	}

	manager := browser.NewManager(browser.ManagerOptions{
		SkipInstall: cfg.SkipInstall,
		Verbose:     cfg.LogLevel == "debug",
	})
	if err := manager.Initialize(kind); err != nil {
		return nil, fmt.Errorf("%w: %v", browser.ErrSessionCreation, err)
	}

	factory, err := browser.NewFactory(manager, browser.FactoryOptions{
		Kind:         kind,
		Headless:     cfg.Headless,
		DriverPath:   cfg.DriverPath,
		ProfilesRoot: cfg.ProfilesDir,
	})
	if err != nil {
		_ = manager.Shutdown()
		return nil, err
	}

	return &BrowserEnvironment{manager: manager, factory: factory, root: cfg.ProfilesDir}, nil
}

// Factory returns the session factory.
func (e *BrowserEnvironment) Factory() dispatch.SessionFactory {
	return e.factory
}

// PrepareWorkers clones the logged-in single profile into worker profiles.
func (e *BrowserEnvironment) PrepareWorkers(count int) error {
	return browser.PrepareWorkerProfiles(e.root, e.factory.Kind(), count)
}

// Close shuts the Playwright runtime down, closing any session a strategy left open.
func (e *BrowserEnvironment) Close() error {
	if e.manager.HasSessions() {
		for _, info := range e.manager.ListSessions() {
			envLog.Warnf("Closing leftover %s session %s (open since %s, at %s)",
				info.Kind, info.Profile, info.CreatedAt.Format(timestampLayout), info.CurrentURL)
		}
	}
	return e.manager.Shutdown()
}
