package browser

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/waprobe/pkg/logging"
)

// ManagerOptions configures the Playwright runtime.
type ManagerOptions struct {
	// SkipInstall assumes the Playwright driver and browsers are already present
	SkipInstall bool

	// Verbose shows Playwright's install output
	Verbose bool
}

// Manager owns the Playwright runtime and every session launched through it.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*PageSession
	launching   map[string]struct{}
	playwright  *playwright.Playwright
	opts        ManagerOptions
	initialized bool
	log         *logging.Logger
}

// NewManager creates a manager. Initialize must be called before launching sessions.
func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		sessions:  make(map[string]*PageSession),
		launching: make(map[string]struct{}),
		opts:      opts,
		log:       logging.NewLogger("browser"),
	}
}

// Initialize installs (unless skipped) and starts Playwright.
// kinds decides which Playwright browser builds are downloaded; system browsers
// such as Chrome and Edge are not downloaded. Repeated calls are no-ops.
func (m *Manager) Initialize(kinds ...Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: m.opts.Verbose,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if m.opts.Verbose {
		opts.Stdout = os.Stdout
		opts.Stderr = os.Stderr
	}

	for _, k := range kinds {
		v, err := variantFor(k)
		if err != nil {
			return err
		}
		if name := v.installName(); name != "" {
			opts.Browsers = append(opts.Browsers, name)
		}
	}
	if len(opts.Browsers) == 0 {
		opts.SkipInstallBrowsers = true
	}

	if !m.opts.SkipInstall {
		m.log.Infof("Ensuring Playwright driver is installed...")
		if err := playwright.Install(opts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// launch starts a persistent context for profileDir and registers it.
// The lock is only held to reserve and register the profile, so launches for
// different profiles run in parallel.
func (m *Manager) launch(v variant, profileDir string, headless bool, executable string) (*PageSession, error) {
	pw, err := m.reserve(profileDir)
	if err != nil {
		return nil, err
	}
	defer m.release(profileDir)

	context, err := v.browserType(pw).LaunchPersistentContext(profileDir, v.launchOptions(headless, executable))
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", v.kind(), err)
	}
	context.SetDefaultTimeout(DefaultTimeout)

	// A persistent context opens with one blank page already
	var page playwright.Page
	if pages := context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = context.NewPage()
		if err != nil {
			context.Close()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	session := &PageSession{
		kind:     v.kind(),
		profile:  profileDir,
		headless: headless,
		created:  time.Now(),
		context:  context,
		page:     page,
	}
	session.onClose = func() { m.forget(profileDir) }

	if err := m.register(session); err != nil {
		context.Close()
		return nil, err
	}
	return session, nil
}

// reserve claims profileDir for a launch in progress.
func (m *Manager) reserve(profileDir string) (*playwright.Playwright, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}
	if _, exists := m.sessions[profileDir]; exists {
		return nil, fmt.Errorf("profile %q already has an open session", profileDir)
	}
	if _, pending := m.launching[profileDir]; pending {
		return nil, fmt.Errorf("profile %q is already being launched", profileDir)
	}

	m.launching[profileDir] = struct{}{}
	return m.playwright, nil
}

func (m *Manager) release(profileDir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.launching, profileDir)
}

// register adds a launched session unless the manager was shut down meanwhile.
func (m *Manager) register(session *PageSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return fmt.Errorf("session manager shut down during launch")
	}
	m.sessions[session.profile] = session
	return nil
}

func (m *Manager) forget(profileDir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, profileDir)
}

// ListSessions returns information about all open sessions.
func (m *Manager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, session.info())
	}
	return infos
}

// HasSessions returns true if there are any open sessions.
func (m *Manager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes every open session.
func (m *Manager) CloseAll() error {
	// Close without holding the lock: PageSession.Close calls back into forget
	m.mu.RLock()
	open := make([]*PageSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.RUnlock()

	var errs []error
	for _, s := range open {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %v", errs)
	}
	return nil
}

// Shutdown closes all sessions and stops Playwright.
func (m *Manager) Shutdown() error {
	closeErr := m.CloseAll()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}

	return closeErr
}
