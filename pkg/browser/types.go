package browser

import (
	"errors"
	"time"
)

var (
	// ErrUnsupportedBrowser is returned for a browser name outside the known kinds.
	ErrUnsupportedBrowser = errors.New("unsupported browser")

	// ErrSessionCreation wraps every failure to start a browser session.
	ErrSessionCreation = errors.New("failed to create browser session")
)

// Session is the capability set the login gate and classifier need from a browser.
type Session interface {
	// Profile returns the profile directory the session is bound to
	Profile() string

	// Navigate loads url in the session's page
	Navigate(url string) error

	// Exists reports whether at least one element matches selector.
	// Selectors use Playwright syntax, so "xpath=//header" works.
	Exists(selector string) (bool, error)

	// Content returns the current page HTML
	Content() (string, error)

	// Screenshot saves a PNG of the current page to path
	Screenshot(path string) error

	// Close releases the browser. Safe to call more than once.
	Close() error
}

// SessionInfo contains metadata about an open browser session.
type SessionInfo struct {
	Kind       Kind
	Profile    string
	Headless   bool
	CreatedAt  time.Time
	CurrentURL string
}

// Default values for launched sessions
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)
