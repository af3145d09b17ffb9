package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PageSession is a Session backed by a Playwright persistent context and its first page.
type PageSession struct {
	kind     Kind
	profile  string
	headless bool
	created  time.Time

	context playwright.BrowserContext
	page    playwright.Page

	// onClose removes the session from its manager
	onClose   func()
	closeOnce sync.Once
	closeErr  error
}

// Kind returns the browser kind the session was launched with.
func (s *PageSession) Kind() Kind {
	return s.kind
}

// Profile returns the profile directory bound to the session.
func (s *PageSession) Profile() string {
	return s.profile
}

// Navigate navigates the session's page to the specified URL.
func (s *PageSession) Navigate(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Exists reports whether the selector currently matches anything on the page.
func (s *PageSession) Exists(selector string) (bool, error) {
	count, err := s.page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("selector query failed: %w", err)
	}
	return count > 0, nil
}

// Content returns the page HTML.
func (s *PageSession) Content() (string, error) {
	html, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}
	return html, nil
}

// Screenshot writes a PNG of the viewport to path.
func (s *PageSession) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Close closes the browser context. Later calls return the first result.
func (s *PageSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.context.Close()
		if s.onClose != nil {
			s.onClose()
		}
	})
	return s.closeErr
}

func (s *PageSession) info() SessionInfo {
	return SessionInfo{
		Kind:       s.kind,
		Profile:    s.profile,
		Headless:   s.headless,
		CreatedAt:  s.created,
		CurrentURL: s.page.URL(),
	}
}
