package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/logging"
)

// ErrLoginTimeout is returned when no post-login landmark appears in time.
var ErrLoginTimeout = errors.New("WhatsApp Web login not detected in time")

// Login gate defaults
const (
	DefaultLoginTimeout      = 180 * time.Second
	DefaultLoginPollInterval = time.Second
	DefaultScreenshotPath    = "whatsapp_login_timeout.png"

	snapshotTextLimit = 500
)

// loginState is only used to avoid repeating "still waiting" log lines.
type loginState int

const (
	stateWaiting loginState = iota
	stateQRCode
)

// LoginGate waits for a freshly created session to reach the main WhatsApp UI.
type LoginGate struct {
	Timeout        time.Duration
	PollInterval   time.Duration
	ScreenshotPath string

	log *logging.Logger
}

// NewLoginGate returns a gate with default polling and screenshot settings.
// A zero timeout uses DefaultLoginTimeout.
func NewLoginGate(timeout time.Duration) *LoginGate {
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}
	return &LoginGate{
		Timeout:        timeout,
		PollInterval:   DefaultLoginPollInterval,
		ScreenshotPath: DefaultScreenshotPath,
		log:            loginLog,
	}
}

// Authenticate opens WhatsApp Web in s and waits for the login to complete.
func (g *LoginGate) Authenticate(ctx context.Context, s browser.Session) error {
	if err := s.Navigate(WebURL); err != nil {
		return fmt.Errorf("failed to open WhatsApp Web: %w", err)
	}
	return g.WaitForLogin(ctx, s)
}

// WaitForLogin polls s until a post-login landmark appears. It returns
// ErrLoginTimeout after Timeout, once a best-effort screenshot has been taken.
// Query errors while polling are ignored.
func (g *LoginGate) WaitForLogin(ctx context.Context, s browser.Session) error {
	g.logger().Infof("Waiting for WhatsApp Web login (scan the QR code if needed)...")

	deadline := time.Now().Add(g.Timeout)
	state := stateWaiting

	for time.Now().Before(deadline) {
		if qr, err := anyExists(s, qrMarkers); err == nil && qr && state != stateQRCode {
			g.logger().Debugf("QR code detected, waiting for scan...")
			state = stateQRCode
		}

		if ok, err := anyExists(s, loginLandmarks); err == nil && ok {
			g.logger().Infof("Logged into WhatsApp Web (main UI detected).")
			return nil
		}

		if err := sleep(ctx, g.PollInterval); err != nil {
			return err
		}
	}

	g.logger().Errorf("Timed out waiting for WhatsApp Web login.")
	g.captureDiagnostics(s)
	return fmt.Errorf("%w (after %s)", ErrLoginTimeout, g.Timeout)
}

func (g *LoginGate) captureDiagnostics(s browser.Session) {
	if g.ScreenshotPath != "" {
		if err := s.Screenshot(g.ScreenshotPath); err != nil {
			g.logger().Warnf("Could not save screenshot: %v", err)
		} else {
			g.logger().Infof("Saved screenshot: %s", g.ScreenshotPath)
		}
	}

	if doc, err := s.Content(); err == nil {
		g.logger().Debugf("Page text at timeout: %s", visibleText(doc, snapshotTextLimit))
	}
}

var loginLog = logging.NewLogger("login")

func (g *LoginGate) logger() *logging.Logger {
	if g.log == nil {
		return loginLog
	}
	return g.log
}
