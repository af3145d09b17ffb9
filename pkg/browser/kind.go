package browser

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Kind names a supported browser.
type Kind string

const (
	KindChrome  Kind = "chrome"
	KindFirefox Kind = "firefox"
	KindEdge    Kind = "edge"
)

// ParseKind validates a browser name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindChrome:
		return KindChrome, nil
	case KindFirefox:
		return KindFirefox, nil
	case KindEdge:
		return KindEdge, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedBrowser, s)
	}
}

// variant is how one Kind is launched through Playwright.
type variant interface {
	kind() Kind
	browserType(pw *playwright.Playwright) playwright.BrowserType
	launchOptions(headless bool, executable string) playwright.BrowserTypeLaunchPersistentContextOptions
	// installName is the Playwright browser to download, or "" for a system install
	installName() string
	manualInstructions() []string
}

func variantFor(k Kind) (variant, error) {
	switch k {
	case KindChrome:
		return chromeVariant{}, nil
	case KindFirefox:
		return firefoxVariant{}, nil
	case KindEdge:
		return edgeVariant{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBrowser, k)
	}
}

// chromiumArgs are shared by the two Chromium-based kinds.
func chromiumArgs(headless bool) []string {
	args := []string{"--no-sandbox", "--disable-dev-shm-usage"}
	if headless {
		args = append(args, "--disable-gpu", fmt.Sprintf("--window-size=%d,%d", DefaultViewportWidth, DefaultViewportHeight))
	}
	return args
}

func baseOptions(headless bool, executable string) playwright.BrowserTypeLaunchPersistentContextOptions {
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(headless),
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	}
	if executable != "" {
		opts.ExecutablePath = playwright.String(executable)
	}
	return opts
}

type chromeVariant struct{}

func (chromeVariant) kind() Kind { return KindChrome }

func (chromeVariant) browserType(pw *playwright.Playwright) playwright.BrowserType {
	return pw.Chromium
}

func (chromeVariant) launchOptions(headless bool, executable string) playwright.BrowserTypeLaunchPersistentContextOptions {
	opts := baseOptions(headless, executable)
	opts.Args = chromiumArgs(headless)
	if executable == "" {
		opts.Channel = playwright.String("chrome")
	}
	return opts
}

func (chromeVariant) installName() string { return "" }

func (chromeVariant) manualInstructions() []string {
	return []string{
		"Google Chrome download: https://www.google.com/chrome/",
		"Or point driver_path at a Chrome/Chromium executable.",
	}
}

type firefoxVariant struct{}

func (firefoxVariant) kind() Kind { return KindFirefox }

func (firefoxVariant) browserType(pw *playwright.Playwright) playwright.BrowserType {
	return pw.Firefox
}

func (firefoxVariant) launchOptions(headless bool, executable string) playwright.BrowserTypeLaunchPersistentContextOptions {
	return baseOptions(headless, executable)
}

func (firefoxVariant) installName() string { return "firefox" }

func (firefoxVariant) manualInstructions() []string {
	return []string{
		"Install the Playwright Firefox build with: go run github.com/playwright-community/playwright-go/cmd/playwright install firefox",
	}
}

type edgeVariant struct{}

func (edgeVariant) kind() Kind { return KindEdge }

func (edgeVariant) browserType(pw *playwright.Playwright) playwright.BrowserType {
	return pw.Chromium
}

func (edgeVariant) launchOptions(headless bool, executable string) playwright.BrowserTypeLaunchPersistentContextOptions {
	opts := baseOptions(headless, executable)
	opts.Args = chromiumArgs(headless)
	if executable == "" {
		opts.Channel = playwright.String("msedge")
	}
	return opts
}

func (edgeVariant) installName() string { return "" }

func (edgeVariant) manualInstructions() []string {
	return []string{
		"Microsoft Edge download: https://www.microsoft.com/edge",
	}
}

// pathHint tells the user where a manually installed executable is usually found.
func pathHint() string {
	if runtime.GOOS == "windows" {
		return "Install the browser and set driver_path to its .exe, e.g. C:\\Program Files\\..."
	}
	return "Install the browser system-wide or set driver_path to its executable."
}
