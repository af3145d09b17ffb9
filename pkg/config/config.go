// Package config defines the run configuration consumed by the runner and the
// dispatch layer, and loads it from YAML or JSON files merged with CLI overrides.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInputRequired is returned when neither the config file nor the CLI names an input file.
var ErrInputRequired = errors.New("input file path is required (config 'input' or --input)")

// Mode selects the dispatch strategy.
type Mode string

const (
	// ModeSingle checks numbers one by one on a single browser session
	ModeSingle Mode = "single"
	// ModeOneDriver shares a single browser session across a worker pool
	ModeOneDriver Mode = "onedriver"
	// ModeThreaded gives each chunk of numbers its own browser session
	ModeThreaded Mode = "threaded"
)

// Modes lists every supported mode in menu order.
var Modes = []Mode{ModeSingle, ModeOneDriver, ModeThreaded}

// Browsers lists every supported browser kind in menu order.
var Browsers = []string{"chrome", "firefox", "edge"}

// AppConfig is the fully resolved configuration of one run.
type AppConfig struct {
	// Input is the path of the phone number list, one number per line
	Input string `yaml:"input" json:"input"`

	// Output files, rewritten at the end of a run and appended to while it runs
	ValidOutput   string `yaml:"valid_output" json:"valid_output"`
	InvalidOutput string `yaml:"invalid_output" json:"invalid_output"`

	// Browser is one of chrome, firefox, edge
	Browser  string `yaml:"browser" json:"browser"`
	Headless bool   `yaml:"headless" json:"headless"`

	// Delay is the pause after each number, in seconds
	Delay float64 `yaml:"delay" json:"delay"`

	Mode      Mode `yaml:"mode" json:"mode"`
	Threads   int  `yaml:"threads" json:"threads"`
	ChunkSize int  `yaml:"chunk_size" json:"chunk_size"`

	// DriverPath optionally points at a browser executable instead of the managed one
	DriverPath string `yaml:"driver_path" json:"driver_path"`

	// LogFile receives one summary line per run
	LogFile string `yaml:"log_file" json:"log_file"`

	// Timeouts in seconds
	LoginTimeout    float64 `yaml:"login_timeout" json:"login_timeout"`
	ClassifyTimeout float64 `yaml:"classify_timeout" json:"classify_timeout"`

	ProfilesDir string `yaml:"profiles_dir" json:"profiles_dir"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
	LogDir      string `yaml:"log_dir" json:"log_dir"`
	SkipInstall bool   `yaml:"skip_install" json:"skip_install"`
}

// DefaultConfig returns the defaults every loaded file is layered on top of.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		ValidOutput:     "data/valid_numbers.txt",
		InvalidOutput:   "data/invalid_numbers.txt",
		Browser:         "chrome",
		Headless:        false,
		Delay:           2.0,
		Mode:            ModeSingle,
		Threads:         2,
		ChunkSize:       50,
		LogFile:         "run_log.txt",
		LoginTimeout:    180,
		ClassifyTimeout: 15,
		ProfilesDir:     "browser_profiles",
		LogLevel:        "info",
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if c.Input == "" {
		return ErrInputRequired
	}

	if !isKnownBrowser(c.Browser) {
		return fmt.Errorf("invalid browser: %s (must be 'chrome', 'firefox' or 'edge')", c.Browser)
	}

	switch c.Mode {
	case ModeSingle, ModeOneDriver, ModeThreaded:
	default:
		return fmt.Errorf("invalid mode: %s (must be 'single', 'onedriver' or 'threaded')", c.Mode)
	}

	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1")
	}

	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1")
	}

	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}

	if c.LoginTimeout < 0 || c.ClassifyTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if c.ValidOutput == "" || c.InvalidOutput == "" {
		return fmt.Errorf("valid_output and invalid_output are required")
	}

	return nil
}

// DelayDuration returns Delay as a time.Duration.
func (c *AppConfig) DelayDuration() time.Duration {
	return seconds(c.Delay)
}

// LoginTimeoutDuration returns LoginTimeout as a time.Duration.
func (c *AppConfig) LoginTimeoutDuration() time.Duration {
	return seconds(c.LoginTimeout)
}

// ClassifyTimeoutDuration returns ClassifyTimeout as a time.Duration.
func (c *AppConfig) ClassifyTimeoutDuration() time.Duration {
	return seconds(c.ClassifyTimeout)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func isKnownBrowser(b string) bool {
	for _, known := range Browsers {
		if b == known {
			return true
		}
	}
	return false
}
