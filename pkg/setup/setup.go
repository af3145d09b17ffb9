// Package setup implements the first-run experience: an interactive
// configuration wizard, sample data files and a browser smoke test.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/dispatch"
	"github.com/entrhq/waprobe/pkg/logging"
	"github.com/entrhq/waprobe/pkg/runner"
)

var (
	// ErrCancelled is returned when the wizard is aborted before anything was saved.
	ErrCancelled = errors.New("setup cancelled")

	// ErrVerificationFailed is returned when the browser smoke test fails.
	ErrVerificationFailed = errors.New("environment verification failed")
)

// EnvCheckSuffix is the profile suffix used by the smoke test.
const EnvCheckSuffix = "env_check"

const sampleInput = `# Sample phone numbers (remove '#' to use)
# 923001234567
# 923001234568
`

var setupLog = logging.NewLogger("setup")

// PromptFunc asks the user for a configuration. saved reports whether the user
// confirmed it.
type PromptFunc func(existing *config.AppConfig) (cfg *config.AppConfig, saved bool, err error)

// Options configures a setup run.
type Options struct {
	ConfigPath string

	// Prompt defaults to the terminal wizard
	Prompt PromptFunc

	// Environment defaults to the Playwright environment
	Environment runner.EnvironmentBuilder

	// SkipVerify only writes the config and data files
	SkipVerify bool
}

// Run loads any existing config, prompts for changes, saves the result, creates
// missing data files and smoke-tests the browser.
//
// When verification fails the saved config is still returned together with an
// error wrapping ErrVerificationFailed.
func Run(ctx context.Context, opts Options) (*config.AppConfig, error) {
	if opts.Prompt == nil {
		opts.Prompt = func(existing *config.AppConfig) (*config.AppConfig, bool, error) {
			return RunWizard(existing)
		}
	}
	if opts.Environment == nil {
		opts.Environment = runner.NewBrowserEnvironment
	}

	if cwd, err := os.Getwd(); err == nil {
		setupLog.Infof("Running setup in: %s", cwd)
	}

	var existing *config.AppConfig
	if _, err := os.Stat(opts.ConfigPath); err == nil {
		setupLog.Infof("Existing config found: %s", opts.ConfigPath)
		existing, err = config.Load(opts.ConfigPath)
		if err != nil {
			setupLog.Warnf("Could not load existing config (%v), will recreate.", err)
			existing = nil
		}
	}

	cfg, saved, err := opts.Prompt(existing)
	if err != nil {
		return nil, err
	}
	if !saved {
		setupLog.Infof("Configuration not saved (user cancelled).")
		if existing == nil {
			return nil, ErrCancelled
		}
		cfg = existing
	} else {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		if err := config.Save(opts.ConfigPath, cfg); err != nil {
			return nil, err
		}
		setupLog.Infof("Saved config to: %s", opts.ConfigPath)
	}

	if err := EnsureDataFiles(cfg); err != nil {
		return cfg, err
	}

	if opts.SkipVerify {
		setupLog.Infof("Setup finished. You can now run: waprobe")
		return cfg, nil
	}

	if err := VerifyEnvironment(ctx, cfg, opts.Environment); err != nil {
		setupLog.Warnf("Setup verification failed. Fix the above issues before running the app.")
		return cfg, err
	}

	setupLog.Infof("Setup verification successful.")
	setupLog.Infof("You can now run the app with: waprobe")
	setupLog.Infof("Or re-open the wizard anytime with: waprobe setup")
	return cfg, nil
}

// EnsureDataFiles creates a commented sample input file and empty output files
// when they are missing. Existing files are left alone.
func EnsureDataFiles(cfg *config.AppConfig) error {
	paths, err := runner.ResolvePaths(cfg)
	if err != nil {
		return err
	}

	created, err := createIfMissing(paths.Input, sampleInput)
	if err != nil {
		return err
	}
	if created {
		setupLog.Infof("Created sample input file: %s", paths.Input)
	} else {
		setupLog.Infof("Input file exists: %s", paths.Input)
	}

	for _, p := range []string{paths.Valid, paths.Invalid} {
		created, err := createIfMissing(p, "")
		if err != nil {
			return err
		}
		if created {
			setupLog.Infof("Created output file: %s", p)
		} else {
			setupLog.Infof("Output file exists: %s", p)
		}
	}
	return nil
}

func createIfMissing(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return true, nil
}

// VerifyEnvironment launches and closes a headless env_check session with cfg's
// browser settings.
func VerifyEnvironment(ctx context.Context, cfg *config.AppConfig, build runner.EnvironmentBuilder) error {
	setupLog.Infof("Verifying environment (browser smoke test)...")

	check := *cfg
	check.Headless = true

	env, err := build(&check)
	if err != nil {
		setupLog.Errorf("Browser environment check failed: %v", err)
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	defer func() {
		if err := env.Close(); err != nil {
			setupLog.Warnf("Failed to shut down browser: %v", err)
		}
	}()

	if err := smokeTest(ctx, env.Factory()); err != nil {
		setupLog.Errorf("Browser environment check failed: %v", err)
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	setupLog.Infof("Browser check OK.")
	return nil
}

func smokeTest(ctx context.Context, factory dispatch.SessionFactory) error {
	session, err := factory.Create(ctx, EnvCheckSuffix)
	if err != nil {
		return err
	}
	if err := session.Close(); err != nil {
		return fmt.Errorf("%w: close failed: %v", browser.ErrSessionCreation, err)
	}
	return nil
}
