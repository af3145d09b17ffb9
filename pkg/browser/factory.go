package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/entrhq/waprobe/pkg/logging"
)

// FactoryOptions configures the sessions a Factory creates.
type FactoryOptions struct {
	Kind     Kind
	Headless bool

	// DriverPath optionally points at the browser executable
	DriverPath string

	// ProfilesRoot is where profile directories are created
	ProfilesRoot string
}

// Factory creates sessions of one browser kind. The kind is fixed at construction.
type Factory struct {
	manager *Manager
	variant variant
	opts    FactoryOptions
	log     *logging.Logger
}

// NewFactory binds a factory to manager and a browser kind.
func NewFactory(manager *Manager, opts FactoryOptions) (*Factory, error) {
	v, err := variantFor(opts.Kind)
	if err != nil {
		return nil, err
	}
	if opts.ProfilesRoot == "" {
		opts.ProfilesRoot = DefaultProfilesRoot
	}

	return &Factory{
		manager: manager,
		variant: v,
		opts:    opts,
		log:     logging.NewLogger("browser"),
	}, nil
}

// Kind returns the browser kind this factory launches.
func (f *Factory) Kind() Kind {
	return f.variant.kind()
}

// Create launches a session bound to the profile for suffix, creating the profile
// directory if absent. An empty suffix uses "main". Every failure wraps
// ErrSessionCreation.
func (f *Factory) Create(ctx context.Context, suffix string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}

	dir, err := filepath.Abs(ProfileDir(f.opts.ProfilesRoot, f.variant.kind(), suffix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: failed to create profile directory: %v", ErrSessionCreation, err)
	}

	f.log.Debugf("Launching %s with profile %s (headless=%t)", f.variant.kind(), dir, f.opts.Headless)

	session, err := f.manager.launch(f.variant, dir, f.opts.Headless, f.opts.DriverPath)
	if err != nil {
		f.log.Errorf("Failed to create browser session for %s: %v", f.variant.kind(), err)
		f.reportManualFallback()
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}

	return session, nil
}

func (f *Factory) reportManualFallback() {
	if f.opts.DriverPath != "" {
		f.log.Infof("Check your driver_path (%s) and its executable permissions.", f.opts.DriverPath)
		return
	}

	f.log.Infof("Automatic browser launch failed.")
	f.log.Infof("Please install %s manually.", f.variant.kind())
	for _, line := range f.variant.manualInstructions() {
		f.log.Infof("%s", line)
	}
	f.log.Infof("%s", pathHint())
}
