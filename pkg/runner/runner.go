// Package runner executes one end-to-end batch from a resolved configuration:
// read the input list, dispatch it through the configured strategy, rewrite the
// output files and record the run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/dispatch"
	"github.com/entrhq/waprobe/pkg/logging"
	"github.com/entrhq/waprobe/pkg/numbers"
	"github.com/entrhq/waprobe/pkg/whatsapp"
)

// Runner runs a batch.
type Runner struct {
	cfg    *config.AppConfig
	build  EnvironmentBuilder
	auth   dispatch.Authenticator
	prober dispatch.Prober
	out    io.Writer
	now    func() time.Time
	log    *logging.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithEnvironment replaces the Playwright environment.
func WithEnvironment(build EnvironmentBuilder) Option {
	return func(r *Runner) { r.build = build }
}

// WithAuthenticator replaces the WhatsApp login gate.
func WithAuthenticator(auth dispatch.Authenticator) Option {
	return func(r *Runner) { r.auth = auth }
}

// WithProber replaces the WhatsApp number classifier.
func WithProber(prober dispatch.Prober) Option {
	return func(r *Runner) { r.prober = prober }
}

// WithOutput sets where the console summary is printed.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// New validates cfg and creates a runner.
func New(cfg *config.AppConfig, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	r := &Runner{
		cfg:    cfg,
		build:  NewBrowserEnvironment,
		auth:   whatsapp.NewLoginGate(cfg.LoginTimeoutDuration()),
		prober: whatsapp.NewClassifier(cfg.ClassifyTimeoutDuration()),
		out:    os.Stdout,
		now:    time.Now,
		log:    logging.NewLogger("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ResolvePaths returns cfg's file locations as absolute paths relative to the
// working directory.
func ResolvePaths(cfg *config.AppConfig) (Paths, error) {
	var p Paths
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&p.Input, cfg.Input},
		{&p.Valid, cfg.ValidOutput},
		{&p.Invalid, cfg.InvalidOutput},
		{&p.Log, cfg.LogFile},
	} {
		abs, err := filepath.Abs(f.src)
		if err != nil {
			return Paths{}, fmt.Errorf("failed to resolve %q: %w", f.src, err)
		}
		*f.dst = abs
	}
	return p, nil
}

// Run processes the input file. A missing input file is reported before any
// browser work starts. The returned summary is populated even on failure.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Mode: r.cfg.Mode, Started: r.now()}

	if cwd, err := os.Getwd(); err == nil {
		r.log.Infof("Current working directory: %s", cwd)
	}

	paths, err := ResolvePaths(r.cfg)
	if err != nil {
		return r.abort(summary, err)
	}
	summary.Paths = paths

	r.log.Infof("Input file: %s", paths.Input)
	r.log.Infof("Valid output: %s", paths.Valid)
	r.log.Infof("Invalid output: %s", paths.Invalid)
	r.log.Infof("Log file: %s", paths.Log)

	nums, err := numbers.Read(paths.Input)
	if err != nil {
		r.log.Errorf("%v", err)
		return r.abort(summary, err)
	}
	nums = dropComments(nums)
	summary.Loaded = len(nums)

	r.log.Infof("Loaded %d numbers from %s", len(nums), paths.Input)
	r.log.Infof("Browser: %s", r.cfg.Browser)
	r.log.Infof("Mode: %s", r.cfg.Mode)
	if r.cfg.DriverPath != "" {
		r.log.Infof("Using custom driver path: %s", r.cfg.DriverPath)
	}

	env, err := r.build(r.cfg)
	if err != nil {
		return r.abort(summary, err)
	}
	defer func() {
		if err := env.Close(); err != nil {
			r.log.Warnf("Failed to shut down browser: %v", err)
		}
	}()

	if r.cfg.Mode == config.ModeThreaded {
		if err := env.PrepareWorkers(r.cfg.Threads); err != nil {
			return r.abort(summary, err)
		}
	}

	strategy, err := dispatch.New(r.cfg.Mode, dispatch.Deps{
		Factory: env.Factory(),
		Auth:    r.auth,
		Prober:  r.prober,
		Sinks: dispatch.Sinks{
			Valid:   numbers.NewFileSink(paths.Valid),
			Invalid: numbers.NewFileSink(paths.Invalid),
		},
	}, dispatch.Options{
		Delay:     r.cfg.DelayDuration(),
		Workers:   r.cfg.Threads,
		ChunkSize: r.cfg.ChunkSize,
	})
	if err != nil {
		return r.abort(summary, err)
	}

	part, err := strategy.Run(ctx, nums)
	summary.Valid = len(part.Valid)
	summary.Invalid = len(part.Invalid)
	summary.Failures = part.Failures
	if err != nil {
		// numbers classified so far are already appended to the outputs
		r.log.Errorf("Run aborted after %d of %d numbers: %v", part.Total(), len(nums), err)
		return r.abort(summary, err)
	}

	if err := numbers.WriteAll(paths.Valid, part.Valid); err != nil {
		return r.abort(summary, err)
	}
	r.log.Infof("Wrote %d numbers to: %s", len(part.Valid), paths.Valid)

	if err := numbers.WriteAll(paths.Invalid, part.Invalid); err != nil {
		return r.abort(summary, err)
	}
	r.log.Infof("Wrote %d numbers to: %s", len(part.Invalid), paths.Invalid)

	summary.Finished = r.now()
	line := summary.Line()
	if err := numbers.AppendLine(paths.Log, line); err != nil {
		r.log.Warnf("Failed to append run log: %v", err)
	} else {
		r.log.Infof("Log appended to: %s", paths.Log)
	}
	r.log.Infof("%s", line)

	summary.Print(r.out)
	return summary, nil
}

func (r *Runner) abort(summary Summary, err error) (Summary, error) {
	summary.Finished = r.now()
	summary.Err = err
	summary.Print(r.out)
	return summary, err
}

// dropComments removes '#' lines, which the sample input file uses.
func dropComments(nums []string) []string {
	kept := nums[:0]
	for _, n := range nums {
		if strings.HasPrefix(n, "#") {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}
