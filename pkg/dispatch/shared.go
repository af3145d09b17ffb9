package dispatch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/whatsapp"
)

// SharedSession runs a worker pool over one session.
//
// Only one probe drives the session at a time: sessionMu is held for the whole
// navigate-and-poll sequence. Scheduling, sink writes, result aggregation and
// the per-number delay happen outside the lock and overlap across workers.
type SharedSession struct {
	deps Deps
	opts Options

	sessionMu sync.Mutex
}

// NewSharedSession creates the shared-session concurrent strategy.
func NewSharedSession(deps Deps, opts Options) *SharedSession {
	return &SharedSession{deps: deps, opts: opts.withDefaults()}
}

// Run creates the single-mode session, logs in and fans numbers out to the pool.
// The order of the returned slices is not deterministic.
func (s *SharedSession) Run(ctx context.Context, numbers []string) (Partition, error) {
	session, err := s.deps.Factory.Create(ctx, browser.SingleSuffix)
	if err != nil {
		return Partition{}, err
	}
	defer closeSession(session)

	if err := s.deps.Auth.Authenticate(ctx, session); err != nil {
		return Partition{}, err
	}

	var (
		part  Partition
		resMu sync.Mutex
		total = len(numbers)
	)
	if total == 0 {
		return part, nil
	}

	dispatchLog.Infof("One-driver threaded mode | Total numbers: %d | Threads: %d", total, s.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.opts.Workers, total))

	for idx, num := range numbers {
		g.Go(func() error {
			dispatchLog.Debugf("[THREAD] Scheduled %d/%d: %s", idx+1, total, num)

			res, err := s.classify(gctx, session, num)
			if err != nil {
				return err
			}
			record(s.deps.Sinks, res)

			resMu.Lock()
			if res.IsValid() {
				part.Valid = append(part.Valid, num)
			} else {
				part.Invalid = append(part.Invalid, num)
			}
			resMu.Unlock()

			dispatchLog.Debugf("[THREAD] Done %d/%d: %s -> %s", idx+1, total, num, res.Reason)
			return pause(gctx, s.opts.Delay)
		})
	}

	err = g.Wait()
	return part, err
}

// classify holds the session lock for one full probe.
func (s *SharedSession) classify(ctx context.Context, session browser.Session, num string) (whatsapp.Result, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := ctx.Err(); err != nil {
		return whatsapp.Result{}, err
	}
	return s.deps.Prober.Classify(ctx, session, num)
}
