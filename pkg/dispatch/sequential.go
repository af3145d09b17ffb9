package dispatch

import (
	"context"
	"fmt"

	"github.com/entrhq/waprobe/pkg/browser"
)

// Sequential checks every number in input order on one session.
type Sequential struct {
	deps Deps
	opts Options
}

// NewSequential creates the single-session sequential strategy.
func NewSequential(deps Deps, opts Options) *Sequential {
	return &Sequential{deps: deps, opts: opts.withDefaults()}
}

// Run creates the single-mode session, logs in and classifies numbers in order.
func (s *Sequential) Run(ctx context.Context, numbers []string) (Partition, error) {
	session, err := s.deps.Factory.Create(ctx, browser.SingleSuffix)
	if err != nil {
		return Partition{}, err
	}
	defer closeSession(session)

	if err := s.deps.Auth.Authenticate(ctx, session); err != nil {
		return Partition{}, err
	}

	return runInOrder(ctx, s.deps, s.opts, session, numbers, "")
}

// runInOrder classifies numbers one by one on session. On cancellation the
// numbers classified so far are returned with the error.
func runInOrder(ctx context.Context, deps Deps, opts Options, session browser.Session, numbers []string, label string) (Partition, error) {
	var part Partition
	total := len(numbers)

	for i, num := range numbers {
		if label == "" {
			dispatchLog.Infof("Checking %d/%d: %s", i+1, total, num)
		} else {
			dispatchLog.Debugf("%s Checking %d/%d: %s", label, i+1, total, num)
		}

		res, err := deps.Prober.Classify(ctx, session, num)
		if err != nil {
			return part, fmt.Errorf("classification of %s interrupted: %w", num, err)
		}
		dispatchLog.Debugf("%s%s -> %s", prefix(label), num, res.Reason)

		if res.IsValid() {
			part.Valid = append(part.Valid, num)
		} else {
			part.Invalid = append(part.Invalid, num)
		}
		record(deps.Sinks, res)

		if err := pause(ctx, opts.Delay); err != nil {
			return part, err
		}
	}

	return part, nil
}

func prefix(label string) string {
	if label == "" {
		return ""
	}
	return label + " "
}
