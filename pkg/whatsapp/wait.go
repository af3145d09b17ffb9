package whatsapp

import (
	"context"
	"time"
)

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// anyExists reports whether any selector matches. The first query error is
// returned together with whatever matched before it.
func anyExists(s interface {
	Exists(selector string) (bool, error)
}, selectors []string) (bool, error) {
	for _, sel := range selectors {
		ok, err := s.Exists(sel)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
