package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/entrhq/waprobe/pkg/browser"
)

// MultiSession gives every chunk its own session and runs up to Workers chunks
// at once. A chunk that fails (session creation, login, cancellation) is
// recorded in Partition.Failures and does not stop its siblings.
type MultiSession struct {
	deps Deps
	opts Options
}

// NewMultiSession creates the multi-session concurrent strategy.
func NewMultiSession(deps Deps, opts Options) *MultiSession {
	return &MultiSession{deps: deps, opts: opts.withDefaults()}
}

// Run splits numbers into chunks and processes them on worker profiles.
//
// Each running chunk borrows a worker slot 1..Workers and uses that slot's
// profile, so at most Workers profiles are ever needed and two concurrent
// chunks never share one. Numbers a failed chunk classified before failing are
// kept; the rest of that chunk is absent from both partitions.
func (m *MultiSession) Run(ctx context.Context, numbers []string) (Partition, error) {
	var part Partition
	if len(numbers) == 0 {
		return part, nil
	}

	chunks := Chunk(numbers, m.opts.ChunkSize)
	workers := min(m.opts.Workers, len(chunks))

	dispatchLog.Infof("Total numbers: %d | Chunks: %d | Threads: %d | Chunk size: %d",
		len(numbers), len(chunks), workers, m.opts.ChunkSize)

	slots := make(chan int, workers)
	for id := 1; id <= workers; id++ {
		slots <- id
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(workers)

	for i, chunk := range chunks {
		g.Go(func() error {
			slot := <-slots
			defer func() { slots <- slot }()

			sub, err := m.runChunk(ctx, slot, chunk)

			mu.Lock()
			defer mu.Unlock()
			part.Valid = append(part.Valid, sub.Valid...)
			part.Invalid = append(part.Invalid, sub.Invalid...)
			if err != nil {
				ce := ChunkError{Chunk: i + 1, Profile: browser.WorkerSuffix(slot), Size: len(chunk), Err: err}
				dispatchLog.Errorf("[THREAD %d] %v", slot, ce)
				part.Failures = append(part.Failures, ce)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(part.Failures) == len(chunks) {
		errs := make([]error, 0, len(part.Failures))
		for _, f := range part.Failures {
			errs = append(errs, f)
		}
		return part, fmt.Errorf("%w: %w", ErrAllChunksFailed, errors.Join(errs...))
	}
	if err := ctx.Err(); err != nil {
		return part, err
	}
	return part, nil
}

// runChunk owns one session for the lifetime of a chunk.
func (m *MultiSession) runChunk(ctx context.Context, slot int, chunk []string) (Partition, error) {
	label := fmt.Sprintf("[THREAD %d]", slot)

	session, err := m.deps.Factory.Create(ctx, browser.WorkerSuffix(slot))
	if err != nil {
		return Partition{}, err
	}
	defer closeSession(session)

	if err := m.deps.Auth.Authenticate(ctx, session); err != nil {
		return Partition{}, err
	}

	return runInOrder(ctx, m.deps, m.opts, session, chunk, label)
}
