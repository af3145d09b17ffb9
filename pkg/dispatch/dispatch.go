// Package dispatch runs a batch of phone numbers through browser sessions using
// one of three strategies:
//
//   - Sequential (single): one session, numbers in input order.
//   - SharedSession (onedriver): one session shared by a worker pool; a lock
//     owned by the strategy serializes every probe against the session.
//   - MultiSession (threaded): the batch is split into chunks, each processed in
//     order on its own session from a cloned worker profile.
//
// Every classified number is written to its sink immediately so an interrupted
// run keeps what it has already learned.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/logging"
	"github.com/entrhq/waprobe/pkg/whatsapp"
)

// ErrAllChunksFailed is returned by MultiSession when no chunk completed.
var ErrAllChunksFailed = errors.New("all chunks failed")

// SessionFactory creates a browser session bound to a profile suffix.
type SessionFactory interface {
	Create(ctx context.Context, suffix string) (browser.Session, error)
}

// Authenticator brings a new session to the logged-in state.
type Authenticator interface {
	Authenticate(ctx context.Context, s browser.Session) error
}

// Prober classifies one number on a ready session.
type Prober interface {
	Classify(ctx context.Context, s browser.Session, number string) (whatsapp.Result, error)
}

// Sink receives numbers as soon as they are classified.
type Sink interface {
	Append(number string) error
}

// Sinks pairs the valid and invalid outputs.
type Sinks struct {
	Valid   Sink
	Invalid Sink
}

// Deps are the collaborators every strategy uses.
type Deps struct {
	Factory SessionFactory
	Auth    Authenticator
	Prober  Prober
	Sinks   Sinks
}

// Options tune a strategy.
type Options struct {
	// Delay is slept after each number
	Delay time.Duration

	// Workers bounds the pool in the concurrent strategies
	Workers int

	// ChunkSize is the number of numbers per session in MultiSession
	ChunkSize int
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ChunkSize < 1 {
		o.ChunkSize = 1
	}
	return o
}

// ChunkError records a chunk whose session lifecycle failed.
type ChunkError struct {
	Chunk   int
	Profile string
	Size    int
	Err     error
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("chunk %d (%s, %d numbers): %v", e.Chunk, e.Profile, e.Size, e.Err)
}

func (e ChunkError) Unwrap() error {
	return e.Err
}

// Partition is the outcome of a batch.
type Partition struct {
	Valid    []string
	Invalid  []string
	Failures []ChunkError
}

// Total returns the number of classified numbers.
func (p Partition) Total() int {
	return len(p.Valid) + len(p.Invalid)
}

// Strategy processes a deduplicated batch.
type Strategy interface {
	Run(ctx context.Context, numbers []string) (Partition, error)
}

// New returns the strategy for mode.
func New(mode config.Mode, deps Deps, opts Options) (Strategy, error) {
	if deps.Factory == nil || deps.Auth == nil || deps.Prober == nil {
		return nil, fmt.Errorf("dispatch: factory, authenticator and prober are required")
	}
	switch mode {
	case config.ModeSingle:
		return NewSequential(deps, opts), nil
	case config.ModeOneDriver:
		return NewSharedSession(deps, opts), nil
	case config.ModeThreaded:
		return NewMultiSession(deps, opts), nil
	default:
		return nil, fmt.Errorf("dispatch: unknown mode %q", mode)
	}
}

var dispatchLog = logging.NewLogger("dispatch")

// record appends the result to its sink. Sink failures are logged only: the
// in-memory partition remains authoritative.
func record(sinks Sinks, res whatsapp.Result) {
	sink := sinks.Invalid
	if res.IsValid() {
		sink = sinks.Valid
	}
	if sink == nil {
		return
	}
	if err := sink.Append(res.Number); err != nil {
		dispatchLog.Warnf("Failed to append %s to %s output: %v", res.Number, res.Verdict, err)
	}
}

// closeSession closes s and logs a failure.
func closeSession(s browser.Session) {
	if err := s.Close(); err != nil {
		dispatchLog.Warnf("Failed to close session %s: %v", s.Profile(), err)
	}
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
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

// Chunk splits numbers into contiguous slices of at most size elements.
func Chunk(numbers []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	chunks := make([][]string, 0, (len(numbers)+size-1)/size)
	for start := 0; start < len(numbers); start += size {
		end := start + size
		if end > len(numbers) {
			end = len(numbers)
		}
		chunks = append(chunks, numbers[start:end])
	}
	return chunks
}
