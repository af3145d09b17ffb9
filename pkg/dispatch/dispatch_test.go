package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/whatsapp"
)

func batch(n int) []string {
	numbers := make([]string, n)
	for i := range numbers {
		numbers[i] = fmt.Sprintf("9230012345%02d", i)
	}
	return numbers
}

// assertPartition checks every input number landed in exactly one partition.
func assertPartition(t *testing.T, input []string, part Partition) {
	t.Helper()

	seen := make(map[string]int)
	for _, n := range part.Valid {
		seen[n]++
	}
	for _, n := range part.Invalid {
		seen[n]++
	}

	assert.Equal(t, len(input), part.Total())
	for _, n := range input {
		assert.Equal(t, 1, seen[n], "number %s", n)
	}
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}, {"5"}}, Chunk([]string{"1", "2", "3", "4", "5"}, 2))
	assert.Equal(t, [][]string{{"1", "2", "3"}}, Chunk([]string{"1", "2", "3"}, 50))
	assert.Equal(t, [][]string{{"1"}, {"2"}}, Chunk([]string{"1", "2"}, 0))
	assert.Empty(t, Chunk(nil, 3))
}

func TestNew(t *testing.T) {
	h := newHarness()

	tests := []struct {
		mode config.Mode
		want interface{}
	}{
		{config.ModeSingle, &Sequential{}},
		{config.ModeOneDriver, &SharedSession{}},
		{config.ModeThreaded, &MultiSession{}},
	}
	for _, tt := range tests {
		s, err := New(tt.mode, h.deps(), Options{})
		require.NoError(t, err)
		assert.IsType(t, tt.want, s)
	}

	_, err := New("parallel", h.deps(), Options{})
	assert.Error(t, err)

	_, err = New(config.ModeSingle, Deps{}, Options{})
	assert.Error(t, err)
}

func TestSequential_PartitionAndOrder(t *testing.T) {
	h := newHarness()
	input := batch(7)

	part, err := NewSequential(h.deps(), Options{}).Run(context.Background(), input)
	require.NoError(t, err)

	assertPartition(t, input, part)
	assert.Equal(t, []string{"923001234500", "923001234502", "923001234504", "923001234506"}, part.Valid)
	assert.Equal(t, input, h.prober.order[browser.SingleSuffix], "numbers are probed in input order")

	assert.Equal(t, part.Valid, h.valid.all())
	assert.Equal(t, part.Invalid, h.invalid.all())

	assert.Equal(t, []string{browser.SingleSuffix}, h.factory.suffixes)
	assert.Equal(t, int32(1), h.auth.calls.Load())
	assert.True(t, h.factory.allClosed())
}

func TestSequential_Delay(t *testing.T) {
	h := newHarness()

	start := time.Now()
	_, err := NewSequential(h.deps(), Options{Delay: 10 * time.Millisecond}).Run(context.Background(), batch(3))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSequential_LoginFailureClosesSession(t *testing.T) {
	h := newHarness()
	h.auth.err = whatsapp.ErrLoginTimeout

	part, err := NewSequential(h.deps(), Options{}).Run(context.Background(), batch(3))
	require.ErrorIs(t, err, whatsapp.ErrLoginTimeout)

	assert.Zero(t, part.Total())
	assert.Empty(t, h.valid.all())
	assert.True(t, h.factory.allClosed())
}

func TestSequential_SessionCreationFailure(t *testing.T) {
	h := newHarness()
	h.factory.failCalls = map[int]bool{1: true}

	_, err := NewSequential(h.deps(), Options{}).Run(context.Background(), batch(3))
	require.ErrorIs(t, err, browser.ErrSessionCreation)
	assert.Zero(t, h.auth.calls.Load())
}

func TestSequential_CancelKeepsPartialResults(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.prober.cancel = cancel
	h.prober.cancelAfter = 2

	part, err := NewSequential(h.deps(), Options{Delay: time.Millisecond}).Run(ctx, batch(5))
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 2, part.Total())
	assert.Len(t, append(h.valid.all(), h.invalid.all()...), 2, "sinks match what was classified")
	assert.True(t, h.factory.allClosed())
}

func TestSharedSession_SerializesProbes(t *testing.T) {
	h := newHarness()
	h.prober.hold = 2 * time.Millisecond
	input := batch(20)

	part, err := NewSharedSession(h.deps(), Options{Workers: 4, Delay: 5 * time.Millisecond}).Run(context.Background(), input)
	require.NoError(t, err)

	assertPartition(t, input, part)
	assert.Equal(t, 1, h.prober.maxInFlight, "probes against the shared session must not overlap")
	assert.Len(t, h.factory.created, 1)
	assert.Equal(t, []string{browser.SingleSuffix}, h.factory.suffixes)
	assert.ElementsMatch(t, part.Valid, h.valid.all())
	assert.ElementsMatch(t, part.Invalid, h.invalid.all())
	assert.True(t, h.factory.allClosed())
}

func TestSharedSession_DelayOverlaps(t *testing.T) {
	h := newHarness()

	start := time.Now()
	_, err := NewSharedSession(h.deps(), Options{Workers: 4, Delay: 40 * time.Millisecond}).Run(context.Background(), batch(4))
	require.NoError(t, err)

	// four sequential delays would take 160ms
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestSharedSession_Empty(t *testing.T) {
	h := newHarness()

	part, err := NewSharedSession(h.deps(), Options{Workers: 2}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, part.Total())
	assert.True(t, h.factory.allClosed())
}

func TestSharedSession_LoginFailure(t *testing.T) {
	h := newHarness()
	h.auth.err = whatsapp.ErrLoginTimeout

	_, err := NewSharedSession(h.deps(), Options{Workers: 3}).Run(context.Background(), batch(3))
	assert.ErrorIs(t, err, whatsapp.ErrLoginTimeout)
	assert.True(t, h.factory.allClosed())
}

func TestMultiSession_ChunksAndConcurrency(t *testing.T) {
	h := newHarness()
	h.prober.hold = 5 * time.Millisecond
	input := batch(5)

	part, err := NewMultiSession(h.deps(), Options{Workers: 2, ChunkSize: 2}).Run(context.Background(), input)
	require.NoError(t, err)

	assertPartition(t, input, part)
	assert.Empty(t, part.Failures)

	assert.Len(t, h.factory.created, 3, "one session per chunk")
	assert.LessOrEqual(t, h.factory.maxOpen, 2, "at most two chunks at once")
	for _, suffix := range h.factory.suffixes {
		assert.Contains(t, []string{"worker_1", "worker_2"}, suffix)
	}
	assert.Equal(t, int32(3), h.auth.calls.Load())
	assert.True(t, h.factory.allClosed())
}

func TestMultiSession_ChunkOrderPreserved(t *testing.T) {
	h := newHarness()
	input := batch(6)

	_, err := NewMultiSession(h.deps(), Options{Workers: 1, ChunkSize: 3}).Run(context.Background(), input)
	require.NoError(t, err)

	// a single worker slot processes both chunks back to back, each in order
	assert.Equal(t, input, h.prober.order["worker_1"])
}

func TestMultiSession_FailedChunkDoesNotStopOthers(t *testing.T) {
	h := newHarness()
	h.factory.failCalls = map[int]bool{1: true}
	input := batch(5)

	part, err := NewMultiSession(h.deps(), Options{Workers: 2, ChunkSize: 2}).Run(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, part.Failures, 1)
	failure := part.Failures[0]
	assert.ErrorIs(t, failure, browser.ErrSessionCreation)
	assert.Equal(t, 5, part.Total()+failure.Size, "only the failed chunk is missing")
	assert.True(t, h.factory.allClosed())
}

func TestMultiSession_AllChunksFail(t *testing.T) {
	h := newHarness()
	h.auth.err = whatsapp.ErrLoginTimeout

	part, err := NewMultiSession(h.deps(), Options{Workers: 2, ChunkSize: 2}).Run(context.Background(), batch(4))
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrAllChunksFailed))
	assert.True(t, errors.Is(err, whatsapp.ErrLoginTimeout))
	assert.Len(t, part.Failures, 2)
	assert.Zero(t, part.Total())
	assert.True(t, h.factory.allClosed())
}

func TestMultiSession_Empty(t *testing.T) {
	h := newHarness()

	part, err := NewMultiSession(h.deps(), Options{Workers: 2, ChunkSize: 2}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, part.Total())
	assert.Empty(t, h.factory.created)
}
