package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/entrhq/waprobe/pkg/browser"
	"github.com/entrhq/waprobe/pkg/whatsapp"
)

type fakeSession struct {
	profile string
	closed  atomic.Int32
	onClose func()
}

func (s *fakeSession) Profile() string { return s.profile }
func (s *fakeSession) Navigate(string) error { return nil }
func (s *fakeSession) Exists(string) (bool, error) { return false, nil }
func (s *fakeSession) Content() (string, error) { return "", nil }
func (s *fakeSession) Screenshot(string) error { return nil }

func (s *fakeSession) Close() error {
	if s.closed.Add(1) == 1 && s.onClose != nil {
		s.onClose()
	}
	return nil
}

// fakeFactory tracks how many sessions are open at once.
type fakeFactory struct {
	mu       sync.Mutex
	created  []*fakeSession
	suffixes []string
	open     int
	maxOpen  int

	// failCalls makes the listed 1-based Create calls fail
	failCalls map[int]bool
	calls     int
}

func (f *fakeFactory) Create(ctx context.Context, suffix string) (browser.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.suffixes = append(f.suffixes, suffix)
	if f.failCalls[f.calls] {
		return nil, errors.Join(browser.ErrSessionCreation, errors.New("chrome not reachable"))
	}

	s := &fakeSession{profile: suffix}
	s.onClose = func() {
		f.mu.Lock()
		f.open--
		f.mu.Unlock()
	}
	f.created = append(f.created, s)
	f.open++
	if f.open > f.maxOpen {
		f.maxOpen = f.open
	}
	return s, nil
}

func (f *fakeFactory) allClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.created {
		if s.closed.Load() == 0 {
			return false
		}
	}
	return true
}

type fakeAuth struct {
	err   error
	calls atomic.Int32
}

func (a *fakeAuth) Authenticate(ctx context.Context, s browser.Session) error {
	a.calls.Add(1)
	return a.err
}

// fakeProber marks numbers ending in an even digit as valid and tracks how many
// probes are in flight per session.
type fakeProber struct {
	hold time.Duration

	mu          sync.Mutex
	inFlight    map[browser.Session]int
	maxInFlight int
	order       map[string][]string

	// cancelAfter cancels the context after this many probes
	cancelAfter int
	cancel      context.CancelFunc
	probes      int
}

func newFakeProber() *fakeProber {
	return &fakeProber{
		inFlight: make(map[browser.Session]int),
		order:    make(map[string][]string),
	}
}

func (p *fakeProber) Classify(ctx context.Context, s browser.Session, number string) (whatsapp.Result, error) {
	p.mu.Lock()
	p.inFlight[s]++
	if p.inFlight[s] > p.maxInFlight {
		p.maxInFlight = p.inFlight[s]
	}
	p.order[s.Profile()] = append(p.order[s.Profile()], number)
	p.probes++
	if p.cancel != nil && p.probes == p.cancelAfter {
		p.cancel()
	}
	p.mu.Unlock()

	if p.hold > 0 {
		time.Sleep(p.hold)
	}

	p.mu.Lock()
	p.inFlight[s]--
	p.mu.Unlock()

	res := whatsapp.Result{Number: number, Verdict: whatsapp.Invalid, Reason: "odd"}
	if last := number[len(number)-1]; (last-'0')%2 == 0 {
		res.Verdict, res.Reason = whatsapp.Valid, "even"
	}
	return res, nil
}

type memSink struct {
	mu      sync.Mutex
	numbers []string
}

func (s *memSink) Append(number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numbers = append(s.numbers, number)
	return nil
}

func (s *memSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.numbers...)
}

type harness struct {
	factory *fakeFactory
	auth    *fakeAuth
	prober  *fakeProber
	valid   *memSink
	invalid *memSink
}

func newHarness() *harness {
	return &harness{
		factory: &fakeFactory{},
		auth:    &fakeAuth{},
		prober:  newFakeProber(),
		valid:   &memSink{},
		invalid: &memSink{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Factory: h.factory,
		Auth:    h.auth,
		Prober:  h.prober,
		Sinks:   Sinks{Valid: h.valid, Invalid: h.invalid},
	}
}
