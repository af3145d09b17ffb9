package whatsapp

import (
	"errors"
	"sync"
)

// fakeSession answers Exists from a per-selector function of the call count.
type fakeSession struct {
	mu sync.Mutex

	signals map[string]func(call int) (bool, error)
	calls   map[string]int

	navigated   []string
	navigateErr error

	screenshots   []string
	screenshotErr error

	content string
	closed  int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		signals: make(map[string]func(int) (bool, error)),
		calls:   make(map[string]int),
	}
}

// always makes selector match on every poll.
func (f *fakeSession) always(selector string) *fakeSession {
	f.signals[selector] = func(int) (bool, error) { return true, nil }
	return f
}

// after makes selector match from the nth query on.
func (f *fakeSession) after(selector string, n int) *fakeSession {
	f.signals[selector] = func(call int) (bool, error) { return call >= n, nil }
	return f
}

// once makes selector match on its nth query only.
func (f *fakeSession) once(selector string, n int) *fakeSession {
	f.signals[selector] = func(call int) (bool, error) { return call == n, nil }
	return f
}

// failing makes the first n queries of selector fail.
func (f *fakeSession) failing(selector string, n int, then bool) *fakeSession {
	f.signals[selector] = func(call int) (bool, error) {
		if call < n {
			return false, errors.New("stale element reference")
		}
		return then, nil
	}
	return f
}

func (f *fakeSession) Profile() string { return "fake_profile" }

func (f *fakeSession) Navigate(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	return f.navigateErr
}

func (f *fakeSession) Exists(selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := f.calls[selector]
	f.calls[selector] = call + 1

	fn, ok := f.signals[selector]
	if !ok {
		return false, nil
	}
	return fn(call)
}

func (f *fakeSession) Content() (string, error) {
	return f.content, nil
}

func (f *fakeSession) Screenshot(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screenshots = append(f.screenshots, path)
	return f.screenshotErr
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeSession) queries(selector string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[selector]
}
