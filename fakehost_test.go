package printview

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeHost is a Host that records the views it opens.
type fakeHost struct {
	mu          sync.Mutex
	views       []*fakeView
	openErr     error
	noMount     bool
	interactive bool
	printErr    error
	closed      int
}

func (h *fakeHost) Open(ctx context.Context, s Settings) (View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.openErr != nil {
		return nil, h.openErr
	}

	v := &fakeView{
		settings:    s,
		interactive: h.interactive,
		printErr:    h.printErr,
		closedCh:    make(chan struct{}),
	}
	if !h.noMount {
		v.mount = &fakeMount{}
	}
	if h.interactive {
		v.actions = make(chan Action, 4)
	}
	h.views = append(h.views, v)
	return v, nil
}

func (h *fakeHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
	return nil
}

func (h *fakeHost) opened() []*fakeView {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*fakeView, len(h.views))
	copy(out, h.views)
	return out
}

// fakeView is a View with an in-memory mount.
type fakeView struct {
	settings    Settings
	mount       *fakeMount
	interactive bool
	actions     chan Action
	printErr    error

	mu        sync.Mutex
	prints    int
	errorMsg  string
	closeOnce sync.Once
	closedCh  chan struct{}
}

func (v *fakeView) Mount(context.Context) (Mount, error) {
	if v.mount == nil {
		return nil, ErrMountPointMissing
	}
	return v.mount, nil
}

func (v *fakeView) ShowError(_ context.Context, msg string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorMsg = msg
	return nil
}

func (v *fakeView) Print(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.printErr != nil {
		return v.printErr
	}
	v.prints++
	return nil
}

func (v *fakeView) Actions() <-chan Action {
	if v.actions == nil {
		return nil
	}
	return v.actions
}

func (v *fakeView) Interactive() bool { return v.interactive }

func (v *fakeView) Close() error {
	v.closeOnce.Do(func() { close(v.closedCh) })
	return nil
}

func (v *fakeView) printCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prints
}

func (v *fakeView) shownError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errorMsg
}

func (v *fakeView) isClosed() bool {
	select {
	case <-v.closedCh:
		return true
	default:
		return false
	}
}

// fakeMount records painted fragments.
type fakeMount struct {
	mu        sync.Mutex
	fragments []string
}

func (m *fakeMount) Paint(_ context.Context, fragment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fragments = append(m.fragments, fragment)
	return nil
}

func (m *fakeMount) painted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.fragments))
	copy(out, m.fragments)
	return out
}

// staticRenderer renders a fixed fragment.
func staticRenderer(fragment string) Renderer {
	return RendererFunc(func(context.Context, any, Settings) (string, error) {
		return fragment, nil
	})
}

// newTestPrinter creates a printer over host with no print delay.
func newTestPrinter(t *testing.T, host Host, opts ...Option) *Printer {
	t.Helper()

	opts = append([]Option{WithHost(host), WithPrintDelay(0)}, opts...)
	p, err := NewPrinter(opts...)
	if err != nil {
		t.Fatalf("NewPrinter() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// waitFor polls cond until it holds or the test times out.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitState(t *testing.T, s *Session, want SessionState) {
	t.Helper()
	waitFor(t, "session state "+want.String(), func() bool { return s.State() == want })
}
