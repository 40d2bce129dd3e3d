package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	printview "github.com/alnah/go-printview"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake browser host
// ---------------------------------------------------------------------------

// fakePDFPrefix starts every document printed by a fake headless host.
const fakePDFPrefix = "%PDF-1.7 fake\n"

// fakeBrowserHost stands in for the rod host. Windowed views close as soon
// as they are ready, as if the user closed the window. Headless views
// print the painted fragment to the configured sink.
type fakeBrowserHost struct {
	cfg printview.BrowserConfig

	mu      sync.Mutex
	opened  []printview.Settings
	painted []string
	closed  bool
}

func newFakeBrowserHost(cfg printview.BrowserConfig) *fakeBrowserHost {
	return &fakeBrowserHost{cfg: cfg}
}

func (h *fakeBrowserHost) Open(ctx context.Context, s printview.Settings) (printview.View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, printview.ErrHostClosed
	}
	h.opened = append(h.opened, s)

	v := &fakeBrowserView{host: h, settings: s}
	if !h.cfg.Headless {
		v.actions = make(chan printview.Action)
		close(v.actions)
	}
	return v, nil
}

func (h *fakeBrowserHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *fakeBrowserHost) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *fakeBrowserHost) openedSettings() []printview.Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]printview.Settings(nil), h.opened...)
}

func (h *fakeBrowserHost) paintedFragments() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.painted...)
}

type fakeBrowserView struct {
	host     *fakeBrowserHost
	settings printview.Settings
	actions  chan printview.Action

	mu       sync.Mutex
	fragment string
}

func (v *fakeBrowserView) Mount(context.Context) (printview.Mount, error) {
	return v, nil
}

func (v *fakeBrowserView) Paint(_ context.Context, fragment string) error {
	v.mu.Lock()
	v.fragment = fragment
	v.mu.Unlock()

	v.host.mu.Lock()
	v.host.painted = append(v.host.painted, fragment)
	v.host.mu.Unlock()
	return nil
}

func (v *fakeBrowserView) ShowError(context.Context, string) error { return nil }

func (v *fakeBrowserView) Print(ctx context.Context) error {
	if v.host.cfg.PDFSink == nil {
		return nil
	}
	v.mu.Lock()
	doc := fakePDFPrefix + v.fragment
	v.mu.Unlock()
	return v.host.cfg.PDFSink(ctx, v.settings.Title, []byte(doc))
}

func (v *fakeBrowserView) Actions() <-chan printview.Action {
	if v.actions == nil {
		return nil
	}
	return v.actions
}

func (v *fakeBrowserView) Interactive() bool { return !v.host.cfg.Headless }

func (v *fakeBrowserView) Close() error { return nil }

// browserRecorder is a BrowserHostFactory that keeps every host it creates.
type browserRecorder struct {
	mu    sync.Mutex
	hosts []*fakeBrowserHost
}

func (r *browserRecorder) factory(cfg printview.BrowserConfig) (printview.Host, error) {
	h := newFakeBrowserHost(cfg)
	r.mu.Lock()
	r.hosts = append(r.hosts, h)
	r.mu.Unlock()
	return h, nil
}

func (r *browserRecorder) created() []*fakeBrowserHost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*fakeBrowserHost(nil), r.hosts...)
}

// syncBuffer is a bytes.Buffer safe for the session goroutines that log
// while a command writes its own output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testDeps returns dependencies writing to buffers, with a fixed clock and
// fake browser hosts.
func testDeps(t *testing.T) (*Dependencies, *syncBuffer, *syncBuffer, *browserRecorder) {
	t.Helper()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	recorder := &browserRecorder{}
	fixed := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	deps := &Dependencies{
		Now:         func() time.Time { return fixed },
		Stdout:      stdout,
		Stderr:      stderr,
		BrowserHost: recorder.factory,
	}
	return deps, stdout, stderr, recorder
}
