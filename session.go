package printview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionState is the lifecycle state of a preview session.
type SessionState int

// Session states. A session moves opening -> loading -> ready -> closed,
// or opening -> loading -> failed -> closed. It can close from any state.
const (
	StateOpening SessionState = iota
	StateLoading
	StateReady
	StateFailed
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// failureMessage is shown in place of the preview when loading fails.
const failureMessage = "This document could not be displayed."

// Session is one preview/print lifecycle. Create sessions with
// Printer.Open; they are driven on their own goroutine.
type Session struct {
	id         uuid.UUID
	descriptor TemplateDescriptor
	data       any
	settings   Settings
	host       Host
	logger     *zap.Logger

	onPrint  func(ctx context.Context) error
	onClosed func(*Session)
	teardown *sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state SessionState
	view  View

	settleOnce sync.Once
	err        error
	done       chan struct{}
	closed     chan struct{}
}

// sessionParams groups what Printer hands a new session.
type sessionParams struct {
	descriptor TemplateDescriptor
	data       any
	settings   Settings
	host       Host
	logger     *zap.Logger
	onPrint    func(ctx context.Context) error
	onClosed   func(*Session)
	teardown   *sync.WaitGroup
}

func newSession(ctx context.Context, p sessionParams) *Session {
	id := uuid.New()
	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &Session{
		id:         id,
		descriptor: p.descriptor,
		data:       p.data,
		settings:   p.settings,
		host:       p.host,
		logger: p.logger.With(
			zap.String("session", id.String()),
			zap.String("template", p.descriptor.Key),
		),
		onPrint:  p.onPrint,
		onClosed: p.onClosed,
		teardown: p.teardown,
		ctx:      sctx,
		cancel:   cancel,
		state:    StateOpening,
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id.String() }

// Descriptor returns the resolved template.
func (s *Session) Descriptor() TemplateDescriptor { return s.descriptor }

// Data returns the caller's payload, unmodified.
func (s *Session) Data() any { return s.data }

// Settings returns the merged options.
func (s *Session) Settings() Settings { return s.settings }

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the session result is settled.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the settled result: nil while pending or after a clean close,
// a *TemplatePreviewError after a failure.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the session result is settled or ctx is done.
// Closing a session, early or not, settles it with nil.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the session. It does not wait for the view to be torn
// down. Safe to call any number of times, from any state.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	from := s.state
	s.state = StateClosed
	view := s.view
	s.view = nil
	s.mu.Unlock()

	close(s.closed)
	s.cancel()
	s.settle(nil)
	s.logger.Debug("session closed", zap.Stringer("from", from))

	if s.onClosed != nil {
		s.onClosed(s)
	}
	if view != nil {
		s.release(view)
	}
}

// run drives the session from opening to ready or failed. It runs on its
// own goroutine, so loading always starts after the caller got control back.
func (s *Session) run() {
	view, err := s.host.Open(s.ctx, s.settings)
	if err != nil {
		s.fail(fmt.Errorf("opening preview: %w", err))
		return
	}
	if !s.attach(view) {
		return
	}

	if !s.transition(StateOpening, StateLoading) {
		return
	}

	mount, err := view.Mount(s.ctx)
	if err == nil && mount == nil {
		err = ErrMountPointMissing
	}
	if err != nil {
		s.fail(&RenderMountError{Reason: err})
		return
	}
	if isNilRenderer(s.descriptor.Renderer) {
		s.fail(&RenderMountError{Reason: ErrNilRenderer})
		return
	}

	fragment, err := s.descriptor.Renderer.Render(s.ctx, s.data, s.settings)
	if err != nil {
		s.fail(fmt.Errorf("rendering template: %w", err))
		return
	}
	if err := mount.Paint(s.ctx, fragment); err != nil {
		s.fail(fmt.Errorf("painting preview: %w", err))
		return
	}

	if !s.transition(StateLoading, StateReady) {
		return
	}
	s.listen(view)
}

// attach records the opened view. If the session was closed while the
// host was opening, the view is released right away.
func (s *Session) attach(view View) bool {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		s.release(view)
		return false
	}
	s.view = view
	s.mu.Unlock()
	return true
}

func (s *Session) transition(from, to SessionState) bool {
	s.mu.Lock()
	if s.state != from {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.mu.Unlock()
	s.logger.Debug("session state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	return true
}

// fail moves the session to failed and settles its result. Interactive
// views keep showing the error until the user closes them; other views
// are closed immediately.
func (s *Session) fail(cause error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateFailed
	view := s.view
	s.mu.Unlock()

	s.settle(&TemplatePreviewError{Key: s.descriptor.Key, Err: cause})
	s.logger.Warn("preview failed", zap.Error(cause))

	if view == nil {
		s.Close()
		return
	}
	if err := view.ShowError(s.ctx, failureMessage); err != nil {
		s.logger.Debug("showing preview error", zap.Error(err))
	}
	if !view.Interactive() {
		s.Close()
		return
	}
	s.listen(view)
}

// listen serves user actions until the session closes.
func (s *Session) listen(view View) {
	actions := view.Actions()
	for {
		select {
		case <-s.closed:
			return
		case a, ok := <-actions:
			if !ok {
				s.Close()
				return
			}
			switch a {
			case ActionPrint:
				if s.onPrint == nil {
					continue
				}
				if err := s.onPrint(s.ctx); err != nil {
					s.logger.Warn("print request failed", zap.Error(err))
				}
			case ActionClose:
				s.Close()
				return
			}
		}
	}
}

// print invokes the view's print facility. Only ready sessions print.
func (s *Session) print(ctx context.Context) error {
	s.mu.Lock()
	state, view := s.state, s.view
	s.mu.Unlock()

	switch state {
	case StateReady:
	case StateClosed:
		return ErrSessionClosed
	default:
		return fmt.Errorf("%w: state %s", ErrSessionNotReady, state)
	}

	if err := view.Print(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPrint, err)
	}
	s.logger.Debug("printed", zap.Int("copies", s.settings.Copies))
	return nil
}

// printAndClose is the print-direct path: print, then close. A session
// that is already closed is left alone; a failed print settles the result
// with a *TemplatePreviewError before closing.
func (s *Session) printAndClose() {
	err := s.print(s.ctx)
	if errors.Is(err, ErrSessionClosed) {
		return
	}
	if err != nil {
		s.settle(&TemplatePreviewError{Key: s.descriptor.Key, Err: err})
		s.logger.Warn("direct print failed", zap.Error(err))
	}
	s.Close()
}

func (s *Session) settle(err error) {
	s.settleOnce.Do(func() {
		s.err = err
		close(s.done)
	})
}

// release tears a view down in the background.
func (s *Session) release(view View) {
	s.teardown.Add(1)
	go func() {
		defer s.teardown.Done()
		if err := view.Close(); err != nil {
			s.logger.Debug("closing view", zap.Error(err))
		}
	}()
}

// isNilRenderer catches both a nil interface and a nil RendererFunc.
func isNilRenderer(r Renderer) bool {
	if r == nil {
		return true
	}
	if f, ok := r.(RendererFunc); ok && f == nil {
		return true
	}
	return false
}
