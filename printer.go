package printview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Compile-time interface implementation checks.
var (
	_ Host  = (*BrowserHost)(nil)
	_ Host  = (*DocumentHost)(nil)
	_ View  = (*browserView)(nil)
	_ View  = (*documentView)(nil)
	_ Mount = (*browserMount)(nil)
	_ Mount = (*documentMount)(nil)
)

// Printer is the entry point: it resolves templates through its registry,
// applies option defaults, and drives at most one active preview session.
// Create with NewPrinter and release with Close.
type Printer struct {
	cfg      printerConfig
	host     Host
	ownsHost bool
	logger   *zap.Logger
	registry *Registry

	mu     sync.Mutex
	active *Session
	closed bool

	teardown sync.WaitGroup
}

// NewPrinter creates a Printer. Without WithHost, previews open in a
// visible browser window and print through the browser's print dialog.
// Returns an error if the default host or the requested templates cannot
// be set up.
func NewPrinter(opts ...Option) (*Printer, error) {
	p := &Printer{
		cfg: printerConfig{
			printDelay: defaultPrintDelay,
			timeout:    defaultTimeout,
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.registry = NewRegistry(p.logger)

	if p.cfg.builtins {
		if err := registerBuiltins(p.registry); err != nil {
			return nil, err
		}
	}
	if p.cfg.templateDir != "" {
		if err := registerTemplateDir(p.registry, p.cfg.templateDir); err != nil {
			return nil, err
		}
	}

	// Create the browser host if none was injected (e.g., by tests)
	if p.host == nil {
		host, err := NewBrowserHost(BrowserConfig{
			Timeout:  p.cfg.timeout,
			AssetDir: p.cfg.templateDir,
			Logger:   p.logger,
		})
		if err != nil {
			return nil, err
		}
		p.host = host
		p.ownsHost = true
	}

	return p, nil
}

// Open starts a preview session for req and returns without waiting for
// it. Any active session is closed first (not awaited). Returns a
// *TemplateNotFoundError when req.TemplateKey is not registered.
func (p *Printer) Open(ctx context.Context, req Request) (*Session, error) {
	desc, ok := p.registry.Get(req.TemplateKey)
	if !ok {
		return nil, &TemplateNotFoundError{Key: req.TemplateKey, Available: p.registry.List()}
	}

	settings := ResolveOptions(req.Options)

	s := newSession(ctx, sessionParams{
		descriptor: desc,
		data:       req.Data,
		settings:   settings,
		host:       p.host,
		logger:     p.logger,
		onPrint:    p.Print,
		onClosed:   p.release,
		teardown:   &p.teardown,
	})

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		s.cancel()
		return nil, ErrPrinterClosed
	}
	prev := p.active
	p.active = s
	// Counted under the lock so Close never starts waiting before it.
	p.teardown.Add(1)
	p.mu.Unlock()

	if prev != nil {
		prev.Close()
	}

	p.logger.Debug("session opened",
		zap.String("session", s.ID()),
		zap.String("template", desc.Key))

	go func() {
		defer p.teardown.Done()
		s.run()
	}()
	return s, nil
}

// Preview opens a session for req and blocks until it is closed, by the
// user or through ClosePreview. An early close is a success. Loading
// failures return a *TemplatePreviewError. If ctx is done first, the
// session is closed and ctx.Err() is returned.
func (p *Printer) Preview(ctx context.Context, req Request) error {
	s, err := p.Open(ctx, req)
	if err != nil {
		return err
	}
	return p.wait(ctx, s)
}

// PrintDirect is Preview followed, after the print delay, by a print of the
// session and its close. Besides a missing template or a load failure, it
// also fails when the print itself fails. That includes a session still
// loading when the delay ends: the call then returns a *TemplatePreviewError
// wrapping ErrSessionNotReady instead of printing an empty document.
func (p *Printer) PrintDirect(ctx context.Context, req Request) error {
	s, err := p.Open(ctx, req)
	if err != nil {
		return err
	}

	timer := time.AfterFunc(p.cfg.printDelay, s.printAndClose)
	defer timer.Stop()

	return p.wait(ctx, s)
}

func (p *Printer) wait(ctx context.Context, s *Session) error {
	err := s.Wait(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		s.Close()
	}
	return err
}

// Print invokes the native print facility for the active session after the
// print delay. Returns ErrNoActiveSession when nothing is open and
// ErrSessionNotReady when the active session has not finished loading.
func (p *Printer) Print(ctx context.Context) error {
	if p.ActiveSession() == nil {
		return ErrNoActiveSession
	}

	if p.cfg.printDelay > 0 {
		t := time.NewTimer(p.cfg.printDelay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}

	s := p.ActiveSession()
	if s == nil {
		return ErrNoActiveSession
	}
	return s.print(ctx)
}

// ClosePreview closes the active session, if any.
func (p *Printer) ClosePreview() {
	if s := p.ActiveSession(); s != nil {
		s.Close()
	}
}

// ActiveSession returns the most recently opened session that is still
// open, or nil.
func (p *Printer) ActiveSession() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// release clears the active pointer when s is still the active session.
func (p *Printer) release(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == s {
		p.active = nil
	}
}

// Close closes the active session, waits for every session goroutine to
// finish and its view to be torn down, and releases the host if the
// printer created it. A view still being opened by the host is released
// before Close returns.
func (p *Printer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	s := p.active
	p.mu.Unlock()

	if s != nil {
		s.Close()
	}
	p.teardown.Wait()

	if p.ownsHost {
		if err := p.host.Close(); err != nil {
			return fmt.Errorf("closing host: %w", err)
		}
	}
	return nil
}

// Registry returns the printer's template registry.
func (p *Printer) Registry() *Registry {
	return p.registry
}

// RegisterTemplate registers renderer under key, replacing any previous
// registration with a logged warning.
func (p *Printer) RegisterTemplate(key string, renderer Renderer, description string) {
	p.registry.Register(key, renderer, description)
}

// UnregisterTemplate removes key and reports whether it existed.
func (p *Printer) UnregisterTemplate(key string) bool {
	return p.registry.Unregister(key)
}

// HasTemplate reports whether key is registered.
func (p *Printer) HasTemplate(key string) bool {
	return p.registry.Has(key)
}

// RegisteredTemplates returns the registered keys.
func (p *Printer) RegisteredTemplates() []string {
	return p.registry.List()
}

// ClearTemplates removes every registered template.
func (p *Printer) ClearTemplates() {
	p.registry.Clear()
}

// Stats returns the number of registered templates and their keys.
func (p *Printer) Stats() Stats {
	keys := p.registry.List()
	return Stats{Count: len(keys), Keys: keys}
}
