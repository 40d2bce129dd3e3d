package printview

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// PrinterFactory creates one pooled Printer, typically with its own host.
type PrinterFactory func() (*Printer, error)

// PrinterPool manages Printer instances for parallel batch printing.
// A Printer holds at most one active session, so each concurrent job
// needs its own. Printers are created lazily on first acquire.
type PrinterPool struct {
	size     int
	factory  PrinterFactory
	printers []*Printer
	sem      chan *Printer
	mu       sync.Mutex
	created  int
	closed   bool
}

// NewPrinterPool creates a pool with capacity for n printers built by
// factory. Printers are created when acquired, not at pool creation.
func NewPrinterPool(n int, factory PrinterFactory) *PrinterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	return &PrinterPool{
		size:     n,
		factory:  factory,
		printers: make([]*Printer, 0, n),
		sem:      make(chan *Printer, n),
	}
}

// Acquire gets a printer from the pool, creating one if needed.
// Blocks while all printers are in use, until ctx is done.
func (p *PrinterPool) Acquire(ctx context.Context) (*Printer, error) {
	// Try to get an idle printer (non-blocking)
	select {
	case pr, ok := <-p.sem:
		if !ok {
			return nil, ErrPrinterClosed
		}
		return pr, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPrinterClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock: hosts may be slow to set up
		pr, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = pr.Close()
			return nil, ErrPrinterClosed
		}
		p.printers = append(p.printers, pr)
		p.mu.Unlock()
		return pr, nil
	}
	p.mu.Unlock()

	// All printers created, wait for one to be released
	select {
	case pr, ok := <-p.sem:
		if !ok {
			return nil, ErrPrinterClosed
		}
		return pr, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a printer to the pool. The channel never blocks: it
// holds one slot per printer the pool can create.
func (p *PrinterPool) Release(pr *Printer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- pr
}

// Close closes every printer the pool created.
// Returns an aggregated error if multiple printers fail to close.
func (p *PrinterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	printers := p.printers
	p.mu.Unlock()

	var errs []error
	for _, pr := range printers {
		if err := pr.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *PrinterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
