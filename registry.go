package printview

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Renderer turns a data payload and fully resolved settings into an HTML
// fragment that a render host paints into its mount point.
// Implementations must tolerate malformed or missing data fields; the
// printer never validates data.
type Renderer interface {
	Render(ctx context.Context, data any, opts Settings) (string, error)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(ctx context.Context, data any, opts Settings) (string, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, data any, opts Settings) (string, error) {
	return f(ctx, data, opts)
}

// TemplateDescriptor is a named renderable unit.
type TemplateDescriptor struct {
	Key         string
	Renderer    Renderer
	Description string
}

// Registry maps template keys to descriptors.
// Keys are listed in first-registration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]TemplateDescriptor
	order   []string
	logger  *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger discards warnings.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		entries: make(map[string]TemplateDescriptor),
		logger:  logger,
	}
}

// Register inserts or replaces the descriptor for key. Replacing an
// existing key is allowed (hot reload) and logged as a warning.
// A nil renderer is stored as-is; the session fails at mount time.
func (r *Registry) Register(key string, renderer Renderer, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		r.logger.Warn("template already registered, replacing",
			zap.String("template", key))
	} else {
		r.order = append(r.order, key)
	}

	r.entries[key] = TemplateDescriptor{
		Key:         key,
		Renderer:    renderer,
		Description: description,
	}
}

// Unregister removes key and reports whether it was registered.
func (r *Registry) Unregister(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; !exists {
		return false
	}
	delete(r.entries, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the descriptor for key. The boolean is false when absent.
func (r *Registry) Get(key string) (TemplateDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[key]
	return d, ok
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// List returns the registered keys.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Descriptors returns all descriptors in List order.
func (r *Registry) Descriptors() []TemplateDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TemplateDescriptor, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k])
	}
	return out
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear removes every template.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]TemplateDescriptor)
	r.order = nil
}
