package printview

import "context"

// Action is a user request raised by an interactive view.
type Action int

// Actions an interactive view can raise.
const (
	ActionPrint Action = iota + 1
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionPrint:
		return "print"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Host opens preview surfaces. One host serves many sessions; each
// session gets its own View.
type Host interface {
	// Open displays an empty preview surface set up for opts.
	Open(ctx context.Context, opts Settings) (View, error)
	// Close releases the host and everything it launched.
	Close() error
}

// View is one preview surface.
type View interface {
	// Mount returns the element renderers paint into.
	// It returns ErrMountPointMissing (or a nil Mount) when there is none.
	Mount(ctx context.Context) (Mount, error)
	// ShowError replaces the preview with a user-visible error message.
	ShowError(ctx context.Context, msg string) error
	// Print invokes the native print facility for what is displayed.
	Print(ctx context.Context) error
	// Actions delivers user print/close requests. Nil for views that have
	// no user; the channel is closed when the surface goes away.
	Actions() <-chan Action
	// Interactive reports whether a user can see and act on the view.
	Interactive() bool
	// Close tears the surface down. Safe to call more than once.
	Close() error
}

// Mount is the element of a view that receives rendered template output.
type Mount interface {
	Paint(ctx context.Context, fragment string) error
}
