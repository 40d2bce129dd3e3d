package printview

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for library operations.
var (
	ErrNoActiveSession = errors.New("no active preview session")
	ErrPrinterClosed   = errors.New("printer is closed")
	ErrSessionNotReady = errors.New("preview session is not ready")
	ErrSessionClosed   = errors.New("preview session is closed")
	ErrPrint           = errors.New("print failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrShellRender     = errors.New("preview shell rendering failed")
	ErrTemplateDir     = errors.New("invalid template directory")
	ErrTemplateParse   = errors.New("template parsing failed")
	ErrNoSink          = errors.New("no output sink configured")
	ErrHostClosed      = errors.New("render host is closed")
	ErrViewClosed      = errors.New("preview view is closed")

	// Mount preconditions, carried by RenderMountError.
	ErrMountPointMissing = errors.New("mount point not available")
	ErrNilRenderer       = errors.New("renderer handle is nil")
)

// TemplateNotFoundError is returned by Printer.Open, Preview and PrintDirect
// when no template is registered under the requested key.
type TemplateNotFoundError struct {
	Key       string
	Available []string
}

func (e *TemplateNotFoundError) Error() string {
	available := "none"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("template %q not found (available: %s)", e.Key, available)
}

// RenderMountError reports that the render host could not instantiate a
// renderer: either the mount point was missing or the renderer was nil.
// It never reaches callers directly; TemplatePreviewError wraps it.
type RenderMountError struct {
	Reason error
}

func (e *RenderMountError) Error() string {
	return "render mount failed: " + e.Reason.Error()
}

func (e *RenderMountError) Unwrap() error {
	return e.Reason
}

// TemplatePreviewError reports a fatal failure while loading a preview
// session, or a failed print in the print-direct flow.
type TemplatePreviewError struct {
	Key string
	Err error
}

func (e *TemplatePreviewError) Error() string {
	return fmt.Sprintf("preview of template %q failed: %v", e.Key, e.Err)
}

func (e *TemplatePreviewError) Unwrap() error {
	return e.Err
}
