package templates

import "errors"

// Sentinel errors for template operations.
var (
	ErrParse  = errors.New("template parsing failed")
	ErrRender = errors.New("template rendering failed")
	ErrLoad   = errors.New("template loading failed")
)
