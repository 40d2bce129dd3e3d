// Package process terminates browser process trees left behind by the
// browser host.
package process

import "errors"

// ErrInvalidPID is returned for pids that would target the caller's own
// process group (0) or every process (-1).
var ErrInvalidPID = errors.New("invalid pid")
