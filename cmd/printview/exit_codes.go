package main

import (
	"errors"
	"os"

	printview "github.com/alnah/go-printview"
	"github.com/alnah/go-printview/internal/config"
	"github.com/alnah/go-printview/internal/fileutil"
)

// Exit codes for printview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or templates
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, printview.ErrBrowserConnect) ||
		errors.Is(err, printview.ErrPageCreate) ||
		errors.Is(err, printview.ErrPageLoad) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrOutputIsDirectory) ||
		errors.Is(err, ErrReadData) ||
		errors.Is(err, ErrReadJobs) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	var notFound *printview.TemplateNotFoundError
	if errors.As(err, &notFound) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, printview.ErrTemplateDir) ||
		errors.Is(err, printview.ErrTemplateParse) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidJob) {
		return ExitUsage
	}

	return ExitGeneral
}
