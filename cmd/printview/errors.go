package main

import (
	"errors"

	printview "github.com/alnah/go-printview"
	"github.com/alnah/go-printview/internal/config"
	"github.com/alnah/go-printview/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrReadData           = errors.New("failed to read data file")
	ErrReadJobs           = errors.New("failed to read jobs file")
	ErrInvalidJob         = errors.New("invalid job")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrBatchFailed        = errors.New("batch had failed jobs")
)

// formatError renders err for the terminal, followed by any hint that
// helps the user fix it.
func formatError(err error, cmd string) string {
	msg := "error: " + err.Error()

	var notFound *printview.TemplateNotFoundError
	switch {
	case errors.As(err, &notFound):
		msg += hints.ForTemplateNotFound(notFound.Available)
	case errors.Is(err, printview.ErrBrowserConnect):
		msg += hints.ForBrowserConnect()
		if cmd == cmdPreview {
			msg += hints.ForPreviewDisplay()
		}
	case errors.Is(err, printview.ErrPageLoad):
		msg += hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		msg += hints.ForConfigNotFound(config.SearchPaths("printview"))
	case errors.Is(err, ErrReadData):
		msg += hints.ForDataFile()
	case errors.Is(err, ErrWriteOutput):
		msg += hints.ForOutputDirectory()
	}
	return msg
}
