package main

import (
	"io"
	"os"
	"time"

	printview "github.com/alnah/go-printview"
)

// BrowserHostFactory creates the browser host used by preview and print.
type BrowserHostFactory func(cfg printview.BrowserConfig) (printview.Host, error)

// Dependencies holds injectable dependencies for testability.
type Dependencies struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	BrowserHost BrowserHostFactory
}

// DefaultDeps returns production dependencies.
func DefaultDeps() *Dependencies {
	return &Dependencies{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		BrowserHost: func(cfg printview.BrowserConfig) (printview.Host, error) {
			host, err := printview.NewBrowserHost(cfg)
			if err != nil {
				return nil, err
			}
			return host, nil
		},
	}
}
