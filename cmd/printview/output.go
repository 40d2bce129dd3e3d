package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	printview "github.com/alnah/go-printview"
	"github.com/alnah/go-printview/internal/config"
	"github.com/alnah/go-printview/internal/fileutil"
	"github.com/alnah/go-printview/internal/yamlutil"
	"go.uber.org/zap"
)

// Output extensions.
const (
	extPDF  = ".pdf"
	extHTML = ".html"
)

// loadData reads a JSON or YAML data file. An empty path yields empty data,
// which every built-in template tolerates.
func loadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}
	if err := yamlutil.ReadFile(path, &data, false); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadData, path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// outputExt returns the extension of the documents a run writes.
func outputExt(htmlOnly bool) string {
	if htmlOnly {
		return extHTML
	}
	return extPDF
}

// resolveOutputPath picks where a printed document goes. An explicit path
// wins. Otherwise the document is named after the data file, or name when
// there is none, and placed in outputDir, or next to the data file.
func resolveOutputPath(explicit, outputDir, dataFile, name, ext string) string {
	if explicit != "" {
		return explicit
	}

	base := name + ext
	if dataFile != "" {
		base = filepath.Base(fileutil.ReplaceExt(dataFile, ext))
	}

	switch {
	case outputDir != "":
		return filepath.Join(outputDir, base)
	case dataFile != "":
		return fileutil.ReplaceExt(dataFile, ext)
	default:
		return base
	}
}

// outputTarget is the sink of one host: it writes each printed document
// to the path set for the current job.
type outputTarget struct {
	mu      sync.Mutex
	path    string
	written bool
}

// set points the target at path for the next print.
func (o *outputTarget) set(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.path = path
	o.written = false
}

// write is a printview.PDFSink and printview.DocumentSink.
func (o *outputTarget) write(_ context.Context, _ string, document []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.path == "" {
		return fmt.Errorf("%w: no output path", ErrWriteOutput)
	}
	if err := fileutil.WriteOutput(o.path, document); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, o.path, err)
	}
	o.written = true
	return nil
}

// done reports whether the current path has been written.
func (o *outputTarget) done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.written
}

// newOutputHost creates the host that prints into target: a document host
// for HTML output, a headless browser otherwise.
func newOutputHost(cfg *config.Config, target *outputTarget, deps *Dependencies, logger *zap.Logger) (printview.Host, error) {
	if cfg.Print.HTMLOnly {
		host, err := printview.NewDocumentHost(printview.DocumentConfig{
			Sink:     target.write,
			AssetDir: cfg.Templates.Dir,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return host, nil
	}

	bc := browserConfig(cfg, logger)
	bc.Headless = true
	bc.PDFSink = target.write
	return deps.BrowserHost(bc)
}
