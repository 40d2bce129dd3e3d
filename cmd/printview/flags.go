package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// templateFlags selects which templates are registered.
type templateFlags struct {
	dir        string
	noBuiltins bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
}

// documentFlags holds flags that fill PrintOptions. Toggles are pointers
// so that an unset flag leaves the config value in place.
type documentFlags struct {
	title       string
	watermark   string
	copies      int
	rtl         *bool
	header      *bool
	footer      *bool
	pageNumbers *bool
}

// browserFlags configures the Chrome instance.
type browserFlags struct {
	bin       string
	noSandbox bool
	timeout   string
}

// outputFlags holds output flags of the print and batch commands.
type outputFlags struct {
	path     string
	htmlOnly bool
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	common    commonFlags
	templates templateFlags
	page      pageFlags
	document  documentFlags
	browser   browserFlags
}

// printFlags holds all flags for the print command.
type printFlags struct {
	common    commonFlags
	templates templateFlags
	page      pageFlags
	document  documentFlags
	browser   browserFlags
	output    outputFlags
	delay     string
}

// batchFlags holds all flags for the batch command.
type batchFlags struct {
	common    commonFlags
	templates templateFlags
	page      pageFlags
	document  documentFlags
	browser   browserFlags
	output    outputFlags
	workers   int
}

// templatesFlags holds all flags for the templates command.
type templatesFlags struct {
	common    commonFlags
	templates templateFlags
}

// toggleFlags collects the raw values of the optional boolean flags.
type toggleFlags struct {
	rtl, noHeader, noFooter, pageNumbers bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
}

func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVar(&f.dir, "templates", "", "custom template directory")
	fs.BoolVar(&f.noBuiltins, "no-builtins", false, "do not register built-in templates")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: A4, Letter, Legal")
	fs.StringVar(&f.orientation, "orientation", "", "portrait or landscape")
}

func addDocumentFlags(fs *flag.FlagSet, f *documentFlags, t *toggleFlags) {
	fs.StringVarP(&f.title, "title", "T", "", "document title")
	fs.StringVar(&f.watermark, "watermark", "", "watermark text (e.g., DRAFT)")
	fs.IntVar(&f.copies, "copies", 0, "requested copies (advisory)")
	fs.BoolVar(&t.rtl, "rtl", false, "right-to-left layout")
	fs.BoolVar(&t.noHeader, "no-header", false, "hide the document header")
	fs.BoolVar(&t.noFooter, "no-footer", false, "hide the document footer")
	fs.BoolVar(&t.pageNumbers, "page-numbers", false, "print page numbers")
}

func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium binary")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (Docker/CI)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load timeout (e.g., 30s, 2m)")
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags, usage string) {
	fs.StringVarP(&f.path, "output", "o", "", usage)
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML instead of PDF (no browser)")
}

// resolveToggles turns the optional boolean flags into pointers, leaving
// the ones that were not passed nil.
func resolveToggles(fs *flag.FlagSet, t *toggleFlags, f *documentFlags) {
	if fs.Changed("rtl") {
		f.rtl = boolPtr(t.rtl)
	}
	if fs.Changed("no-header") {
		f.header = boolPtr(!t.noHeader)
	}
	if fs.Changed("no-footer") {
		f.footer = boolPtr(!t.noFooter)
	}
	if fs.Changed("page-numbers") {
		f.pageNumbers = boolPtr(t.pageNumbers)
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

func parsePreviewFlags(args []string, stderr io.Writer) (*previewFlags, []string, error) {
	fs := newFlagSet("preview", stderr, printPreviewUsage)
	f := &previewFlags{}
	var toggles toggleFlags

	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.templates)
	addPageFlags(fs, &f.page)
	addDocumentFlags(fs, &f.document, &toggles)
	addBrowserFlags(fs, &f.browser)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	resolveToggles(fs, &toggles, &f.document)
	return f, fs.Args(), nil
}

func parsePrintFlags(args []string, stderr io.Writer) (*printFlags, []string, error) {
	fs := newFlagSet("print", stderr, printPrintUsage)
	f := &printFlags{}
	var toggles toggleFlags

	addOutputFlags(fs, &f.output, "output file (default: data file with .pdf)")
	fs.StringVar(&f.delay, "delay", "", "wait before printing (e.g., 250ms)")
	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.templates)
	addPageFlags(fs, &f.page)
	addDocumentFlags(fs, &f.document, &toggles)
	addBrowserFlags(fs, &f.browser)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	resolveToggles(fs, &toggles, &f.document)
	return f, fs.Args(), nil
}

func parseBatchFlags(args []string, stderr io.Writer) (*batchFlags, []string, error) {
	fs := newFlagSet("batch", stderr, printBatchUsage)
	f := &batchFlags{}
	var toggles toggleFlags

	addOutputFlags(fs, &f.output, "output directory for jobs without an output")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel printers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.templates)
	addPageFlags(fs, &f.page)
	addDocumentFlags(fs, &f.document, &toggles)
	addBrowserFlags(fs, &f.browser)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	resolveToggles(fs, &toggles, &f.document)
	return f, fs.Args(), nil
}

func parseTemplatesFlags(args []string, stderr io.Writer) (*templatesFlags, []string, error) {
	fs := newFlagSet("templates", stderr, printTemplatesUsage)
	f := &templatesFlags{}

	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.templates)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
