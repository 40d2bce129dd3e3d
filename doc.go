// Package printview previews and prints HTML documents rendered from
// registered templates.
//
// # Quick Start
//
// Create a printer with the built-in templates, preview a document, and
// close the printer when done:
//
//	p, err := printview.NewPrinter(printview.WithBuiltinTemplates())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	err = p.Preview(ctx, printview.Request{
//	    TemplateKey: printview.TemplateInvoice,
//	    Data:        map[string]any{"number": "INV-1", "currency": "EUR"},
//	    Options:     &printview.PrintOptions{Watermark: "DRAFT"},
//	})
//
// Preview blocks until the preview window is closed. PrintDirect opens the
// same preview, prints it after a short delay, and closes it.
//
// # Templates
//
// A template is a Renderer registered under a key. It receives the
// caller's data and fully resolved Settings and returns an HTML fragment:
//
//	p.RegisterTemplate("label", printview.RendererFunc(
//	    func(ctx context.Context, data any, s printview.Settings) (string, error) {
//	        return "<p>" + html.EscapeString(s.Title) + "</p>", nil
//	    }), "Shipping label")
//
// ParseTemplate builds a Renderer from html/template source with the same
// helpers as the built-ins (field, formatMoney, formatDate, markdown, ...).
// WithTemplateDir registers every templates/*.html file of a directory.
//
// # Sessions
//
// Each preview is a Session that moves through opening, loading, ready or
// failed, and closed. A printer holds at most one active session: opening
// a new one closes the previous one. Loading failures are reported as
// *TemplatePreviewError and shown in place of the document.
//
// # Hosts
//
// A Host provides the preview surface. The default BrowserHost opens a
// Chromium window through go-rod and prints with the browser's print
// dialog; in headless mode it prints to PDF and hands the bytes to a
// PDFSink. DocumentHost needs no browser: it renders into an in-memory HTML
// document and hands the standalone document to a DocumentSink.
//
// # Parallel Processing
//
// For batch printing, use PrinterPool to manage one printer per worker:
//
//	pool := printview.NewPrinterPool(4, newHeadlessPrinter)
//	defer pool.Close()
//
//	p, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(p)
//	err = p.PrintDirect(ctx, req)
//
// # Browser Requirements
//
// BrowserHost requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package printview
