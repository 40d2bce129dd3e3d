package printview

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	"github.com/alnah/go-printview/internal/fileutil"
	"github.com/alnah/go-printview/internal/pipeline"
	"github.com/alnah/go-printview/internal/process"
)

// PDFSink receives the document printed by a headless browser host.
type PDFSink func(ctx context.Context, title string, pdf []byte) error

// BrowserConfig configures a BrowserHost.
type BrowserConfig struct {
	// Headless prints to PDF instead of opening a visible window.
	Headless bool
	// Bin is the browser executable. Defaults to ROD_BROWSER_BIN, then to
	// a browser rod finds or downloads.
	Bin string
	// NoSandbox disables the Chromium sandbox. Forced in CI, with
	// ROD_NO_SANDBOX, and whenever a browser binary is set.
	NoSandbox bool
	// Timeout bounds page loads. Defaults to 30s.
	Timeout time.Duration
	// AssetDir overrides the embedded shell and base style.
	AssetDir string
	// PDFSink receives headless prints. Required when Headless is set.
	PDFSink PDFSink
	Logger  *zap.Logger
}

// PDF page margins in inches.
const (
	marginInches           = 0.5
	marginInchesWithChrome = 0.75 // room for Chrome's header/footer band
)

// printBinding is the page function the toolbar calls with "print" or "close".
const printBinding = "printviewAction"

const actionBuffer = 4

const (
	windowedPrintScript = `() => { setTimeout(() => window.print(), 0) }`
	paintScript         = `function (html) { this.innerHTML = html }`
)

const showErrorScript = `(id, msg) => {
  const root = document.getElementById(id) || document.body;
  root.replaceChildren();
  const box = document.createElement("div");
  box.className = "printview-error";
  box.setAttribute("role", "alert");
  box.textContent = msg;
  root.appendChild(box);
}`

// BrowserHost opens preview views as tabs of a Chromium browser driven
// with go-rod. The browser is launched on first use and shared by every
// view. Windowed views are interactive and print with window.print();
// headless views print to PDF.
type BrowserHost struct {
	cfg    BrowserConfig
	shell  *shellBuilder
	logger *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool
}

// NewBrowserHost creates a BrowserHost. The browser itself starts with the
// first Open.
func NewBrowserHost(cfg BrowserConfig) (*BrowserHost, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Headless && cfg.PDFSink == nil {
		return nil, ErrNoSink
	}

	shell, err := newShellBuilder(cfg.AssetDir)
	if err != nil {
		return nil, err
	}

	return &BrowserHost{
		cfg:    cfg,
		shell:  shell,
		logger: cfg.Logger,
	}, nil
}

// ensureBrowser lazily launches and connects to the browser.
func (h *BrowserHost) ensureBrowser() (*rod.Browser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHostClosed
	}
	if h.browser != nil {
		return h.browser, nil
	}

	l := launcher.New().Headless(h.cfg.Headless)

	bin := h.cfg.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if h.cfg.NoSandbox || bin != "" || os.Getenv("CI") == "true" || envTrue("ROD_NO_SANDBOX") {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(browser); err != nil {
		h.logger.Debug("target discovery unavailable", zap.Error(err))
	}

	h.browser = browser
	h.launcher = l
	h.logger.Debug("browser launched",
		zap.Int("pid", l.PID()),
		zap.Bool("headless", h.cfg.Headless))
	return browser, nil
}

// Open loads a fresh preview shell in a new tab.
func (h *BrowserHost) Open(ctx context.Context, s Settings) (View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := h.ensureBrowser()
	if err != nil {
		return nil, err
	}

	interactive := !h.cfg.Headless
	doc, err := h.shell.build(ctx, s, interactive)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	vctx, cancel := context.WithCancel(context.Background())
	v := &browserView{
		host:        h,
		page:        page,
		settings:    s,
		interactive: interactive,
		cleanup:     cleanup,
		cancel:      cancel,
	}

	if interactive {
		v.actions = make(chan Action, actionBuffer)
		if err := v.bridgeActions(vctx, browser); err != nil {
			_ = v.Close()
			return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
		}
	}

	// Wait for page to load with timeout from context or default
	timeout := h.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = v.Close()
			return nil, context.DeadlineExceeded
		}
	}

	loader := page.Context(ctx).Timeout(timeout)
	if err := loader.Navigate("file://" + tmpPath); err != nil {
		_ = v.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := loader.WaitLoad(); err != nil {
		_ = v.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return v, nil
}

// Close closes the browser and kills its process group.
func (h *BrowserHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.browser == nil {
		return nil
	}

	err := h.browser.Close()
	if pid := h.launcher.PID(); pid > 0 {
		if kerr := process.KillProcessGroup(pid); kerr != nil {
			h.logger.Debug("killing browser process group", zap.Int("pid", pid), zap.Error(kerr))
		}
	}
	h.launcher.Kill()
	h.launcher.Cleanup()
	h.browser = nil
	return err
}

// buildPDFOptions maps settings onto Chrome's print-to-PDF parameters.
func buildPDFOptions(s Settings) *proto.PagePrintToPDF {
	p := paperFor(s.PageSize, false)
	margins := pipeline.MarginData{
		Title:           s.Title,
		ShowTitle:       s.ShowHeader,
		ShowPageNumbers: s.ShowPageNumbers,
		RTL:             s.RTL,
	}

	vertical := marginInches
	if margins.HasMargins() {
		vertical = marginInchesWithChrome
	}

	opts := &proto.PagePrintToPDF{
		Landscape:       s.Landscape(),
		PaperWidth:      floatPtr(p.width),
		PaperHeight:     floatPtr(p.height),
		MarginTop:       floatPtr(vertical),
		MarginBottom:    floatPtr(vertical),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}

	if margins.HasMargins() {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = pipeline.HeaderTemplate(margins)
		opts.FooterTemplate = pipeline.FooterTemplate(margins)
	}
	return opts
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

func envTrue(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

// browserView is one browser tab.
type browserView struct {
	host        *BrowserHost
	page        *rod.Page
	settings    Settings
	interactive bool
	cleanup     func()
	cancel      context.CancelFunc

	actionsMu     sync.Mutex
	actions       chan Action
	actionsClosed bool
	stopExpose    func() error

	closeOnce sync.Once
}

// bridgeActions exposes the toolbar binding to the page and watches for
// the tab being closed by the user.
func (v *browserView) bridgeActions(ctx context.Context, browser *rod.Browser) error {
	stop, err := v.page.Expose(printBinding, func(arg gson.JSON) (any, error) {
		switch arg.Str() {
		case "print":
			v.send(ActionPrint)
		case "close":
			v.send(ActionClose)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	v.stopExpose = stop

	targetID := v.page.TargetID
	wait := browser.Context(ctx).EachEvent(func(e *proto.TargetTargetDestroyed) bool {
		return e.TargetID == targetID
	})
	go func() {
		wait()
		v.closeActions()
	}()
	return nil
}

func (v *browserView) send(a Action) {
	v.actionsMu.Lock()
	defer v.actionsMu.Unlock()
	if v.actionsClosed {
		return
	}
	select {
	case v.actions <- a:
	default:
	}
}

func (v *browserView) closeActions() {
	v.actionsMu.Lock()
	defer v.actionsMu.Unlock()
	if v.actions == nil || v.actionsClosed {
		return
	}
	v.actionsClosed = true
	close(v.actions)
}

// Mount finds the element renderers paint into.
func (v *browserView) Mount(ctx context.Context) (Mount, error) {
	has, el, err := v.page.Context(ctx).Has("#" + pipeline.DefaultMountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if !has {
		return nil, ErrMountPointMissing
	}
	return &browserMount{page: v.page, el: el}, nil
}

// ShowError replaces the preview with msg.
func (v *browserView) ShowError(ctx context.Context, msg string) error {
	_, err := v.page.Context(ctx).Eval(showErrorScript, pipeline.DefaultMountID, msg)
	return err
}

// Print opens the print dialog of a windowed view, or prints a headless
// view to PDF and hands it to the host's sink.
func (v *browserView) Print(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	page := v.page.Context(ctx)

	if v.interactive {
		_, err := page.Eval(windowedPrintScript)
		return err
	}

	reader, err := page.PDF(buildPDFOptions(v.settings))
	if err != nil {
		return err
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading PDF stream: %w", err)
	}
	return v.host.cfg.PDFSink(ctx, v.settings.Title, pdf)
}

// Actions delivers toolbar and tab-close events. Nil when headless.
func (v *browserView) Actions() <-chan Action {
	if v.actions == nil {
		return nil
	}
	return v.actions
}

// Interactive reports whether the view is a visible window.
func (v *browserView) Interactive() bool { return v.interactive }

// Close closes the tab and removes its shell file.
func (v *browserView) Close() error {
	var err error
	v.closeOnce.Do(func() {
		v.cancel()
		if v.stopExpose != nil {
			_ = v.stopExpose()
		}
		v.closeActions()
		err = v.page.Close()
		v.cleanup()
	})
	return err
}

// browserMount paints into the mount element of a tab.
type browserMount struct {
	page *rod.Page
	el   *rod.Element
}

// Paint replaces the mount element's content and waits for a repaint.
func (m *browserMount) Paint(ctx context.Context, fragment string) error {
	if _, err := m.el.Context(ctx).Eval(paintScript, fragment); err != nil {
		return err
	}
	return m.page.Context(ctx).WaitRepaint()
}
