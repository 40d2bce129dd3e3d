package printview

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Orientation selects the page orientation of the printed document.
type Orientation string

// Orientation values.
const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PageSize names a paper format.
type PageSize string

// Page size values.
const (
	PageSizeA4     PageSize = "A4"
	PageSizeLetter PageSize = "Letter"
	PageSizeLegal  PageSize = "Legal"
)

// Documented option defaults.
const (
	DefaultOrientation = OrientationPortrait
	DefaultPageSize    = PageSizeA4
	DefaultTitle       = "Document"
	DefaultCopies      = 1
)

// PrintOptions is the caller-facing, partially filled set of print options.
// Zero values and nil pointers mean "use the default".
type PrintOptions struct {
	Orientation     Orientation    `yaml:"orientation" json:"orientation"`
	PageSize        PageSize       `yaml:"pageSize" json:"pageSize"`
	ShowHeader      *bool          `yaml:"showHeader" json:"showHeader"`
	ShowFooter      *bool          `yaml:"showFooter" json:"showFooter"`
	ShowPageNumbers *bool          `yaml:"showPageNumbers" json:"showPageNumbers"`
	Title           string         `yaml:"title" json:"title"`
	HeaderData      map[string]any `yaml:"headerData" json:"headerData"`
	FooterData      map[string]any `yaml:"footerData" json:"footerData"`
	RTL             *bool          `yaml:"rtl" json:"rtl"`
	Watermark       string         `yaml:"watermark" json:"watermark"`
	Copies          int            `yaml:"copies" json:"copies"` // advisory only
}

// Settings is the fully populated option set every renderer and host sees.
type Settings struct {
	Orientation     Orientation
	PageSize        PageSize
	ShowHeader      bool
	ShowFooter      bool
	ShowPageNumbers bool
	Title           string
	HeaderData      map[string]any
	FooterData      map[string]any
	RTL             bool
	Watermark       string
	Copies          int
}

// Landscape reports whether the settings request landscape orientation.
func (s Settings) Landscape() bool {
	return strings.EqualFold(string(s.Orientation), string(OrientationLandscape))
}

// Direction returns the HTML dir attribute value.
func (s Settings) Direction() string {
	if s.RTL {
		return "rtl"
	}
	return "ltr"
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Orientation:     DefaultOrientation,
		PageSize:        DefaultPageSize,
		ShowHeader:      true,
		ShowFooter:      true,
		ShowPageNumbers: false,
		Title:           DefaultTitle,
		RTL:             false,
		Copies:          DefaultCopies,
	}
}

// ResolveOptions merges o over the defaults. The merge is shallow: header
// and footer data maps are passed through as-is, neither merged nor copied.
// A nil o yields DefaultSettings.
func ResolveOptions(o *PrintOptions) Settings {
	s := DefaultSettings()
	if o == nil {
		return s
	}
	if o.Orientation != "" {
		s.Orientation = o.Orientation
	}
	if o.PageSize != "" {
		s.PageSize = o.PageSize
	}
	if o.ShowHeader != nil {
		s.ShowHeader = *o.ShowHeader
	}
	if o.ShowFooter != nil {
		s.ShowFooter = *o.ShowFooter
	}
	if o.ShowPageNumbers != nil {
		s.ShowPageNumbers = *o.ShowPageNumbers
	}
	if o.Title != "" {
		s.Title = o.Title
	}
	if o.RTL != nil {
		s.RTL = *o.RTL
	}
	if o.Copies > 0 {
		s.Copies = o.Copies
	}
	s.HeaderData = o.HeaderData
	s.FooterData = o.FooterData
	s.Watermark = o.Watermark
	return s
}

// Bool returns a pointer to v, for the optional PrintOptions toggles.
func Bool(v bool) *bool {
	return &v
}

// Request identifies a template and the data and options to render it with.
type Request struct {
	TemplateKey string
	Data        any
	Options     *PrintOptions
}

// Stats summarizes the registered templates.
type Stats struct {
	Count int
	Keys  []string
}

// Option configures a Printer.
type Option func(*Printer)

// printerConfig holds internal configuration for Printer.
type printerConfig struct {
	printDelay  time.Duration
	timeout     time.Duration
	builtins    bool
	templateDir string
}

// Defaults for Printer configuration.
const (
	// defaultPrintDelay lets pending layout settle before printing.
	defaultPrintDelay = 250 * time.Millisecond
	defaultTimeout    = 30 * time.Second
)

// WithHost sets the render host. The default is a windowed BrowserHost.
// The printer does not close injected hosts.
func WithHost(h Host) Option {
	return func(p *Printer) {
		p.host = h
	}
}

// WithLogger sets the logger used by the printer and its registry.
func WithLogger(l *zap.Logger) Option {
	return func(p *Printer) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPrintDelay sets the settle delay applied before every print, both
// for Print and for the scheduled print of PrintDirect.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithPrintDelay(d time.Duration) Option {
	if d < 0 {
		panic("printview: WithPrintDelay duration must not be negative")
	}
	return func(p *Printer) {
		p.cfg.printDelay = d
	}
}

// WithTimeout sets the page load timeout of the default browser host.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("printview: WithTimeout duration must be positive")
	}
	return func(p *Printer) {
		p.cfg.timeout = d
	}
}

// WithBuiltinTemplates registers the invoice, report and table templates.
func WithBuiltinTemplates() Option {
	return func(p *Printer) {
		p.cfg.builtins = true
	}
}

// WithTemplateDir registers every templates/*.html file found under dir,
// keyed by file name without extension. Registered after built-ins, so a
// custom "invoice.html" replaces the built-in invoice. The default browser
// host also picks up styles/base.css and templates/shell.html from dir.
func WithTemplateDir(dir string) Option {
	return func(p *Printer) {
		p.cfg.templateDir = dir
	}
}
