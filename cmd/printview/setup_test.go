package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	printview "github.com/alnah/go-printview"
	"github.com/alnah/go-printview/internal/config"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults without a config", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadConfig(commonFlags{quiet: true}, io.Discard)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if !cfg.Templates.UseBuiltins() {
			t.Error("default config should register built-ins")
		}
	})

	t.Run("file path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "printview.yaml")
		content := "options:\n  pageSize: letter\n  watermark: DRAFT\nbrowser:\n  timeout: 45s\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := loadConfig(commonFlags{config: path, quiet: true}, io.Discard)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Options.PageSize != "letter" || cfg.Options.Watermark != "DRAFT" {
			t.Errorf("Options = %+v", cfg.Options)
		}
		if cfg.Browser.Timeout != "45s" {
			t.Errorf("Browser.Timeout = %q, want 45s", cfg.Browser.Timeout)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loadConfig(commonFlags{config: filepath.Join(t.TempDir(), "nope.yaml")}, io.Discard)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})
}

func TestMergeOptionFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Options.Title = "From config"
	cfg.Options.Watermark = "CONFIG"
	cfg.Options.ShowFooter = boolPtr(false)

	mergeOptionFlags(
		pageFlags{size: "Legal", orientation: "landscape"},
		documentFlags{watermark: "FLAG", copies: 3, rtl: boolPtr(true), header: boolPtr(false)},
		browserFlags{bin: "/bin/chrome", noSandbox: true, timeout: "1m"},
		cfg,
	)

	o := cfg.Options
	if o.PageSize != "Legal" || o.Orientation != "landscape" {
		t.Errorf("page = %q/%q", o.PageSize, o.Orientation)
	}
	if o.Title != "From config" {
		t.Errorf("Title = %q, an unset flag should keep the config value", o.Title)
	}
	if o.Watermark != "FLAG" {
		t.Errorf("Watermark = %q, the flag should win", o.Watermark)
	}
	if o.Copies != 3 {
		t.Errorf("Copies = %d, want 3", o.Copies)
	}
	if o.RTL == nil || !*o.RTL || o.ShowHeader == nil || *o.ShowHeader {
		t.Errorf("toggles RTL=%v ShowHeader=%v", o.RTL, o.ShowHeader)
	}
	if o.ShowFooter == nil || *o.ShowFooter {
		t.Error("ShowFooter should keep the config value")
	}
	if cfg.Browser.Bin != "/bin/chrome" || !cfg.Browser.NoSandbox || cfg.Browser.Timeout != "1m" {
		t.Errorf("Browser = %+v", cfg.Browser)
	}
}

func TestMergeTemplateFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeTemplateFlags(templateFlags{dir: "/tpl", noBuiltins: true}, cfg)

	if cfg.Templates.Dir != "/tpl" {
		t.Errorf("Templates.Dir = %q, want /tpl", cfg.Templates.Dir)
	}
	if cfg.Templates.UseBuiltins() {
		t.Error("--no-builtins should disable built-ins")
	}
}

func TestPrintOptions(t *testing.T) {
	t.Parallel()

	header := map[string]any{"Ref": "42"}
	opts := printOptions(config.OptionsConfig{
		Orientation: "LANDSCAPE",
		PageSize:    "letter",
		Title:       "Statement",
		ShowHeader:  boolPtr(false),
		HeaderData:  header,
		Copies:      2,
	})

	if opts.Orientation != printview.OrientationLandscape {
		t.Errorf("Orientation = %q, want landscape", opts.Orientation)
	}
	if opts.PageSize != printview.PageSizeLetter {
		t.Errorf("PageSize = %q, want Letter", opts.PageSize)
	}
	s := printview.ResolveOptions(opts)
	if s.Title != "Statement" || s.ShowHeader || !s.ShowFooter || s.Copies != 2 {
		t.Errorf("resolved settings = %+v", s)
	}
	if s.HeaderData["Ref"] != "42" {
		t.Errorf("HeaderData = %v", s.HeaderData)
	}

	empty := printview.ResolveOptions(printOptions(config.OptionsConfig{}))
	if empty.PageSize != printview.DefaultPageSize || empty.Orientation != printview.DefaultOrientation {
		t.Errorf("empty options should resolve to defaults, got %+v", empty)
	}
}

func TestMergeJobOptions(t *testing.T) {
	t.Parallel()

	base := &printview.PrintOptions{
		PageSize:  printview.PageSizeA4,
		Title:     "Base",
		Watermark: "DRAFT",
		RTL:       boolPtr(false),
	}

	t.Run("nil job keeps base", func(t *testing.T) {
		t.Parallel()
		got := mergeJobOptions(base, nil)
		if got == base {
			t.Error("merge should return a copy")
		}
		if got.Title != "Base" || got.Watermark != "DRAFT" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("job overrides", func(t *testing.T) {
		t.Parallel()
		got := mergeJobOptions(base, &printview.PrintOptions{
			Orientation: printview.OrientationLandscape,
			Title:       "Job",
			RTL:         boolPtr(true),
			Copies:      4,
		})
		if got.Orientation != printview.OrientationLandscape || got.Title != "Job" || got.Copies != 4 {
			t.Errorf("got %+v", got)
		}
		if got.RTL == nil || !*got.RTL {
			t.Error("RTL should come from the job")
		}
		if got.PageSize != printview.PageSizeA4 || got.Watermark != "DRAFT" {
			t.Errorf("unset job fields should keep base values, got %+v", got)
		}
		if base.Title != "Base" {
			t.Error("base must not be modified")
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     commonFlags
		wantWarn  bool
		wantDebug bool
	}{
		{"default", commonFlags{}, true, false},
		{"verbose", commonFlags{verbose: true}, true, true},
		{"quiet", commonFlags{quiet: true}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := newLogger(tt.flags, &buf)
			logger.Warn("warn message")
			logger.Debug("debug message")

			out := buf.String()
			if got := strings.Contains(out, "warn message"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v (output %q)", got, tt.wantWarn, out)
			}
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v (output %q)", got, tt.wantDebug, out)
			}
		})
	}
}

func TestNewPrinter_TemplateSelection(t *testing.T) {
	t.Parallel()

	host := newFakeBrowserHost(printview.BrowserConfig{})

	cfg := config.DefaultConfig()
	p, err := newPrinter(cfg, host, nil)
	if err != nil {
		t.Fatalf("newPrinter() error = %v", err)
	}
	defer func() { _ = p.Close() }()
	if !p.HasTemplate(printview.TemplateInvoice) {
		t.Error("built-ins should be registered by default")
	}

	builtins := false
	cfg.Templates.Builtins = &builtins
	empty, err := newPrinter(cfg, host, nil)
	if err != nil {
		t.Fatalf("newPrinter() error = %v", err)
	}
	defer func() { _ = empty.Close() }()
	if empty.Stats().Count != 0 {
		t.Errorf("Stats().Count = %d, want 0", empty.Stats().Count)
	}
	if host.isClosed() {
		t.Error("closing a printer must not close the host")
	}
}
