package printview

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-printview/internal/templates"
)

// Built-in template keys registered by WithBuiltinTemplates.
const (
	TemplateInvoice = "invoice"
	TemplateReport  = "report"
	TemplateTable   = "table"
)

// documentTemplate adapts a parsed html/template document to Renderer.
type documentTemplate struct {
	tmpl *templates.Template
}

// Render executes the template with data and s exposed as .Data and
// .Options.
func (d documentTemplate) Render(ctx context.Context, data any, s Settings) (string, error) {
	return d.tmpl.Render(ctx, data, templateOptions(s))
}

// templateOptions converts settings to the options templates see.
func templateOptions(s Settings) templates.Options {
	return templates.Options{
		Orientation:     string(s.Orientation),
		PageSize:        string(s.PageSize),
		ShowHeader:      s.ShowHeader,
		ShowFooter:      s.ShowFooter,
		ShowPageNumbers: s.ShowPageNumbers,
		Title:           s.Title,
		HeaderData:      s.HeaderData,
		FooterData:      s.FooterData,
		RTL:             s.RTL,
		Watermark:       s.Watermark,
		Copies:          s.Copies,
	}
}

// ParseTemplate parses an html/template document into a Renderer. The
// template executes against .Data and .Options and may use the built-in
// helpers (field, default, formatMoney, formatDate, markdown...).
func ParseTemplate(name, content string) (Renderer, error) {
	tmpl, err := templates.Parse(name, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return documentTemplate{tmpl: tmpl}, nil
}

func registerBuiltins(r *Registry) error {
	entries, err := templates.Builtins()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	registerEntries(r, entries)
	return nil
}

func registerTemplateDir(r *Registry, dir string) error {
	entries, err := templates.LoadDir(dir)
	if err != nil {
		if errors.Is(err, templates.ErrParse) {
			return fmt.Errorf("%w: %v", ErrTemplateParse, err)
		}
		return fmt.Errorf("%w: %v", ErrTemplateDir, err)
	}
	registerEntries(r, entries)
	return nil
}

func registerEntries(r *Registry, entries []templates.Entry) {
	for _, e := range entries {
		r.Register(e.Name, documentTemplate{tmpl: e.Template}, e.Description)
	}
}
