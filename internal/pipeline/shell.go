package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// DefaultMountID is the id of the element renderers paint into.
const DefaultMountID = "printview-root"

// ErrShellRender indicates the shell template failed to execute.
var ErrShellRender = errors.New("shell template rendering failed")

// ShellData fills the preview shell template.
type ShellData struct {
	Lang        string // html lang attribute, default "en"
	Dir         string // "ltr" or "rtl"
	Title       string
	Interactive bool // adds the toolbar and keyboard shortcuts
	MountID     string
}

// ShellRenderer renders the document that hosts a preview.
type ShellRenderer struct {
	tmpl *template.Template
}

// NewShellRenderer parses the shell template.
func NewShellRenderer(tmplContent string) (*ShellRenderer, error) {
	tmpl, err := template.New("shell").Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing shell template: %w", err)
	}
	return &ShellRenderer{tmpl: tmpl}, nil
}

// Render executes the shell template. Missing Lang, Dir and MountID get
// their defaults.
func (r *ShellRenderer) Render(ctx context.Context, data ShellData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if data.Lang == "" {
		data.Lang = "en"
	}
	if data.Dir != "rtl" {
		data.Dir = "ltr"
	}
	if data.MountID == "" {
		data.MountID = DefaultMountID
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrShellRender, err)
	}
	return buf.String(), nil
}
