package templates

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/alnah/go-printview/internal/pipeline"
)

// Template is a parsed document template. Safe for concurrent use.
type Template struct {
	name     string
	tmpl     *template.Template
	baseDir  string
	markdown pipeline.MarkdownConverter
}

// Option configures a Template.
type Option func(*config)

type config struct {
	baseDir  string
	markdown pipeline.MarkdownConverter
	now      func() time.Time
}

// WithBaseDir resolves relative img/link URLs in the output against dir.
func WithBaseDir(dir string) Option {
	return func(c *config) { c.baseDir = dir }
}

// WithMarkdown sets the converter behind the markdown helper.
func WithMarkdown(conv pipeline.MarkdownConverter) Option {
	return func(c *config) { c.markdown = conv }
}

// WithClock sets the clock used for "today" dates.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// defaultMarkdown is shared by templates without a converter of their own.
var defaultMarkdown = pipeline.NewGoldmarkConverter()

// Parse parses content as the template called name.
func Parse(name, content string, opts ...Option) (*Template, error) {
	cfg := config{markdown: defaultMarkdown, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := helpers{now: cfg.now}
	tmpl, err := template.New(name).Funcs(h.funcMap()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, name, err)
	}

	return &Template{
		name:     name,
		tmpl:     tmpl,
		baseDir:  cfg.baseDir,
		markdown: cfg.markdown,
	}, nil
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Render executes the template for data and opts and returns an HTML
// fragment.
func (t *Template) Render(ctx context.Context, data any, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := t.tmpl.Clone()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, t.name, err)
	}
	tmpl.Funcs(template.FuncMap{"markdown": t.markdownFunc(ctx)})

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, View{Data: data, Options: opts}); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, t.name, err)
	}

	out, err := pipeline.ResolveRelativeURLs(buf.String(), t.baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, t.name, err)
	}
	return out, nil
}

// markdownFunc binds the markdown helper to the render context.
// Rendered Markdown is trusted: goldmark escapes raw HTML.
func (t *Template) markdownFunc(ctx context.Context) func(any) (template.HTML, error) {
	return func(v any) (template.HTML, error) {
		text := display(v)
		if text == "" {
			return "", nil
		}
		out, err := t.markdown.ToFragment(ctx, text)
		if err != nil {
			return "", err
		}
		return template.HTML(out), nil // #nosec G203 -- goldmark output without unsafe mode
	}
}
