package printview

import (
	"context"
	"fmt"

	"github.com/alnah/go-printview/internal/assets"
	"github.com/alnah/go-printview/internal/pipeline"
)

// shellBuilder assembles the HTML document a view displays before any
// template is painted: shell markup, base style, code highlighting, page
// setup and watermark. Safe for concurrent use.
type shellBuilder struct {
	renderer     *pipeline.ShellRenderer
	injector     pipeline.CSSInjector
	baseCSS      string
	highlightCSS string
}

// newShellBuilder loads the shell template and base style, preferring
// {assetDir}/templates/shell.html and {assetDir}/styles/base.css when
// assetDir is set.
func newShellBuilder(assetDir string) (*shellBuilder, error) {
	resolver, err := assets.NewAssetResolver(assetDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateDir, err)
	}

	shellContent, err := resolver.LoadTemplate(assets.ShellTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShellRender, err)
	}
	renderer, err := pipeline.NewShellRenderer(shellContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShellRender, err)
	}

	baseCSS, err := resolver.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShellRender, err)
	}

	highlightCSS, err := pipeline.HighlightCSS()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShellRender, err)
	}

	return &shellBuilder{
		renderer:     renderer,
		injector:     &pipeline.CSSInjection{},
		baseCSS:      baseCSS,
		highlightCSS: highlightCSS,
	}, nil
}

// build renders the shell for s. Interactive shells carry the toolbar.
func (b *shellBuilder) build(ctx context.Context, s Settings, interactive bool) (string, error) {
	doc, err := b.renderer.Render(ctx, pipeline.ShellData{
		Dir:         s.Direction(),
		Title:       s.Title,
		Interactive: interactive,
		MountID:     pipeline.DefaultMountID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrShellRender, err)
	}

	css := pipeline.JoinCSS(
		b.baseCSS,
		b.highlightCSS,
		buildPageCSS(s),
		buildWatermarkCSS(s.Watermark),
	)
	return b.injector.InjectCSS(ctx, doc, css), nil
}
