package printview

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-printview/internal/pipeline"
)

// DocumentSink receives the complete HTML document printed by a
// DocumentHost.
type DocumentSink func(ctx context.Context, title string, document []byte) error

// DocumentConfig configures a DocumentHost.
type DocumentConfig struct {
	// Sink receives printed documents. Required.
	Sink DocumentSink
	// AssetDir overrides the embedded shell and base style.
	AssetDir string
	Logger   *zap.Logger
}

// DocumentHost renders previews into in-memory HTML documents, without a
// browser. Printing hands the standalone document, styles included, to the
// sink. Views are not interactive.
type DocumentHost struct {
	shell  *shellBuilder
	sink   DocumentSink
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewDocumentHost creates a DocumentHost.
func NewDocumentHost(cfg DocumentConfig) (*DocumentHost, error) {
	if cfg.Sink == nil {
		return nil, ErrNoSink
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	shell, err := newShellBuilder(cfg.AssetDir)
	if err != nil {
		return nil, err
	}
	return &DocumentHost{shell: shell, sink: cfg.Sink, logger: cfg.Logger}, nil
}

// Open builds the shell document for s.
func (h *DocumentHost) Open(ctx context.Context, s Settings) (View, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, ErrHostClosed
	}

	doc, err := h.shell.build(ctx, s, false)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShellRender, err)
	}

	return &documentView{
		host:     h,
		root:     root,
		mount:    findByID(root, pipeline.DefaultMountID),
		settings: s,
	}, nil
}

// Close marks the host closed. Open views stay usable until closed.
func (h *DocumentHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// documentView is one parsed shell document.
type documentView struct {
	host     *DocumentHost
	settings Settings

	mu     sync.Mutex
	root   *html.Node
	mount  *html.Node
	closed bool
}

// Mount returns the mount element, or ErrMountPointMissing when the shell
// has none.
func (v *documentView) Mount(ctx context.Context) (Mount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrViewClosed
	}
	if v.mount == nil {
		return nil, ErrMountPointMissing
	}
	return &documentMount{view: v}, nil
}

// ShowError replaces the mount content, or the body when there is no
// mount, with an alert box.
func (v *documentView) ShowError(_ context.Context, msg string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}

	target := v.mount
	if target == nil {
		target = findElement(v.root, atom.Body)
	}
	if target == nil {
		return ErrMountPointMissing
	}

	box := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "class", Val: "printview-error"},
			{Key: "role", Val: "alert"},
		},
	}
	box.AppendChild(&html.Node{Type: html.TextNode, Data: msg})

	removeChildren(target)
	target.AppendChild(box)
	return nil
}

// Print renders the document and hands it to the sink.
func (v *documentView) Print(ctx context.Context) error {
	doc, err := v.document()
	if err != nil {
		return err
	}
	v.host.logger.Debug("document printed", zap.Int("bytes", len(doc)))
	return v.host.sink(ctx, v.settings.Title, doc)
}

// document renders the current tree.
func (v *documentView) document() ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrViewClosed
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, v.root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Actions returns nil: nobody acts on a document view.
func (v *documentView) Actions() <-chan Action { return nil }

// Interactive reports false.
func (v *documentView) Interactive() bool { return false }

// Close releases the tree.
func (v *documentView) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.root, v.mount = nil, nil
	return nil
}

// documentMount paints fragments into the mount node.
type documentMount struct {
	view *documentView
}

// Paint replaces the mount node's children with the parsed fragment.
func (m *documentMount) Paint(ctx context.Context, fragment string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v := m.view
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), v.mount)
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}

	removeChildren(v.mount)
	for _, n := range nodes {
		v.mount.AppendChild(n)
	}
	return nil
}

// findByID returns the first element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findElement returns the first element of the given kind.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}
