package templates

import (
	"fmt"
	"path/filepath"

	"github.com/alnah/go-printview/internal/assets"
)

// Entry is a loaded template with its description.
type Entry struct {
	Name        string
	Description string
	Template    *Template
}

// Builtins returns the embedded invoice, report and table templates.
func Builtins(opts ...Option) ([]Entry, error) {
	return load(assets.NewEmbeddedLoader(), opts...)
}

// LoadDir loads every {dir}/templates/*.html file, named by file stem,
// with descriptions from {dir}/templates/descriptions.yaml. Relative URLs
// in their output resolve against {dir}/templates.
func LoadDir(dir string, opts ...Option) ([]Entry, error) {
	loader, err := assets.NewFilesystemLoader(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	opts = append([]Option{WithBaseDir(filepath.Join(dir, "templates"))}, opts...)
	return load(loader, opts...)
}

func load(loader assets.AssetLoader, opts ...Option) ([]Entry, error) {
	names, err := loader.ListTemplates()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	descriptions, err := loader.LoadDescriptions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		content, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		tmpl, err := Parse(name, content, opts...)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:        name,
			Description: descriptions[name],
			Template:    tmpl,
		})
	}
	return entries, nil
}
