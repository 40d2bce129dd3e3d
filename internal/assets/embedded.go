package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/alnah/go-printview/internal/yamlutil"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadTemplate loads an HTML template from embedded assets by name.
// The name should not include the .html extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// ListTemplates returns the embedded document template names.
func (e *EmbeddedLoader) ListTemplates() ([]string, error) {
	entries, err := fs.ReadDir(templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := templateNameFromFile(entry.Name()); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadDescriptions parses the embedded descriptions file.
func (e *EmbeddedLoader) LoadDescriptions() (map[string]string, error) {
	data, err := templates.ReadFile("templates/" + descriptionsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return parseDescriptions(data)
}

// parseDescriptions decodes a name -> description YAML mapping.
func parseDescriptions(data []byte) (map[string]string, error) {
	out := map[string]string{}
	if len(data) == 0 {
		return out, nil
	}
	if err := yamlutil.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptions, err)
	}
	return out, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
