package assets

// Names of the assets every loader is expected to resolve.
const (
	ShellTemplateName = "shell"
	BaseStyleName     = "base"
)

// descriptionsFile maps template names to human-readable descriptions.
const descriptionsFile = "descriptions.yaml"

// AssetLoader defines the contract for loading CSS styles and HTML templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// ListTemplates returns the names of the document templates, sorted.
	// The preview shell is not a document template and is never listed.
	ListTemplates() ([]string, error)

	// LoadDescriptions returns template descriptions keyed by name.
	// A missing descriptions file yields an empty map.
	LoadDescriptions() (map[string]string, error)
}
