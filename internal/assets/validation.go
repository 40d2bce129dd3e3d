package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// templateNameFromFile returns the template name for an .html file name,
// or "" when the file is not a listable document template.
func templateNameFromFile(fileName string) string {
	name, ok := strings.CutSuffix(fileName, ".html")
	if !ok || name == ShellTemplateName {
		return ""
	}
	if ValidateAssetName(name) != nil {
		return ""
	}
	return name
}
