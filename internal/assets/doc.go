// Package assets provides the CSS styles and HTML templates used to build
// print previews. Assets can be loaded from embedded files or custom
// filesystem paths.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the preview shell, the base style and the
// built-in invoice, report and table templates.
//
// FilesystemLoader lets users provide their own templates and styles from
// a directory, with path traversal protection and symlink resolution.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css             # CSS styles (base.css overrides the built-in)
//	└── templates/
//	    ├── {name}.html            # one document template per file
//	    └── descriptions.yaml      # optional: {name}: description
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
