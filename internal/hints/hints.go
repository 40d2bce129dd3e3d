// Package hints appends actionable advice to CLI error messages.
// Every hint is formatted as "\n  hint: <text>".
package hints

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-printview/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch and connection errors.
// Headless-only environments without a configured browser also get a
// pointer to --html-only, which needs no browser at all.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
	sandboxed := inCI || IsInContainer()

	if sandboxed && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a local Chrome")
		if sandboxed {
			hints = append(hints, "or print with --html-only")
		}
	}

	return formatHints(hints)
}

// ForPreviewDisplay returns a hint for preview windows that cannot open.
func ForPreviewDisplay() string {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" && !isDesktopOS() {
		return format("preview needs a display; use 'printview print' instead")
	}
	return ""
}

// ForTimeout returns a hint about increasing the timeout.
func ForTimeout() string {
	return format("for slow templates or large data, use --timeout")
}

// ForTemplateNotFound lists the templates that can be used instead.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return format("no templates registered; drop --no-builtins or use --templates DIR")
	}
	return format("available: " + strings.Join(available, ", ") + " (see 'printview templates')")
}

// ForConfigNotFound suggests --config and the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), ".config/printview") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForDataFile returns a hint for unreadable data files.
func ForDataFile() string {
	return format("data files are JSON or YAML objects, e.g. {\"number\": \"INV-1\"}")
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// isDesktopOS reports platforms where a display is always available.
func isDesktopOS() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
