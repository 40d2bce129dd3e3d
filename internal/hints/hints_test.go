package hints

// ForBrowserConnect and ForPreviewDisplay tests use t.Setenv and swap the
// package-level IsInContainer, so they cannot run in parallel.

import (
	"strings"
	"testing"
)

func withContainer(t *testing.T, inContainer bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return inContainer }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		container   bool
		env         map[string]string
		contains    []string
		notContains []string
	}{
		{
			name:      "CI without browser",
			container: false,
			env:       map[string]string{"CI": "true", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			contains:  []string{"hint:", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "--html-only"},
		},
		{
			name:        "docker with sandbox disabled",
			container:   true,
			env:         map[string]string{"CI": "", "ROD_NO_SANDBOX": "1", "ROD_BROWSER_BIN": ""},
			contains:    []string{"ROD_BROWSER_BIN"},
			notContains: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "desktop without browser bin",
			container:   false,
			env:         map[string]string{"CI": "", "GITHUB_ACTIONS": "", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			contains:    []string{"ROD_BROWSER_BIN"},
			notContains: []string{"ROD_NO_SANDBOX", "--html-only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withContainer(t, tt.container)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			hint := ForBrowserConnect()
			for _, want := range tt.contains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint %q missing %q", hint, want)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(hint, unwanted) {
					t.Errorf("hint %q should not contain %q", hint, unwanted)
				}
			}
		})
	}
}

func TestForBrowserConnect_AllConfigured(t *testing.T) {
	withContainer(t, true)
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("expected empty hint when all configured, got %q", hint)
	}
}

func TestForPreviewDisplay_WithDisplay(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	if hint := ForPreviewDisplay(); hint != "" {
		t.Errorf("expected no hint with a display, got %q", hint)
	}
}

func TestForTemplateNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available []string
		contains  string
	}{
		{"none registered", nil, "--no-builtins"},
		{"some registered", []string{"invoice", "report"}, "invoice, report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForTemplateNotFound(tt.available)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("hint %q missing %q", hint, tt.contains)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	hint := ForConfigNotFound([]string{"./work.yaml", "/home/u/.config/printview/work.yaml"})
	if !strings.Contains(hint, "--config") {
		t.Errorf("hint %q missing --config", hint)
	}
	if !strings.Contains(hint, "create /home/u/.config/printview/work.yaml") {
		t.Errorf("hint %q missing user config suggestion", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	for _, h := range []string{
		ForTimeout(),
		ForDataFile(),
		ForOutputDirectory(),
		ForTemplateNotFound(nil),
		ForConfigNotFound(nil),
	} {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
