package printview

import (
	"fmt"
	"strings"
)

// defaultFontFamily is the font stack of generated overlays.
const defaultFontFamily = "sans-serif"

// Watermark appearance. Options carry only the text.
const (
	watermarkFontSize = "7rem"
	watermarkColor    = "#888888"
	watermarkOpacity  = 0.15
	watermarkAngle    = -45.0
)

// pageMarginMM is the page margin of printed documents.
const pageMarginMM = 12

// paper is a page format in inches, portrait.
type paper struct {
	cssName string
	width   float64
	height  float64
}

var papers = map[string]paper{
	"a4":     {cssName: "A4", width: 8.27, height: 11.69},
	"letter": {cssName: "letter", width: 8.5, height: 11},
	"legal":  {cssName: "legal", width: 8.5, height: 14},
}

// paperFor returns the paper of size, falling back to A4 for unknown sizes.
// Landscape swaps width and height.
func paperFor(size PageSize, landscape bool) paper {
	p, ok := papers[strings.ToLower(strings.TrimSpace(string(size)))]
	if !ok {
		p = papers["a4"]
	}
	if landscape {
		p.width, p.height = p.height, p.width
	}
	return p
}

// buildPageCSS generates the @page rule for the paper size and orientation.
func buildPageCSS(s Settings) string {
	p := paperFor(s.PageSize, false)
	orientation := "portrait"
	if s.Landscape() {
		orientation = "landscape"
	}
	return fmt.Sprintf(`
/* Page setup */
@page {
  size: %s %s;
  margin: %dmm;
}
`, p.cssName, orientation, pageMarginMM)
}

// buildWatermarkCSS generates CSS for a diagonal background watermark.
// The watermark uses position:fixed to appear on all pages when printed.
func buildWatermarkCSS(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	return fmt.Sprintf(`
/* Watermark */
body::before {
  content: "%s";
  position: fixed;
  top: 50%%;
  left: 50%%;
  transform: translate(-50%%, -50%%) rotate(%.1fdeg);
  font-size: %s;
  font-weight: bold;
  color: %s;
  opacity: %.2f;
  z-index: -1;
  pointer-events: none;
  white-space: nowrap;
  font-family: %s;
}
`, escapeCSSString(breakURLPattern(text)), watermarkAngle, watermarkFontSize,
		watermarkColor, watermarkOpacity, defaultFontFamily)
}

// escapeCSSString escapes a string for safe use in a CSS content property.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "<", `\3C `)
	return s
}

// breakURLPattern replaces dots with ONE DOT LEADER (U+2024) so PDF viewers
// do not turn watermark text into clickable links.
func breakURLPattern(text string) string {
	return strings.ReplaceAll(text, ".", "․")
}
