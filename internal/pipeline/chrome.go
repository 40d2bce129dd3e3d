package pipeline

import (
	"fmt"
	"html"
)

// marginFont matches the body font of the base style.
const marginFont = `"Helvetica Neue", Helvetica, Arial, sans-serif`

// emptyMargin keeps Chrome from printing its default date/URL bands.
const emptyMargin = "<span></span>"

// MarginData describes what Chrome prints in the PDF page margins.
// Chrome fills elements with the pageNumber, totalPages and title classes.
type MarginData struct {
	Title           string
	ShowTitle       bool
	ShowPageNumbers bool
	RTL             bool
}

// HeaderTemplate returns the Chrome header template for PDF output.
func HeaderTemplate(data MarginData) string {
	if !data.ShowTitle || data.Title == "" {
		return emptyMargin
	}
	return marginBox(data.RTL, "start", html.EscapeString(data.Title))
}

// FooterTemplate returns the Chrome footer template for PDF output.
func FooterTemplate(data MarginData) string {
	if !data.ShowPageNumbers {
		return emptyMargin
	}
	return marginBox(data.RTL, "end",
		`<span class="pageNumber"></span> / <span class="totalPages"></span>`)
}

// HasMargins reports whether Chrome needs to print header or footer bands.
func (d MarginData) HasMargins() bool {
	return (d.ShowTitle && d.Title != "") || d.ShowPageNumbers
}

func marginBox(rtl bool, align, content string) string {
	dir := "ltr"
	if rtl {
		dir = "rtl"
	}
	return fmt.Sprintf(
		`<div dir="%s" style="font-size: 8px; font-family: %s; color: #888; width: 100%%; text-align: %s; padding: 0 12mm;">%s</div>`,
		dir, marginFont, align, content)
}
