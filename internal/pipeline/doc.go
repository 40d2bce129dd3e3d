// Package pipeline builds the HTML that preview hosts load and print.
//
// Stages:
//   - shell rendering (toolbar, mount point, language and direction)
//   - CSS injection into the shell head
//   - Markdown fragments for report sections, via Goldmark
//   - relative URL rewriting for templates loaded from disk
//   - Chrome header and footer templates for PDF output
//
// Hosts in the root printview package drive the stages; nothing here
// talks to a browser.
package pipeline
