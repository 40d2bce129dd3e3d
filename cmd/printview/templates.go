package main

import (
	"context"
	"fmt"

	printview "github.com/alnah/go-printview"
)

// runTemplates lists the registered templates with their descriptions.
func runTemplates(args []string, deps *Dependencies) error {
	flags, positional, err := parseTemplatesFlags(args, deps.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		printTemplatesUsage(deps.Stderr)
		return fmt.Errorf("%w: templates takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, deps.Stderr)
	if err != nil {
		return err
	}
	mergeTemplateFlags(flags.templates, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(flags.common, deps.Stderr)
	defer func() { _ = logger.Sync() }()

	// Listing never prints; the host only satisfies the printer.
	host, err := printview.NewDocumentHost(printview.DocumentConfig{
		Sink:     func(context.Context, string, []byte) error { return nil },
		AssetDir: cfg.Templates.Dir,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer closeHost(host, logger)

	printer, err := newPrinter(cfg, host, logger)
	if err != nil {
		return err
	}
	defer func() { _ = printer.Close() }()

	if flags.common.quiet {
		for _, key := range printer.RegisteredTemplates() {
			fmt.Fprintln(deps.Stdout, key)
		}
		return nil
	}

	printTemplateList(deps, printer)
	return nil
}

func printTemplateList(deps *Dependencies, printer *printview.Printer) {
	stats := printer.Stats()
	if stats.Count == 0 {
		fmt.Fprintln(deps.Stdout, "No templates registered")
		return
	}

	width := 0
	for _, key := range stats.Keys {
		width = max(width, len(key))
	}
	for _, d := range printer.Registry().Descriptors() {
		fmt.Fprintf(deps.Stdout, "  %-*s  %s\n", width, d.Key, d.Description)
	}

	noun := "templates"
	if stats.Count == 1 {
		noun = "template"
	}
	fmt.Fprintf(deps.Stdout, "\n%d %s\n", stats.Count, noun)
}
