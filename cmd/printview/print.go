package main

import (
	"context"
	"fmt"
	"time"

	printview "github.com/alnah/go-printview"
)

// runPrint renders a template without user interaction and writes the
// printed document to a file.
func runPrint(ctx context.Context, args []string, deps *Dependencies) error {
	flags, positional, err := parsePrintFlags(args, deps.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) < 1 || len(positional) > 2 {
		printPrintUsage(deps.Stderr)
		return fmt.Errorf("%w: print takes <template> [data-file]", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, deps.Stderr)
	if err != nil {
		return err
	}
	mergeTemplateFlags(flags.templates, cfg)
	mergeOptionFlags(flags.page, flags.document, flags.browser, cfg)
	if flags.delay != "" {
		cfg.Print.Delay = flags.delay
	}
	if flags.output.htmlOnly {
		cfg.Print.HTMLOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(flags.common, deps.Stderr)
	defer func() { _ = logger.Sync() }()

	key, dataFile := positional[0], ""
	if len(positional) == 2 {
		dataFile = positional[1]
	}
	data, err := loadData(dataFile)
	if err != nil {
		return err
	}

	outPath := resolveOutputPath(flags.output.path, cfg.Print.OutputDir, dataFile, key, outputExt(cfg.Print.HTMLOnly))
	target := &outputTarget{}
	target.set(outPath)

	host, err := newOutputHost(cfg, target, deps, logger)
	if err != nil {
		return err
	}
	defer closeHost(host, logger)

	printer, err := newPrinter(cfg, host, logger)
	if err != nil {
		return err
	}
	defer func() { _ = printer.Close() }()

	start := deps.Now()
	err = printer.PrintDirect(ctx, printview.Request{
		TemplateKey: key,
		Data:        data,
		Options:     printOptions(cfg.Options),
	})
	if err != nil {
		return err
	}
	if !target.done() {
		return fmt.Errorf("%w: %s was not printed", ErrWriteOutput, outPath)
	}

	switch {
	case flags.common.quiet:
	case flags.common.verbose:
		fmt.Fprintf(deps.Stdout, "%s -> %s (%v)\n", key, outPath, deps.Now().Sub(start).Round(time.Millisecond))
	default:
		fmt.Fprintf(deps.Stdout, "Created %s\n", outPath)
	}
	return nil
}
