package main

import (
	"context"
	"errors"
	"fmt"

	printview "github.com/alnah/go-printview"
	"go.uber.org/zap"
)

// runPreview opens a template in a browser window and waits for the user
// to close it. Interrupting the command closes the window.
func runPreview(ctx context.Context, args []string, deps *Dependencies) error {
	flags, positional, err := parsePreviewFlags(args, deps.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) < 1 || len(positional) > 2 {
		printPreviewUsage(deps.Stderr)
		return fmt.Errorf("%w: preview takes <template> [data-file]", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, deps.Stderr)
	if err != nil {
		return err
	}
	mergeTemplateFlags(flags.templates, cfg)
	mergeOptionFlags(flags.page, flags.document, flags.browser, cfg)
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

	host, err := deps.BrowserHost(browserConfig(cfg, logger))
	if err != nil {
		return err
	}
	defer closeHost(host, logger)

	printer, err := newPrinter(cfg, host, logger)
	if err != nil {
		return err
	}
	defer func() { _ = printer.Close() }()

	if !flags.common.quiet {
		fmt.Fprintf(deps.Stdout, "Previewing %s, close the window to exit\n", key)
	}

	err = printer.Preview(ctx, printview.Request{
		TemplateKey: key,
		Data:        data,
		Options:     printOptions(cfg.Options),
	})
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// closeHost releases a host the command created.
func closeHost(host printview.Host, logger *zap.Logger) {
	if err := host.Close(); err != nil {
		logger.Debug("closing host", zap.Error(err))
	}
}
