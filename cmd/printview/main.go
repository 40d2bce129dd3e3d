package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdPreview   = "preview"
	cmdPrint     = "print"
	cmdBatch     = "batch"
	cmdTemplates = "templates"
	cmdVersion   = "version"
	cmdHelp      = "help"
)

func main() {
	args := os.Args[1:]

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if slices.Contains(args, "--verbose") || slices.Contains(args, "-v") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	deps := DefaultDeps()

	err := run(ctx, args, deps)
	stop()
	if err != nil {
		cmd := ""
		if len(args) > 0 {
			cmd = args[0]
		}
		fmt.Fprintln(deps.Stderr, formatError(err, cmd))
	}
	os.Exit(exitCodeFor(err))
}

// run dispatches args to a command.
func run(ctx context.Context, args []string, deps *Dependencies) error {
	if len(args) == 0 {
		printUsage(deps.Stderr)
		return ErrUsage
	}

	var err error
	switch args[0] {
	case cmdPreview:
		err = runPreview(ctx, args[1:], deps)
	case cmdPrint:
		err = runPrint(ctx, args[1:], deps)
	case cmdBatch:
		err = runBatch(ctx, args[1:], deps)
	case cmdTemplates:
		err = runTemplates(args[1:], deps)
	case cmdVersion:
		fmt.Fprintf(deps.Stdout, "printview %s\n", Version)
	case cmdHelp, "-h", "--help":
		runHelp(args[1:], deps)
	default:
		printUsage(deps.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	// -h/--help inside a command already printed its usage
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// flagError marks a flag parsing failure as a usage error. Help requests
// pass through unchanged.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}
