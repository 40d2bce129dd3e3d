package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  preview    Open a template in a browser window")
	fmt.Fprintln(w, "  print      Print a template to PDF (or HTML)")
	fmt.Fprintln(w, "  batch      Print every job of a jobs file")
	fmt.Fprintln(w, "  templates  List registered templates")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'printview help <command>' for details on a specific command.")
}

func printOptionFlags(w io.Writer) {
	fmt.Fprintln(w, "Templates:")
	fmt.Fprintln(w, "      --templates <dir>     Custom template directory")
	fmt.Fprintln(w, "      --no-builtins         Do not register invoice, report, table")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <size>    A4, Letter, Legal (default: A4)")
	fmt.Fprintln(w, "      --orientation <o>     portrait, landscape (default: portrait)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -T, --title <text>        Document title (default: Document)")
	fmt.Fprintln(w, "      --watermark <text>    Watermark text")
	fmt.Fprintln(w, "      --copies <n>          Requested copies (advisory)")
	fmt.Fprintln(w, "      --rtl                 Right-to-left layout")
	fmt.Fprintln(w, "      --no-header           Hide the document header")
	fmt.Fprintln(w, "      --no-footer           Hide the document footer")
	fmt.Fprintln(w, "      --page-numbers        Print page numbers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary (env: ROD_BROWSER_BIN)")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (env: ROD_NO_SANDBOX)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Page load timeout (default: 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printview preview <template> [data-file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open a template in a browser window and wait until it is closed.")
	fmt.Fprintln(w, "The window offers Print and Close buttons.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  template    Registered template key (see 'printview templates')")
	fmt.Fprintln(w, "  data-file   JSON or YAML data (optional)")
	fmt.Fprintln(w)
	printOptionFlags(w)
}

// printPrintUsage prints usage for the print command.
func printPrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printview print <template> [data-file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a template in a headless browser and print it to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  template    Registered template key (see 'printview templates')")
	fmt.Fprintln(w, "  data-file   JSON or YAML data (optional)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: <data-file>.pdf or <template>.pdf)")
	fmt.Fprintln(w, "      --html-only           Write the HTML document, no browser needed")
	fmt.Fprintln(w, "      --delay <dur>         Wait before printing (default: 250ms)")
	fmt.Fprintln(w)
	printOptionFlags(w)
}

// printBatchUsage prints usage for the batch command.
func printBatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printview batch <jobs-file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print every job of a YAML jobs file in parallel.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Jobs file:")
	fmt.Fprintln(w, "  jobs:")
	fmt.Fprintln(w, "    - template: invoice")
	fmt.Fprintln(w, "      dataFile: invoices/0042.yaml")
	fmt.Fprintln(w, "      output: out/0042.pdf")
	fmt.Fprintln(w, "      options: {watermark: COPY}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Directory for jobs without an output (default: jobs file directory)")
	fmt.Fprintln(w, "      --html-only           Write HTML documents, no browser needed")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel printers (default: auto)")
	fmt.Fprintln(w)
	printOptionFlags(w)
}

// printTemplatesUsage prints usage for the templates command.
func printTemplatesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printview templates [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List registered templates with their descriptions.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --templates <dir>     Custom template directory")
	fmt.Fprintln(w, "      --no-builtins         Do not register invoice, report, table")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only print template keys")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return
	}

	switch args[0] {
	case cmdPreview:
		printPreviewUsage(deps.Stdout)
	case cmdPrint:
		printPrintUsage(deps.Stdout)
	case cmdBatch:
		printBatchUsage(deps.Stdout)
	case cmdTemplates:
		printTemplatesUsage(deps.Stdout)
	case cmdVersion:
		fmt.Fprintln(deps.Stdout, "Usage: printview version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(deps.Stdout, "Usage: printview help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
	}
}
