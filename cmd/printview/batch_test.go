package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	printview "github.com/alnah/go-printview"
	"github.com/alnah/go-printview/internal/config"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// TestLoadJobs - Jobs file parsing
// ---------------------------------------------------------------------------

func TestLoadJobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "jobs.yaml"), `jobs:
  - template: invoice
    dataFile: data/inv.yaml
    output: out/inv.pdf
    options:
      watermark: COPY
      orientation: landscape
      showHeader: false
  - template: report
    data:
      title: Inline
    output: /abs/report.pdf
`)

	jobs, err := loadJobs(path)
	if err != nil {
		t.Fatalf("loadJobs() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len(jobs) = %d, want 2", len(jobs))
	}

	first := jobs[0]
	if first.DataFile != filepath.Join(dir, "data", "inv.yaml") {
		t.Errorf("DataFile = %q, should resolve against the jobs file", first.DataFile)
	}
	if first.Output != filepath.Join(dir, "out", "inv.pdf") {
		t.Errorf("Output = %q", first.Output)
	}
	if first.Options == nil || first.Options.Watermark != "COPY" || first.Options.Orientation != printview.OrientationLandscape {
		t.Errorf("Options = %+v", first.Options)
	}
	if first.Options.ShowHeader == nil || *first.Options.ShowHeader {
		t.Error("showHeader: false should decode to a false pointer")
	}

	second := jobs[1]
	if second.Data["title"] != "Inline" {
		t.Errorf("Data = %v", second.Data)
	}
	if second.Output != "/abs/report.pdf" {
		t.Errorf("absolute Output changed to %q", second.Output)
	}
}

func TestLoadJobs_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"missing template", "jobs:\n  - dataFile: a.yaml\n", ErrInvalidJob},
		{"data and dataFile", "jobs:\n  - template: invoice\n    data: {number: 1}\n    dataFile: a.yaml\n", ErrInvalidJob},
		{"unknown field", "jobs:\n  - template: invoice\n    colour: red\n", ErrReadJobs},
		{"unknown option", "jobs:\n  - template: invoice\n    options: {margin: 3}\n", ErrReadJobs},
		{"empty file", "", ErrReadJobs},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, filepath.Join(dir, fmt.Sprintf("jobs-%d.yaml", i)), tt.content)
			_, err := loadJobs(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("loadJobs() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loadJobs(filepath.Join(dir, "nope.yaml"))
		if !errors.Is(err, ErrReadJobs) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("loadJobs() error = %v, want ErrReadJobs wrapping os.ErrNotExist", err)
		}
	})
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 32} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, 33} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunBatch - batch command
// ---------------------------------------------------------------------------

func TestRunBatch_HTMLOnly(t *testing.T) {
	t.Parallel()
	deps, stdout, _, recorder := testDeps(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "inv-1.yaml"), invoiceData)
	jobsPath := writeFile(t, filepath.Join(dir, "jobs.yaml"), `jobs:
  - template: invoice
    dataFile: data/inv-1.yaml
  - template: report
    data:
      title: Quarterly
  - template: table
    output: custom/table.html
    options:
      title: Stock
`)
	outDir := filepath.Join(dir, "out")

	err := run(context.Background(), []string{"batch", jobsPath, "--html-only", "-o", outDir, "-w", "2", "--watermark", "DRAFT"}, deps)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	invoice := readFile(t, filepath.Join(outDir, "inv-1.html"))
	if !strings.Contains(invoice, "INV-7") || !strings.Contains(invoice, `content: "DRAFT"`) {
		t.Error("invoice output should carry its data and the batch watermark")
	}
	if report := readFile(t, filepath.Join(outDir, "report-2.html")); !strings.Contains(report, "Quarterly") {
		t.Error("report output should carry its inline data")
	}
	if table := readFile(t, filepath.Join(dir, "custom", "table.html")); !strings.Contains(table, "Stock") {
		t.Error("table output should carry its job title")
	}

	if !strings.Contains(stdout.String(), "3 succeeded, 0 failed") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if len(recorder.created()) != 0 {
		t.Error("--html-only must not create browser hosts")
	}
}

func TestRunBatch_Headless(t *testing.T) {
	t.Parallel()
	deps, _, _, recorder := testDeps(t)

	dir := t.TempDir()
	var jobs strings.Builder
	jobs.WriteString("jobs:\n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&jobs, "  - template: invoice\n    data: {number: N-%d}\n    output: out/%d.pdf\n", i, i)
	}
	jobsPath := writeFile(t, filepath.Join(dir, "jobs.yaml"), jobs.String())

	if err := run(context.Background(), []string{"batch", jobsPath, "-w", "2", "-q"}, deps); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for i := 1; i <= 4; i++ {
		pdf := readFile(t, filepath.Join(dir, "out", fmt.Sprintf("%d.pdf", i)))
		if !strings.HasPrefix(pdf, fakePDFPrefix) || !strings.Contains(pdf, fmt.Sprintf("N-%d", i)) {
			t.Errorf("job %d output does not match its data: %q", i, pdf)
		}
	}

	hosts := recorder.created()
	if len(hosts) == 0 || len(hosts) > 2 {
		t.Errorf("created %d hosts, want 1 or 2 for two workers", len(hosts))
	}
	for _, h := range hosts {
		if !h.cfg.Headless {
			t.Error("batch hosts should be headless")
		}
		if !h.isClosed() {
			t.Error("batch hosts should be closed after the run")
		}
	}
}

func TestRunBatch_PartialFailure(t *testing.T) {
	t.Parallel()
	deps, stdout, stderr, _ := testDeps(t)

	dir := t.TempDir()
	jobsPath := writeFile(t, filepath.Join(dir, "jobs.yaml"), `jobs:
  - template: table
  - template: receipt
  - template: invoice
    dataFile: missing.yaml
`)

	err := run(context.Background(), []string{"batch", jobsPath, "--html-only", "-w", "1"}, deps)
	if !errors.Is(err, ErrBatchFailed) {
		t.Fatalf("run() error = %v, want ErrBatchFailed", err)
	}
	if exitCodeFor(err) != ExitGeneral {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitGeneral)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "table-1.html")); statErr != nil {
		t.Errorf("successful job output missing: %v", statErr)
	}
	errOut := stderr.String()
	if !strings.Contains(errOut, "FAILED job 2 (receipt)") || !strings.Contains(errOut, "FAILED job 3 (invoice)") {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(stdout.String(), "1 succeeded, 2 failed") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunBatch_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	empty := writeFile(t, filepath.Join(dir, "empty.yaml"), "jobs: []\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no jobs file", []string{"batch"}, ErrUsage},
		{"too many workers", []string{"batch", empty, "-w", "99"}, ErrInvalidWorkerCount},
		{"no jobs", []string{"batch", empty}, ErrInvalidJob},
		{"missing jobs file", []string{"batch", filepath.Join(dir, "nope.yaml")}, ErrReadJobs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deps, _, _, _ := testDeps(t)
			err := run(context.Background(), tt.args, deps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrintBatch_Canceled(t *testing.T) {
	t.Parallel()
	deps, _, _, _ := testDeps(t)

	cfg := testHTMLConfig()
	printers := newBatchPrinters(cfg, deps, zap.NewNop())
	pool := printview.NewPrinterPool(1, printers.newPrinter)
	defer func() {
		_ = pool.Close()
		printers.closeHosts()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{Template: "invoice"}, {Template: "report"}}
	params := &batchParams{options: &printview.PrintOptions{}, outputDir: t.TempDir(), ext: extHTML}
	results := printBatch(ctx, pool, printers, jobs, params, time.Now)

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
		}
	}
}

func testHTMLConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Print.HTMLOnly = true
	return cfg
}

// ---------------------------------------------------------------------------
// TestPrintResults - Result output
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []JobResult{
		{Template: "invoice", OutputPath: "out/a.pdf", Duration: 1500 * time.Millisecond},
		{Template: "report", Err: errors.New("boom")},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		wantStdout []string
		wantEmpty  bool
	}{
		{"default", false, false, []string{"Created out/a.pdf", "1 succeeded, 1 failed"}, false},
		{"verbose", false, true, []string{"invoice -> out/a.pdf (1.5s)"}, false},
		{"quiet", true, false, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deps, stdout, stderr, _ := testDeps(t)

			failed := printResults(results, tt.quiet, tt.verbose, deps)
			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			if !strings.Contains(stderr.String(), "FAILED job 2 (report): boom") {
				t.Errorf("stderr = %q", stderr.String())
			}
			out := stdout.String()
			for _, want := range tt.wantStdout {
				if !strings.Contains(out, want) {
					t.Errorf("stdout should contain %q, got %q", want, out)
				}
			}
			if tt.wantEmpty && out != "" {
				t.Errorf("stdout = %q, want empty", out)
			}
		})
	}
}
