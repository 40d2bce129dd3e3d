package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	printview "github.com/alnah/go-printview"
	"github.com/alnah/go-printview/internal/config"
	"github.com/alnah/go-printview/internal/yamlutil"
	"go.uber.org/zap"
)

// jobsFile is the document read by the batch command.
type jobsFile struct {
	Jobs []Job `yaml:"jobs"`
}

// Job is one document to print. Data and DataFile are exclusive; relative
// paths are resolved against the jobs file directory.
type Job struct {
	Template string                  `yaml:"template"`
	Data     map[string]any          `yaml:"data"`
	DataFile string                  `yaml:"dataFile"`
	Output   string                  `yaml:"output"`
	Options  *printview.PrintOptions `yaml:"options"`
}

// JobResult holds the outcome of a single job.
type JobResult struct {
	Template   string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// batchParams groups what every job of a batch shares.
type batchParams struct {
	options   *printview.PrintOptions
	outputDir string
	ext       string
}

// runBatch prints every job of a jobs file with a pool of printers.
func runBatch(ctx context.Context, args []string, deps *Dependencies) error {
	flags, positional, err := parseBatchFlags(args, deps.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) != 1 {
		printBatchUsage(deps.Stderr)
		return fmt.Errorf("%w: batch takes <jobs-file>", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, deps.Stderr)
	if err != nil {
		return err
	}
	mergeTemplateFlags(flags.templates, cfg)
	mergeOptionFlags(flags.page, flags.document, flags.browser, cfg)
	if flags.output.path != "" {
		cfg.Print.OutputDir = flags.output.path
	}
	if flags.output.htmlOnly {
		cfg.Print.HTMLOnly = true
	}
	if flags.workers != 0 {
		if err := validateWorkers(flags.workers); err != nil {
			return err
		}
		cfg.Print.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	jobs, err := loadJobs(positional[0])
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no jobs in %s", ErrInvalidJob, positional[0])
	}

	logger := newLogger(flags.common, deps.Stderr)
	defer func() { _ = logger.Sync() }()

	printers := newBatchPrinters(cfg, deps, logger)
	pool := printview.NewPrinterPool(printview.ResolvePoolSize(cfg.Print.Workers), printers.newPrinter)
	logger.Debug("batch starting", zap.Int("jobs", len(jobs)), zap.Int("workers", pool.Size()))

	// Jobs without an output land next to the jobs file by default
	outputDir := cfg.Print.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(positional[0])
	}
	params := &batchParams{
		options:   printOptions(cfg.Options),
		outputDir: outputDir,
		ext:       outputExt(cfg.Print.HTMLOnly),
	}
	results := printBatch(ctx, pool, printers, jobs, params, deps.Now)

	if err := pool.Close(); err != nil {
		logger.Debug("closing printers", zap.Error(err))
	}
	printers.closeHosts()

	failed := printResults(results, flags.common.quiet, flags.common.verbose, deps)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// validateWorkers checks the worker count is within limits.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0 to %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// loadJobs reads and validates a jobs file. Relative paths in jobs are
// made relative to the file's directory.
func loadJobs(path string) ([]Job, error) {
	var doc jobsFile
	if err := yamlutil.ReadFile(path, &doc, true); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadJobs, path, err)
	}

	dir := filepath.Dir(path)
	for i := range doc.Jobs {
		job := &doc.Jobs[i]
		if job.Template == "" {
			return nil, fmt.Errorf("%w: job %d has no template", ErrInvalidJob, i+1)
		}
		if job.Data != nil && job.DataFile != "" {
			return nil, fmt.Errorf("%w: job %d sets both data and dataFile", ErrInvalidJob, i+1)
		}
		job.DataFile = resolveRelative(dir, job.DataFile)
		job.Output = resolveRelative(dir, job.Output)
	}
	return doc.Jobs, nil
}

func resolveRelative(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// batchPrinters creates the pooled printers, each with its own host and
// output target, and remembers them for routing and teardown.
type batchPrinters struct {
	cfg    *config.Config
	deps   *Dependencies
	logger *zap.Logger

	mu      sync.Mutex
	targets map[*printview.Printer]*outputTarget
	hosts   []printview.Host
}

func newBatchPrinters(cfg *config.Config, deps *Dependencies, logger *zap.Logger) *batchPrinters {
	return &batchPrinters{
		cfg:     cfg,
		deps:    deps,
		logger:  logger,
		targets: make(map[*printview.Printer]*outputTarget),
	}
}

// newPrinter is the pool's printview.PrinterFactory.
func (b *batchPrinters) newPrinter() (*printview.Printer, error) {
	target := &outputTarget{}
	host, err := newOutputHost(b.cfg, target, b.deps, b.logger)
	if err != nil {
		return nil, err
	}

	printer, err := newPrinter(b.cfg, host, b.logger)
	if err != nil {
		closeHost(host, b.logger)
		return nil, err
	}

	b.mu.Lock()
	b.targets[printer] = target
	b.hosts = append(b.hosts, host)
	b.mu.Unlock()
	return printer, nil
}

func (b *batchPrinters) target(p *printview.Printer) *outputTarget {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.targets[p]
}

// closeHosts releases every host. Call after the pool is closed.
func (b *batchPrinters) closeHosts() {
	b.mu.Lock()
	hosts := b.hosts
	b.hosts = nil
	b.mu.Unlock()

	for _, h := range hosts {
		closeHost(h, b.logger)
	}
}

// printBatch runs jobs concurrently, one pooled printer per worker.
// Results are returned in job order.
func printBatch(ctx context.Context, pool *printview.PrinterPool, printers *batchPrinters, jobs []Job, params *batchParams, now func() time.Time) []JobResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]JobResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			printer, err := pool.Acquire(ctx)
			if err != nil {
				// No printer for this worker, fail the jobs it would have taken
				for idx := range queue {
					results[idx] = JobResult{Template: jobs[idx].Template, Err: err}
				}
				return
			}
			defer pool.Release(printer)
			target := printers.target(printer)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = JobResult{Template: jobs[idx].Template, Err: ctx.Err()}
					continue
				}
				results[idx] = printJob(ctx, printer, target, idx, jobs[idx], params, now)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// printJob prints one job with printer, whose host writes into target.
func printJob(ctx context.Context, printer *printview.Printer, target *outputTarget, idx int, job Job, params *batchParams, now func() time.Time) JobResult {
	start := now()
	name := fmt.Sprintf("%s-%d", job.Template, idx+1)
	result := JobResult{
		Template:   job.Template,
		OutputPath: resolveOutputPath(job.Output, params.outputDir, job.DataFile, name, params.ext),
	}
	finish := func(err error) JobResult {
		result.Err = err
		result.Duration = now().Sub(start)
		return result
	}

	data := job.Data
	if data == nil {
		var err error
		if data, err = loadData(job.DataFile); err != nil {
			return finish(err)
		}
	}

	target.set(result.OutputPath)
	err := printer.PrintDirect(ctx, printview.Request{
		TemplateKey: job.Template,
		Data:        data,
		Options:     mergeJobOptions(params.options, job.Options),
	})
	if err == nil && !target.done() {
		err = fmt.Errorf("%w: %s was not printed", ErrWriteOutput, result.OutputPath)
	}
	return finish(err)
}

// BatchSummary holds the count of succeeded and failed jobs.
type BatchSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed jobs.
func countResults(results []JobResult) BatchSummary {
	var summary BatchSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs job results and returns the number of failures.
func printResults(results []JobResult, quiet, verbose bool, deps *Dependencies) int {
	summary := countResults(results)

	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(deps.Stderr, "FAILED job %d (%s): %v\n", i+1, r.Template, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(deps.Stdout, "%s -> %s (%v)\n", r.Template, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(deps.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(deps.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
