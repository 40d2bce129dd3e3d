package main

import (
	"fmt"
	"io"
	"strings"

	printview "github.com/alnah/go-printview"
	"github.com/alnah/go-printview/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loadConfig loads the config named by --config or PRINTVIEW_CONFIG and
// applies environment overrides. Without either, defaults are used.
func loadConfig(common commonFlags, stderr io.Writer) (*config.Config, error) {
	env := loadEnvConfig()
	if !common.quiet {
		warnUnknownEnvVars(stderr)
	}

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// mergeTemplateFlags merges template flags into config. CLI wins.
func mergeTemplateFlags(f templateFlags, cfg *config.Config) {
	if f.dir != "" {
		cfg.Templates.Dir = f.dir
	}
	if f.noBuiltins {
		builtins := false
		cfg.Templates.Builtins = &builtins
	}
}

// mergeOptionFlags merges page, document and browser flags into config.
func mergeOptionFlags(page pageFlags, doc documentFlags, browser browserFlags, cfg *config.Config) {
	if page.size != "" {
		cfg.Options.PageSize = page.size
	}
	if page.orientation != "" {
		cfg.Options.Orientation = page.orientation
	}

	if doc.title != "" {
		cfg.Options.Title = doc.title
	}
	if doc.watermark != "" {
		cfg.Options.Watermark = doc.watermark
	}
	if doc.copies != 0 {
		cfg.Options.Copies = doc.copies
	}
	if doc.rtl != nil {
		cfg.Options.RTL = doc.rtl
	}
	if doc.header != nil {
		cfg.Options.ShowHeader = doc.header
	}
	if doc.footer != nil {
		cfg.Options.ShowFooter = doc.footer
	}
	if doc.pageNumbers != nil {
		cfg.Options.ShowPageNumbers = doc.pageNumbers
	}

	if browser.bin != "" {
		cfg.Browser.Bin = browser.bin
	}
	if browser.noSandbox {
		cfg.Browser.NoSandbox = true
	}
	if browser.timeout != "" {
		cfg.Browser.Timeout = browser.timeout
	}
}

// printOptions converts the config options section into library options.
// Enumerations are normalized; the config has been validated already.
func printOptions(o config.OptionsConfig) *printview.PrintOptions {
	return &printview.PrintOptions{
		Orientation:     printview.Orientation(strings.ToLower(o.Orientation)),
		PageSize:        printview.PageSize(config.NormalizePageSize(o.PageSize)),
		ShowHeader:      o.ShowHeader,
		ShowFooter:      o.ShowFooter,
		ShowPageNumbers: o.ShowPageNumbers,
		Title:           o.Title,
		HeaderData:      o.HeaderData,
		FooterData:      o.FooterData,
		RTL:             o.RTL,
		Watermark:       o.Watermark,
		Copies:          o.Copies,
	}
}

// mergeJobOptions overlays per-job options on the command-wide options.
func mergeJobOptions(base *printview.PrintOptions, job *printview.PrintOptions) *printview.PrintOptions {
	merged := *base
	if job == nil {
		return &merged
	}
	if job.Orientation != "" {
		merged.Orientation = job.Orientation
	}
	if job.PageSize != "" {
		merged.PageSize = job.PageSize
	}
	if job.ShowHeader != nil {
		merged.ShowHeader = job.ShowHeader
	}
	if job.ShowFooter != nil {
		merged.ShowFooter = job.ShowFooter
	}
	if job.ShowPageNumbers != nil {
		merged.ShowPageNumbers = job.ShowPageNumbers
	}
	if job.Title != "" {
		merged.Title = job.Title
	}
	if job.HeaderData != nil {
		merged.HeaderData = job.HeaderData
	}
	if job.FooterData != nil {
		merged.FooterData = job.FooterData
	}
	if job.RTL != nil {
		merged.RTL = job.RTL
	}
	if job.Watermark != "" {
		merged.Watermark = job.Watermark
	}
	if job.Copies > 0 {
		merged.Copies = job.Copies
	}
	return &merged
}

// newLogger returns a console logger on w: warnings by default, debug
// with --verbose, nothing with --quiet.
func newLogger(f commonFlags, w io.Writer) *zap.Logger {
	if f.quiet {
		return zap.NewNop()
	}

	level := zapcore.WarnLevel
	if f.verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core).Named("printview")
}

// browserConfig builds the host configuration from the config file.
func browserConfig(cfg *config.Config, logger *zap.Logger) printview.BrowserConfig {
	return printview.BrowserConfig{
		Bin:       cfg.Browser.Bin,
		NoSandbox: cfg.Browser.NoSandbox,
		Timeout:   cfg.Browser.TimeoutDuration(),
		AssetDir:  cfg.Templates.Dir,
		Logger:    logger,
	}
}

// newPrinter creates a printer on host with the templates the config
// selects. The caller closes host after the printer.
func newPrinter(cfg *config.Config, host printview.Host, logger *zap.Logger) (*printview.Printer, error) {
	opts := []printview.Option{
		printview.WithHost(host),
		printview.WithLogger(logger),
	}
	if cfg.Templates.UseBuiltins() {
		opts = append(opts, printview.WithBuiltinTemplates())
	}
	if cfg.Templates.Dir != "" {
		opts = append(opts, printview.WithTemplateDir(cfg.Templates.Dir))
	}
	if d, ok := cfg.Print.DelayDuration(); ok {
		opts = append(opts, printview.WithPrintDelay(d))
	}
	return printview.NewPrinter(opts...)
}
