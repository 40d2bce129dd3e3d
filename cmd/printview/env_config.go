package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-printview/internal/config"
)

// envPrefix starts every variable printview reads.
const envPrefix = "PRINTVIEW_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // PRINTVIEW_CONFIG: config file path
	Timeout     time.Duration // PRINTVIEW_TIMEOUT: page load timeout
	PageSize    string        // PRINTVIEW_PAGE_SIZE: A4, Letter, Legal
	Watermark   string        // PRINTVIEW_WATERMARK: watermark text
	OutputDir   string        // PRINTVIEW_OUTPUT_DIR: default output directory
	TemplateDir string        // PRINTVIEW_TEMPLATES: custom template directory
	Workers     int           // PRINTVIEW_WORKERS: batch printers
}

// knownEnvVars lists valid PRINTVIEW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PRINTVIEW_CONFIG":     true,
	"PRINTVIEW_TIMEOUT":    true,
	"PRINTVIEW_PAGE_SIZE":  true,
	"PRINTVIEW_WATERMARK":  true,
	"PRINTVIEW_OUTPUT_DIR": true,
	"PRINTVIEW_TEMPLATES":  true,
	"PRINTVIEW_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("PRINTVIEW_CONFIG"),
		PageSize:    os.Getenv("PRINTVIEW_PAGE_SIZE"),
		Watermark:   os.Getenv("PRINTVIEW_WATERMARK"),
		OutputDir:   os.Getenv("PRINTVIEW_OUTPUT_DIR"),
		TemplateDir: os.Getenv("PRINTVIEW_TEMPLATES"),
	}

	if timeout := os.Getenv("PRINTVIEW_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("PRINTVIEW_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized PRINTVIEW_*
// variable, e.g. PRINTVIEW_PAGESIZE instead of PRINTVIEW_PAGE_SIZE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 && cfg.Browser.Timeout == "" {
		cfg.Browser.Timeout = env.Timeout.String()
	}
	if env.PageSize != "" && cfg.Options.PageSize == "" {
		cfg.Options.PageSize = env.PageSize
	}
	if env.Watermark != "" && cfg.Options.Watermark == "" {
		cfg.Options.Watermark = env.Watermark
	}
	if env.OutputDir != "" && cfg.Print.OutputDir == "" {
		cfg.Print.OutputDir = env.OutputDir
	}
	if env.TemplateDir != "" && cfg.Templates.Dir == "" {
		cfg.Templates.Dir = env.TemplateDir
	}
	if env.Workers > 0 && cfg.Print.Workers == 0 {
		cfg.Print.Workers = env.Workers
	}
}
