// Package config loads and validates the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-printview/internal/fileutil"
	"github.com/alnah/go-printview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxTitleLength     = 200  // Document title
	MaxWatermarkLength = 50   // "DRAFT", "CONFIDENTIAL"
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxCopies          = 100
	MaxWorkers         = 32
	MaxDataEntries     = 50 // headerData / footerData keys
)

// configDirName is the directory under os.UserConfigDir searched for configs.
const configDirName = "printview"

// Config holds the CLI configuration.
type Config struct {
	Options   OptionsConfig   `yaml:"options"`
	Browser   BrowserConfig   `yaml:"browser"`
	Print     PrintConfig     `yaml:"print"`
	Templates TemplatesConfig `yaml:"templates"`
}

// OptionsConfig holds print option defaults applied to every CLI request.
// Unset fields fall through to the library defaults.
type OptionsConfig struct {
	Orientation     string         `yaml:"orientation"` // "portrait", "landscape"
	PageSize        string         `yaml:"pageSize"`    // "A4", "Letter", "Legal"
	ShowHeader      *bool          `yaml:"showHeader"`
	ShowFooter      *bool          `yaml:"showFooter"`
	ShowPageNumbers *bool          `yaml:"showPageNumbers"`
	Title           string         `yaml:"title"`
	RTL             *bool          `yaml:"rtl"`
	Watermark       string         `yaml:"watermark"`
	Copies          int            `yaml:"copies"`
	HeaderData      map[string]any `yaml:"headerData"`
	FooterData      map[string]any `yaml:"footerData"`
}

// BrowserConfig configures the Chrome instance used for previews and PDFs.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`       // Empty = ROD_BROWSER_BIN or auto-download
	NoSandbox bool   `yaml:"noSandbox"` // Also enabled by ROD_NO_SANDBOX / CI
	Timeout   string `yaml:"timeout"`   // Go duration, e.g. "45s"
}

// PrintConfig configures print-direct runs.
type PrintConfig struct {
	Delay     string `yaml:"delay"`     // Go duration before printing
	OutputDir string `yaml:"outputDir"` // Empty = next to the data file
	HTMLOnly  bool   `yaml:"htmlOnly"`  // Write HTML instead of PDF
	Workers   int    `yaml:"workers"`   // Batch workers, 0 = auto
}

// TemplatesConfig selects which templates are registered.
type TemplatesConfig struct {
	Dir      string `yaml:"dir"`      // Custom template directory
	Builtins *bool  `yaml:"builtins"` // Default true
}

// DefaultConfig returns a configuration that leaves every library default
// in place and registers the built-in templates.
func DefaultConfig() *Config {
	builtins := true
	return &Config{
		Templates: TemplatesConfig{Builtins: &builtins},
	}
}

// Validate checks enumerations, ranges, durations and field lengths.
// Called by LoadConfig; also useful for configs built in code.
func (c *Config) Validate() error {
	if err := c.Options.validate(); err != nil {
		return err
	}
	if err := c.Browser.validate(); err != nil {
		return err
	}
	if err := c.Print.validate(); err != nil {
		return err
	}
	return validateFieldLength("templates.dir", c.Templates.Dir, MaxPathLength)
}

func (o *OptionsConfig) validate() error {
	switch strings.ToLower(o.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: options.orientation %q (must be portrait or landscape)", ErrInvalidValue, o.Orientation)
	}
	if o.PageSize != "" && NormalizePageSize(o.PageSize) == "" {
		return fmt.Errorf("%w: options.pageSize %q (must be A4, Letter, or Legal)", ErrInvalidValue, o.PageSize)
	}
	if err := validateFieldLength("options.title", o.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("options.watermark", o.Watermark, MaxWatermarkLength); err != nil {
		return err
	}
	if o.Copies < 0 || o.Copies > MaxCopies {
		return fmt.Errorf("%w: options.copies must be between 0 and %d, got %d", ErrInvalidValue, MaxCopies, o.Copies)
	}
	if len(o.HeaderData) > MaxDataEntries {
		return fmt.Errorf("%w: options.headerData has %d entries (max %d)", ErrInvalidValue, len(o.HeaderData), MaxDataEntries)
	}
	if len(o.FooterData) > MaxDataEntries {
		return fmt.Errorf("%w: options.footerData has %d entries (max %d)", ErrInvalidValue, len(o.FooterData), MaxDataEntries)
	}
	return nil
}

func (b *BrowserConfig) validate() error {
	if err := validateFieldLength("browser.bin", b.Bin, MaxPathLength); err != nil {
		return err
	}
	_, err := parsePositiveDuration("browser.timeout", b.Timeout)
	return err
}

func (p *PrintConfig) validate() error {
	if err := validateFieldLength("print.outputDir", p.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if p.Workers < 0 || p.Workers > MaxWorkers {
		return fmt.Errorf("%w: print.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, p.Workers)
	}
	if p.Delay == "" {
		return nil
	}
	d, err := time.ParseDuration(p.Delay)
	if err != nil || d < 0 {
		return fmt.Errorf("%w: print.delay %q", ErrInvalidValue, p.Delay)
	}
	return nil
}

// TimeoutDuration returns the browser timeout, or 0 when unset.
func (b BrowserConfig) TimeoutDuration() time.Duration {
	d, _ := parsePositiveDuration("browser.timeout", b.Timeout)
	return d
}

// DelayDuration returns the print delay and whether one was configured.
func (p PrintConfig) DelayDuration() (time.Duration, bool) {
	if p.Delay == "" {
		return 0, false
	}
	d, err := time.ParseDuration(p.Delay)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// UseBuiltins reports whether built-in templates should be registered.
func (t TemplatesConfig) UseBuiltins() bool {
	return t.Builtins == nil || *t.Builtins
}

// NormalizePageSize returns the canonical page size name ("A4", "Letter",
// "Legal") for a case-insensitive input, or "" when unknown.
func NormalizePageSize(s string) string {
	switch strings.ToLower(s) {
	case "a4":
		return "A4"
	case "letter":
		return "Letter"
	case "legal":
		return "Legal"
	default:
		return ""
	}
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s %q (must be a positive duration like 30s)", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in SearchPaths.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where LoadConfig looks for a config named name:
// the current directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}
	return paths
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath returns the first existing entry of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
