// =============================================================================
// Ledger Scanner - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration from
// a YAML file. The configuration is deliberately small: the only setting that
// changes what the checks find is the large-amount threshold. Everything else
// controls how ledger files are read and how findings are reported.
//
// CONFIGURATION FILE (config.yaml):
//   threshold: 100000
//   sheet: ""
//   output_dir: ./output
//   report_format: text
//   report_file_format: "{original}_{timestamp}_{uuid}"
//   log_level: info
//   csv:
//     delimiter: ","
//
// LOADING RULES:
//   - Missing keys fall back to the defaults listed on each field.
//   - If the default config.yaml does not exist, the defaults are used.
//   - If a file named with --config does not exist, loading fails.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "config.yaml"

// Report formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatXLSX = "xlsx"
)

// ReportFormats lists the supported report formats.
var ReportFormats = []string{FormatText, FormatYAML, FormatXLSX}

// logLevels lists the accepted log levels.
var logLevels = []string{"debug", "info", "warn", "error"}

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Threshold is the minimum absolute amount flagged by the large-amount
	// check. The comparison is inclusive.
	// Default: 100000
	Threshold float64 `yaml:"threshold"`

	// Sheet is the worksheet to read from spreadsheet ledgers.
	// Default: "" (the first sheet)
	Sheet string `yaml:"sheet"`

	// OutputDir is the directory where YAML and XLSX reports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ReportFormat selects the report produced for each ledger.
	// Valid values: "text", "yaml", "xlsx"
	//   - text : Counts are printed; no file is written.
	//   - yaml : Counts are printed and a YAML report is written.
	//   - xlsx : Counts are printed and a workbook report is written.
	// Default: "text"
	ReportFormat string `yaml:"report_format"`

	// ReportFileFormat is the name pattern for report files, without the
	// extension. Placeholders:
	//   {uuid}      - The run ID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {original}  - Ledger file name without extension
	// Default: "{original}_{timestamp}_{uuid}"
	ReportFileFormat string `yaml:"report_file_format"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// CSV contains settings for CSV ledgers.
	CSV CSVSettings `yaml:"csv"`
}

// CSVSettings contains settings for parsing CSV ledgers.
type CSVSettings struct {
	// Delimiter is the character separating fields.
	// Accepts a single character or one of "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{Threshold: math.NaN()}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: The path to the configuration file.
//   - explicit: Whether the user named the file. When false, a missing file
//     yields the defaults instead of an error.
//
// RETURNS:
//   - A pointer to the validated Config.
//   - An error if the file cannot be read, parsed, or fails validation.
func Load(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Threshold starts as NaN so that an explicit "threshold: 0" survives
	// applyDefaults.
	cfg := Config{Threshold: math.NaN()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if math.IsNaN(cfg.Threshold) {
		cfg.Threshold = 100_000
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = FormatText
	}
	if cfg.ReportFileFormat == "" {
		cfg.ReportFileFormat = "{original}_{timestamp}_{uuid}"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}

	cfg.ReportFormat = strings.ToLower(strings.TrimSpace(cfg.ReportFormat))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
}

// Validate checks the configuration values.
//
// RETURNS:
//   - An error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		return fmt.Errorf("threshold must be a finite number >= 0, got %v", c.Threshold)
	}

	if !contains(ReportFormats, c.ReportFormat) {
		return fmt.Errorf("unknown report format %q (valid: %s)", c.ReportFormat, strings.Join(ReportFormats, ", "))
	}

	if !contains(logLevels, c.LogLevel) {
		return fmt.Errorf("unknown log level %q (valid: %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}

	if _, err := c.CSV.Comma(); err != nil {
		return err
	}

	return nil
}

// Comma returns the delimiter as a rune for encoding/csv.
//
// RETURNS:
//   - The delimiter rune.
//   - An error if the delimiter is neither a known name nor one character.
func (s CSVSettings) Comma() (rune, error) {
	switch strings.ToLower(s.Delimiter) {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("csv delimiter must be a single character, got %q", s.Delimiter)
	}

	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid csv delimiter %q", s.Delimiter)
	}
	return r, nil
}

// contains reports whether values holds v.
func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
