package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 100_000.0, cfg.Threshold)
	assert.Equal(t, "", cfg.Sheet)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, FormatText, cfg.ReportFormat)
	assert.Equal(t, "{original}_{timestamp}_{uuid}", cfg.ReportFileFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
threshold: 50000
sheet: Hovedbok
output_dir: /tmp/reports
report_format: YAML
log_level: debug
csv:
  delimiter: ";"
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, 50_000.0, cfg.Threshold)
	assert.Equal(t, "Hovedbok", cfg.Sheet)
	assert.Equal(t, "/tmp/reports", cfg.OutputDir)
	assert.Equal(t, FormatYAML, cfg.ReportFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "{original}_{timestamp}_{uuid}", cfg.ReportFileFormat)

	comma, err := cfg.CSV.Comma()
	require.NoError(t, err)
	assert.Equal(t, ';', comma)
}

func TestLoad_ZeroThresholdIsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "threshold: 0\n"), true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Threshold)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "threshold: [1, 2\n"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"negative threshold", "threshold: -1\n", "threshold"},
		{"infinite threshold", "threshold: .inf\n", "threshold"},
		{"unknown format", "report_format: pdf\n", "unknown report format"},
		{"unknown level", "log_level: loud\n", "unknown log level"},
		{"long delimiter", "csv:\n  delimiter: '::'\n", "single character"},
		{"quote delimiter", "csv:\n  delimiter: '\"'\n", "invalid csv delimiter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCSVSettingsComma(t *testing.T) {
	tests := map[string]rune{
		"":          ',',
		",":         ',',
		"tab":       '\t',
		"\\t":       '\t',
		"PIPE":      '|',
		"semicolon": ';',
		"#":         '#',
	}
	for delimiter, want := range tests {
		got, err := CSVSettings{Delimiter: delimiter}.Comma()
		require.NoError(t, err, delimiter)
		assert.Equal(t, want, got, delimiter)
	}
}
