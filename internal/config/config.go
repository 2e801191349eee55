// Package config loads the demo CLI's printer/dialect defaults: a plain
// struct tree, YAML-backed, falling back to hardcoded defaults when no
// config file is given.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParserConfig picks the dialect preset used for parsing and printing.
type ParserConfig struct {
	Dialect string `yaml:"dialect"`
}

// PrinterConfig mirrors the subset of printer.Config a config file may
// override; zero values mean "use the dialect preset's default".
type PrinterConfig struct {
	IndentSize      int    `yaml:"indent_size"`
	KeywordCase     string `yaml:"keyword_case"` // "upper", "lower", "none"
	CommaBreak      string `yaml:"comma_break"`  // "none", "before", "after"
	AndBreak        string `yaml:"and_break"`
	WithClauseStyle string `yaml:"with_clause_style"` // "standard", "cte-oneline", "full-oneline"
	ExportComment   bool   `yaml:"export_comment"`
}

// OutputConfig controls the CLI's own rendering of results, not SQL layout.
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "json"
}

// Config is the demo CLI's full configuration tree.
type Config struct {
	Parser  ParserConfig  `yaml:"parser"`
	Printer PrinterConfig `yaml:"printer"`
	Output  OutputConfig  `yaml:"output"`
}

// DefaultConfig is used whenever no config file is given, or loading one
// fails; the CLI treats a bad config file as a warning, not a fatal error.
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{Dialect: "postgres"},
		Printer: PrinterConfig{
			IndentSize:      2,
			KeywordCase:     "upper",
			CommaBreak:      "after",
			AndBreak:        "before",
			WithClauseStyle: "standard",
			ExportComment:   true,
		},
		Output: OutputConfig{Format: "text"},
	}
}

// LoadConfig reads and parses a YAML config file. An empty path returns
// DefaultConfig directly, matching the CLI's "-config not given" path.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}
