package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Adapter kinds selectable in the run configuration.
const (
	AdapterKindSBGN = "sbgn"
	AdapterKindCSV  = "csv"
)

// AdapterConfig selects and configures the data-source adapter for a run.
type AdapterConfig struct {
	// Kind is "sbgn" or "csv".
	Kind string `yaml:"kind"`
	// DataSource is the path to the input file.
	DataSource string `yaml:"data_source"`
	// Relations is an optional second CSV with edge rows (csv kind only).
	Relations string `yaml:"relations,omitempty"`
	// Parser overrides the SBGN parse path: "libsbgn" or "generic"
	// (sbgn kind only; empty means auto-detect).
	Parser string `yaml:"parser,omitempty"`
}

// WriterConfig configures the batch writer.
type WriterConfig struct {
	// OutputDir is the parent directory for per-run output directories.
	OutputDir string `yaml:"output_dir"`
}

// Config is the yaml run configuration for the knowledge-graph builder.
type Config struct {
	Adapter AdapterConfig `yaml:"adapter"`
	Writer  WriterConfig  `yaml:"writer"`
}

// Load reads and validates a run configuration from a yaml file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Adapter.Kind == "" {
		cfg.Adapter.Kind = AdapterKindSBGN
	}
	if cfg.Writer.OutputDir == "" {
		cfg.Writer.OutputDir = "output"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Adapter.Kind {
	case AdapterKindSBGN, AdapterKindCSV:
	default:
		return fmt.Errorf("unknown adapter kind: %s", c.Adapter.Kind)
	}

	if c.Adapter.DataSource == "" {
		return fmt.Errorf("adapter.data_source is required")
	}

	if c.Adapter.Relations != "" && c.Adapter.Kind != AdapterKindCSV {
		return fmt.Errorf("adapter.relations is only valid for the csv adapter")
	}
	if c.Adapter.Parser != "" && c.Adapter.Kind != AdapterKindSBGN {
		return fmt.Errorf("adapter.parser is only valid for the sbgn adapter")
	}

	return nil
}
