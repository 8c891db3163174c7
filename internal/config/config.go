package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PathsConfig holds the input and output file locations.
type PathsConfig struct {
	ProtocolFile string `yaml:"protocol_file"`
	LookupFile   string `yaml:"lookup_file"`
	FlowLogFile  string `yaml:"flow_log_file"`
	OutputFile   string `yaml:"output_file"`
}

// FieldDef names one field of the flow log layout and the whitespace-token
// index it occupies.
type FieldDef struct {
	Name  string `yaml:"name"`
	Index int    `yaml:"index"`
}

// IngestConfig controls how raw flow log lines are interpreted.
type IngestConfig struct {
	// MinFields is the minimum token count for a line to be considered a
	// valid record. Shorter lines are skipped, not errors.
	MinFields int        `yaml:"min_fields"`
	Layout    []FieldDef `yaml:"layout"`
}

// ClickHouseConfig holds the connection settings for the ClickHouse writer.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WriterDef defines a single report writer from the config file.
type WriterDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Paths   PathsConfig  `yaml:"paths"`
	Ingest  IngestConfig `yaml:"ingest"`
	Writers []WriterDef  `yaml:"writers"`
}

// Field names the layout must provide.
const (
	FieldDstPort        = "dstport"
	FieldProtocolNumber = "protocol_number"
)

// DefaultMinFields is the minimum token count of the standard 14-field
// version 2 flow record format.
const DefaultMinFields = 14

// Default returns the built-in configuration: conventional relative paths,
// the version 2 field layout and a single text writer.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			ProtocolFile: "protocol_numbers_mapping.csv",
			LookupFile:   filepath.Join("Lookup", "lookup_table.csv"),
			FlowLogFile:  filepath.Join("FlowLogsInput", "flow_logs.csv"),
			OutputFile:   filepath.Join("Output", "output.txt"),
		},
		Ingest: IngestConfig{
			MinFields: DefaultMinFields,
			Layout: []FieldDef{
				{Name: FieldDstPort, Index: 6},
				{Name: FieldProtocolNumber, Index: 7},
			},
		},
		Writers: []WriterDef{
			{Type: "text", Enabled: true},
		},
	}
}

// LoadConfig reads the configuration from a YAML file and returns a Config
// struct. Fields left empty in the file fall back to the defaults.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if cfg.Ingest.MinFields <= 0 {
		cfg.Ingest.MinFields = DefaultMinFields
	}

	return cfg, nil
}

// ApplyRoot re-resolves the lookup, flow log and output paths under the
// given root directory. The protocol reference stays relative to the
// working directory.
func (c *Config) ApplyRoot(root string) {
	c.Paths.LookupFile = filepath.Join(root, "Lookup", "lookup_table.csv")
	c.Paths.FlowLogFile = filepath.Join(root, "FlowLogsInput", "flow_logs.csv")
	c.Paths.OutputFile = filepath.Join(root, "Output", "output.txt")
}
