package history

import "path/filepath"

// Config holds file locations and buffering for validation history.
type Config struct {
	// Dir is the directory holding history artifacts.
	Dir string `yaml:"dir" env:"HISTORY_DIR"`

	// ReportFile is the JSONL file validation reports append to,
	// relative to Dir.
	ReportFile string `yaml:"report_file" env:"HISTORY_REPORT_FILE"`

	// MappingFile is the JSON file holding detected FK mappings,
	// relative to Dir.
	MappingFile string `yaml:"mapping_file" env:"HISTORY_MAPPING_FILE"`

	// BufferSize is the async writer's queue depth. Reports arriving
	// while the queue is full are dropped, never blocked on.
	BufferSize int `yaml:"buffer_size" env:"HISTORY_BUFFER_SIZE"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Dir:         ".erpvec",
		ReportFile:  "validation_history.jsonl",
		MappingFile: "fk_mappings.json",
		BufferSize:  16,
	}
}

func (c *Config) reportPath() string {
	return filepath.Join(c.Dir, c.ReportFile)
}

func (c *Config) mappingPath() string {
	return filepath.Join(c.Dir, c.MappingFile)
}
