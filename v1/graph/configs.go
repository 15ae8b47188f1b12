package graph

// Config holds behavior settings for the integrity engine.
type Config struct {
	// Collection name the engine validates.
	Collection string `yaml:"collection" env:"GRAPH_COLLECTION"`

	// Workers bounds how many models validate concurrently.
	Workers int `yaml:"workers" env:"GRAPH_WORKERS"`

	// PageSize is how many points each scan round-trip fetches.
	PageSize int `yaml:"page_size" env:"GRAPH_PAGE_SIZE"`

	// ExistenceBatch is how many target ids one existence lookup carries.
	ExistenceBatch int `yaml:"existence_batch" env:"GRAPH_EXISTENCE_BATCH"`

	// OrphanLimit caps how many orphans a model report retains. Missing
	// references beyond the cap are still counted.
	OrphanLimit int `yaml:"orphan_limit" env:"GRAPH_ORPHAN_LIMIT"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Collection:     "erp_records",
		Workers:        4,
		PageSize:       256,
		ExistenceBatch: 512,
		OrphanLimit:    1000,
	}
}

func (c *Config) WithCollection(name string) *Config {
	c.Collection = name
	return c
}

func (c *Config) WithWorkers(n int) *Config {
	c.Workers = n
	return c
}
