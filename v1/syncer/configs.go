package syncer

// Config holds pipeline behavior settings.
type Config struct {
	// Collection name records sync into.
	Collection string `yaml:"collection" env:"SYNC_COLLECTION"`

	// BatchSize is how many records one pipeline batch carries through
	// fetch, embed and upsert.
	BatchSize int `yaml:"batch_size" env:"SYNC_BATCH_SIZE"`

	// PipelineDepth bounds in-flight batches between stages. This is the
	// back-pressure knob: a slow embedding call stalls fetching only
	// after this many batches are queued.
	PipelineDepth int `yaml:"pipeline_depth" env:"SYNC_PIPELINE_DEPTH"`

	// VectorSize is the embedding dimension the collection is created
	// with.
	VectorSize uint64 `yaml:"vector_size" env:"SYNC_VECTOR_SIZE"`

	// MaxRetries bounds retry attempts for store and embedding calls.
	MaxRetries uint64 `yaml:"max_retries" env:"SYNC_MAX_RETRIES"`

	// SampleSize is how many records FK detection samples per field.
	SampleSize int `yaml:"sample_size" env:"SYNC_SAMPLE_SIZE"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Collection:    "erp_records",
		BatchSize:     100,
		PipelineDepth: 4,
		VectorSize:    1024,
		MaxRetries:    3,
		SampleSize:    200,
	}
}

func (c *Config) WithCollection(name string) *Config {
	c.Collection = name
	return c
}

func (c *Config) WithBatchSize(n int) *Config {
	c.BatchSize = n
	return c
}
