package embedding

import (
	"fmt"
	"os"
	"strconv"
)

// EMBEDDING_ENDPOINT must point to the root of the OpenAI-compatible
// inference service (no /v1/embeddings appended). The provider appends
// paths automatically, so callers only need to supply the host base URL.

type Config struct {
	// Inference endpoint and auth
	Endpoint     string // Base URL of the inference API
	ServiceToken string // Bearer token; empty for unauthenticated deployments
	Model        string // Embedding model name
	HTTPTimeoutS int    // HTTP timeout seconds (default 30)

	// Dimensions is the vector size the model produces. The store
	// collection is created with this size.
	Dimensions int

	// BatchSize caps how many texts one inference request carries.
	BatchSize int
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	timeout := 30
	if v := os.Getenv("EMBEDDING_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}

	dimensions := 1024
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dimensions = n
		}
	}

	batchSize := 32
	if v := os.Getenv("EMBEDDING_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			batchSize = n
		}
	}

	return &Config{
		Endpoint:     os.Getenv("EMBEDDING_ENDPOINT"),
		ServiceToken: os.Getenv("EMBEDDING_SERVICE_TOKEN"),
		Model:        os.Getenv("EMBEDDING_MODEL"),
		HTTPTimeoutS: timeout,
		Dimensions:   dimensions,
		BatchSize:    batchSize,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_ENDPOINT")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
	}
	return nil
}
