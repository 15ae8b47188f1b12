package embedding

import (
	"context"
	"fmt"
)

// Client is the public entrypoint for computing embeddings.
//
// It hides all provider details (inference endpoints, HTTP, etc.)
// from the application layer.
type Client struct {
	provider  Provider
	batchSize int
}

// NewClient constructs a Client from Config.
// It validates the config and internally constructs the inference provider.
// Application code should depend on *Client, not on Provider or InferenceProvider.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	p, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	return &Client{provider: p, batchSize: cfg.BatchSize}, nil
}

// Embed computes the embedding of a single text.
func (c *Client) Embed(ctx context.Context, text string, mode Mode) ([]float32, error) {
	vectors, err := c.provider.Create(ctx, []string{text}, mode)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch computes embeddings for many texts, chunking requests so no
// single inference call exceeds the configured batch size. Output order
// matches input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	size := c.batchSize
	if size <= 0 {
		size = len(texts)
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := c.provider.Create(ctx, texts[start:end], mode)
		if err != nil {
			return nil, fmt.Errorf("embedding: batch %d-%d: %w", start, end, err)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// Close allows the client to release any internal resources used by the provider.
// Currently this is a no-op unless the provider implements Close().
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
