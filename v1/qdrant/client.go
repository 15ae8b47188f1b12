package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT CLIENT WRAPPER
// ──────────────────────────────────────────────────────────────
//
// This file defines a thin wrapper around the official Qdrant Go client.
// The Adapter in adapter.go builds the vectordb.Service implementation on
// top of it; this wrapper only owns connectivity and lifecycle.
//

// Client wraps the official Qdrant Go client.
type Client struct {
	api    *qdrant.Client
	cfg    *Config
	logger *zap.Logger
}

// upsertChunkSize is the default chunk size for batched upserts.
const upsertChunkSize = 200

// NewClient constructs a Client and validates connectivity via a health
// check. The SDK creates lightweight gRPC connections, so the health check
// fails fast if the service is unreachable.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	port := cfg.Port
	if port == 0 {
		port = 6334
	}

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to initialize client: %w", err)
	}

	c := &Client{api: api, cfg: cfg, logger: logger}

	if err := c.healthCheck(); err != nil {
		return nil, fmt.Errorf("qdrant: health check failed: %w", err)
	}

	logger.Info("qdrant client connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.Int("port", port))
	return c, nil
}

// healthCheck verifies the availability of the Qdrant service.
// Lightweight and fast, suitable for startup and readiness probes.
func (c *Client) healthCheck() error {
	if c.api == nil {
		return fmt.Errorf("qdrant: client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return err
	}

	c.logger.Debug("qdrant health check passed",
		zap.String("title", resp.GetTitle()),
		zap.String("version", resp.GetVersion()))
	return nil
}

// API returns the underlying Qdrant SDK client for direct access to
// low-level operations.
func (c *Client) API() *qdrant.Client {
	return c.api
}

// Close gracefully shuts down the client. The official SDK doesn't keep
// persistent connections, so this exists for lifecycle symmetry.
func (c *Client) Close() error {
	return c.api.Close()
}
