package qdrant

import (
	"os"
	"strconv"
	"time"
)

// Config holds connection and behavior settings for the Qdrant client.
//
// It is intentionally minimal, readable, and easy to override from
// environment variables, YAML, or programmatically via helper methods.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "localhost"
//	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("localhost").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// Collection name this deployment projects ERP records into.
	Collection string `yaml:"collection" env:"QDRANT_COLLECTION"`

	// Maximum request duration before timing out.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               6334,
		Collection:         "erp_records",
		Timeout:            5 * time.Second,
		CheckCompatibility: true,
	}
}

// NewConfig builds a Config from environment variables, falling back to
// defaults for anything unset.
func NewConfig() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("QDRANT_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		cfg.ApiKey = v
	}
	if v := os.Getenv("QDRANT_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv("QDRANT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(endpoint string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	return cfg
}

// Builder-style helpers (optional, ergonomic)
func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithCollection(name string) *Config {
	c.Collection = name
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}
