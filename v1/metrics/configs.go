package metrics

import "os"

// Config holds the metrics server settings.
type Config struct {
	// Address is the listen address of the /metrics endpoint.
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// ServiceName is attached to every metric as a constant "service" label.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`

	// EnableDefaultCollectors registers the Go runtime, process, and
	// build info collectors alongside the application metrics.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_DEFAULT_COLLECTORS"`
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Address:                 ":9090",
		ServiceName:             "erpvec",
		EnableDefaultCollectors: true,
	}
}

// NewConfig builds a Config from environment variables, falling back to
// defaults for anything unset.
func NewConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("METRICS_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("METRICS_DEFAULT_COLLECTORS"); v == "false" || v == "0" {
		cfg.EnableDefaultCollectors = false
	}

	return cfg
}

// WithAddress returns a copy of the config with the given listen address.
func (c Config) WithAddress(address string) Config {
	c.Address = address
	return c
}

// WithServiceName returns a copy of the config with the given service name.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}
