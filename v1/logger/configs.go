package logger

import "os"

// Level names the minimum severity a logger emits.
type Level string

const (
	Debug   Level = "debug"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Config holds the logger settings.
type Config struct {
	// Level is the minimum severity to emit. Defaults to Info.
	Level Level `yaml:"level" env:"LOGGER_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"LOGGER_SERVICE_NAME"`

	// Development switches to console encoding with colored levels,
	// which reads better on a terminal than JSON.
	Development bool `yaml:"development" env:"LOGGER_DEVELOPMENT"`
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:       Info,
		ServiceName: "erpvec",
	}
}

// NewConfig builds a Config from environment variables, falling back to
// defaults for anything unset.
func NewConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LOGGER_LEVEL"); v != "" {
		cfg.Level = Level(v)
	}
	if v := os.Getenv("LOGGER_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("LOGGER_DEVELOPMENT"); v == "true" || v == "1" {
		cfg.Development = true
	}

	return cfg
}

// WithLevel returns a copy of the config with the given level.
func (c Config) WithLevel(level Level) Config {
	c.Level = level
	return c
}

// WithServiceName returns a copy of the config with the given service name.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}

// WithDevelopment returns a copy of the config with development encoding.
func (c Config) WithDevelopment(dev bool) Config {
	c.Development = dev
	return c
}
