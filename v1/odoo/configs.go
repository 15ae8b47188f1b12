package odoo

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds connection and behavior settings for the Odoo client.
type Config struct {
	// URL is the base URL of the Odoo instance, e.g. "https://erp.example.com".
	URL string `yaml:"url" env:"ODOO_URL"`

	// Database is the Odoo database name.
	Database string `yaml:"database" env:"ODOO_DB"`

	// Username is the login username or email.
	Username string `yaml:"username" env:"ODOO_USERNAME"`

	// Password is an API key or password. Odoo 14+ requires API keys.
	Password string `yaml:"password" env:"ODOO_PASSWORD"`

	// Timeout bounds a single JSON-RPC round trip.
	Timeout time.Duration `yaml:"timeout" env:"ODOO_TIMEOUT"`

	// InsecureSkipVerify disables TLS certificate checks for instances
	// behind self-signed certs.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" env:"ODOO_INSECURE_SKIP_VERIFY"`

	// RequestsPerSecond throttles outgoing calls so sync runs don't
	// starve the ERP of workers. Zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"ODOO_REQUESTS_PER_SECOND"`

	// MaxRetries bounds retry attempts on transport failures. API-level
	// errors are never retried.
	MaxRetries uint64 `yaml:"max_retries" env:"ODOO_MAX_RETRIES"`

	// Models restricts which models the schema source loads. Empty loads
	// every model the instance reports.
	Models []string `yaml:"models" env:"ODOO_MODELS"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
		MaxRetries:        3,
	}
}

// NewConfig reads from environment variables on top of defaults.
func NewConfig() *Config {
	cfg := DefaultConfig()
	cfg.URL = strings.TrimRight(os.Getenv("ODOO_URL"), "/")
	cfg.Database = os.Getenv("ODOO_DB")
	cfg.Username = os.Getenv("ODOO_USERNAME")
	cfg.Password = os.Getenv("ODOO_PASSWORD")

	if v := os.Getenv("ODOO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("ODOO_REQUESTS_PER_SECOND"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.RequestsPerSecond = n
		}
	}
	if v := os.Getenv("ODOO_MODELS"); v != "" {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.Models = append(cfg.Models, m)
			}
		}
	}
	return cfg
}

// Validate ensures required fields are present. The error lists every
// missing variable at once so operators fix their environment in one go.
func (c *Config) Validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "ODOO_URL")
	}
	if c.Database == "" {
		missing = append(missing, "ODOO_DB")
	}
	if c.Username == "" {
		missing = append(missing, "ODOO_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "ODOO_PASSWORD")
	}
	if len(missing) > 0 {
		return &QueryError{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf("missing environment variables: %s", strings.Join(missing, ", ")),
			Diagnostics: []string{
				"Set the required environment variables:",
				"  ODOO_URL=<your-odoo-url>",
				"  ODOO_DB=<database-name>",
				"  ODOO_USERNAME=<username>",
				"  ODOO_PASSWORD=<api-key-or-password>",
			},
		}
	}
	return nil
}
