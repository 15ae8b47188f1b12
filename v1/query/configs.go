package query

// Config holds scan behavior settings for the query engine.
type Config struct {
	// Collection name the engine scans.
	Collection string `yaml:"collection" env:"QUERY_COLLECTION"`

	// PageSize is how many points each store round-trip fetches.
	PageSize int `yaml:"page_size" env:"QUERY_PAGE_SIZE"`

	// MaxRecords is the default cap on matched records folded into an
	// aggregate when the request leaves its own cap unset.
	MaxRecords int `yaml:"max_records" env:"QUERY_MAX_RECORDS"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Collection: "erp_records",
		PageSize:   256,
		MaxRecords: 10000,
	}
}

func (c *Config) WithCollection(name string) *Config {
	c.Collection = name
	return c
}

func (c *Config) WithPageSize(n int) *Config {
	c.PageSize = n
	return c
}

func (c *Config) WithMaxRecords(n int) *Config {
	c.MaxRecords = n
	return c
}
