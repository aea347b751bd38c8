package config

import "time"

// Config holds runtime settings for the SecureDrop CLI.
//
// Fields:
//   - ServerEndpointURL: base URL of the backend REST endpoint.
//   - SessionDBPath: sqlite file holding the persisted session.
//   - RequestTimeout: per-call deadline for network operations.
//   - DefaultExpiryHours: record lifetime used when the user does not
//     specify one.
//   - DefaultMaxDownloads: vault download cap used when not specified.
//   - PageSize: page size for vault listings.
type Config struct {
	ServerEndpointURL   string
	SessionDBPath       string
	RequestTimeout      time.Duration
	DefaultExpiryHours  int
	DefaultMaxDownloads int
	PageSize            int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://127.0.0.1:8080/api"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 30 * time.Second
	c.DefaultExpiryHours = 24
	c.DefaultMaxDownloads = 1
	c.PageSize = 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
