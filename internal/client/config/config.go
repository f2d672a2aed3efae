package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the admin CLI.
//
// Fields:
//   - ServerURL: base URL of the admin HTTP API.
//   - CacheDSN: path of the local sqlite cache file.
//   - RequestTimeout: upper bound for a single API call.
//   - HealthEndpointAddr: host:port of the server's gRPC health endpoint.
//   - OnlineCheckInterval: how often the CLI probes server reachability.
type Config struct {
	ServerURL           string
	CacheDSN            string
	RequestTimeout      time.Duration
	HealthEndpointAddr  string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.CacheDSN = "collectadmin-cache.db"
	c.RequestTimeout = 10 * time.Second
	c.HealthEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
