package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/collectadmin/internal/flagx"
	"github.com/dmitrijs2005/collectadmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Missing keys
// keep their current value; the timeout accepts "10s" or nanoseconds.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	CacheDSN            *string         `json:"cache_dsn"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	HealthEndpointAddr  *string         `json:"health_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with values loaded from the file named by
// -c/-config. Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.CacheDSN != nil {
		cfg.CacheDSN = *jc.CacheDSN
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.HealthEndpointAddr != nil {
		cfg.HealthEndpointAddr = *jc.HealthEndpointAddr
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
