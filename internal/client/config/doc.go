// Package config loads runtime configuration for the admin CLI.
//
// Sources, in increasing precedence: built-in defaults, an optional JSON file
// selected with -c or -config, then command-line flags.
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "cache_dsn": "collectadmin-cache.db",
//	  "request_timeout": "10s",
//	  "health_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s"
//	}
package config
