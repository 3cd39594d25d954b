package config

import "time"

// Defaults returns the baseline configuration used when no config file is
// present. Every field can be overridden by file or environment values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
			Auth: AuthConfig{
				TTL: 24 * time.Hour,
				Store: StoreConfig{
					Type: "memory",
					Memory: AuthMemoryStore{
						Cleanup: 5 * time.Minute,
					},
				},
			},
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "logs",
			File:  "server.log",
		},
		Web: WebConfig{
			Enabled:   false,
			StaticDir: "./web",
		},
		Transport: TransportConfig{
			WebSocket: WebSocketConfig{
				IP:   "0.0.0.0",
				Port: 8081,
				Path: "/ws",
			},
		},
		Database: DatabaseConfig{
			Path: "./data/catalog.db",
		},
	}
}
