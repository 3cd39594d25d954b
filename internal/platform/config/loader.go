package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

// Loader reads configuration from an optional YAML file layered over the
// built-in defaults, with environment variables applied last.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader looking at the default config path.
func NewLoader() *Loader {
	return &Loader{
		path:      "config.yaml",
		useDotEnv: true,
	}
}

// WithPath overrides the config file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load builds the effective configuration.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			// Missing .env is fine, system environment is used as-is.
			_ = err
		}
	}

	cfg := Defaults()
	path := ""

	data, err := os.ReadFile(l.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "load",
				fmt.Sprintf("parse %s", l.path), err)
		}
		path = l.path
	case os.IsNotExist(err):
		// Defaults plus environment only.
	default:
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "load",
			fmt.Sprintf("read %s", l.path), err)
	}

	applyEnv(cfg)

	if cfg.Server.Auth.Secret == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "load",
			"auth secret is required (set JWT_SECRET or server.auth.secret)")
	}

	return &Result{Config: cfg, Path: path}, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Transport.WebSocket.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Server.Auth.Secret = v
	}
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil && ttl > 0 {
			cfg.Server.Auth.TTL = ttl
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Server.Auth.Store.Type = "redis"
		cfg.Server.Auth.Store.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
