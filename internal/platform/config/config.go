package config

import (
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Web       WebConfig       `yaml:"web"`
	Transport TransportConfig `yaml:"transport"`
	Database  DatabaseConfig  `yaml:"database"`
}

type ServerConfig struct {
	IP   string     `yaml:"ip"`
	Port int        `yaml:"port"`
	Auth AuthConfig `yaml:"auth"`
}

type AuthConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
	Store  StoreConfig   `yaml:"store"`
}

type StoreConfig struct {
	Type   string          `yaml:"type"`
	Redis  AuthRedisStore  `yaml:"redis,omitempty"`
	Memory AuthMemoryStore `yaml:"memory,omitempty"`
}

type AuthRedisStore struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type AuthMemoryStore struct {
	Cleanup time.Duration `yaml:"cleanup"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

// TransportConfig groups the realtime transport settings.
type TransportConfig struct {
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type WebSocketConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}
