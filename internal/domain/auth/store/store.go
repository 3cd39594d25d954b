package store

import (
	"context"
	"time"
)

// Session is one issued credential tracked server-side so logout can revoke
// it before its natural expiry.
type Session struct {
	SID       string     `json:"sid"`
	UserID    uint       `json:"user_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Store defines the behaviour required by the session gate.
type Store interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, sid string) (Session, bool, error)
	Remove(ctx context.Context, sid string) error
	CleanupExpired(ctx context.Context) error
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Redis  *RedisConfig
	Memory *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
