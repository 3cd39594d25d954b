package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed session store.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "auth:session:"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(sid string) string {
	return s.prefix + sid
}

func (s *redisStore) Save(ctx context.Context, session Session) error {
	if session.SID == "" {
		return fmt.Errorf("session id required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	expiry := s.ttl
	if session.ExpiresAt != nil {
		expiry = time.Until(*session.ExpiresAt)
	}
	if expiry <= 0 {
		return fmt.Errorf("session already expired")
	}
	return s.client.Set(ctx, s.key(session.SID), data, expiry).Err()
}

func (s *redisStore) Get(ctx context.Context, sid string) (Session, bool, error) {
	data, err := s.client.Get(ctx, s.key(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, false, err
	}
	return session, true, nil
}

func (s *redisStore) Remove(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}

// CleanupExpired is a no-op: redis evicts keys by TTL on its own.
func (s *redisStore) CleanupExpired(_ context.Context) error {
	return nil
}

func (s *redisStore) Close(_ context.Context) error {
	return s.client.Close()
}
