package store

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	s, err := NewRedis(Config{
		TTL: time.Hour,
		Redis: &RedisConfig{
			Addr: mr.Addr(),
		},
	})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(ctx)
	})

	session := Session{SID: "redis-sid", UserID: 7, Name: "bob", Email: "bob@example.com"}
	if err := s.Save(ctx, session); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, ok, err := s.Get(ctx, session.SID)
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v, %v)", got, ok, err)
	}
	if got.UserID != 7 || got.Email != "bob@example.com" {
		t.Errorf("unexpected session: %+v", got)
	}

	if err := s.Remove(ctx, session.SID); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, session.SID); ok {
		t.Error("session survived removal")
	}
}

func TestRedisStoreMissingSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	s, err := NewRedis(Config{Redis: &RedisConfig{Addr: mr.Addr()}})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})

	if _, ok, err := s.Get(context.Background(), "absent"); ok || err != nil {
		t.Errorf("Get(absent) = (%v, %v), want miss without error", ok, err)
	}
}

func TestRedisStoreConfigValidation(t *testing.T) {
	if _, err := NewRedis(Config{}); err == nil {
		t.Error("expected error for missing redis config")
	}
	if _, err := NewRedis(Config{Redis: &RedisConfig{}}); err == nil {
		t.Error("expected error for missing redis address")
	}
}
