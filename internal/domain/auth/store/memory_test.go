package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(Config{TTL: time.Hour})
	t.Cleanup(func() {
		_ = s.Close(ctx)
	})

	session := Session{SID: "sid-1", UserID: 1, Name: "alice", Email: "alice@example.com"}
	if err := s.Save(ctx, session); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, ok, err := s.Get(ctx, "sid-1")
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v, %v)", got, ok, err)
	}
	if got.Email != session.Email {
		t.Errorf("unexpected session: %+v", got)
	}
	if got.ExpiresAt == nil {
		t.Error("expected expiry to be filled from TTL")
	}

	if err := s.Remove(ctx, "sid-1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "sid-1"); ok {
		t.Error("session survived removal")
	}
}

func TestMemoryStoreRejectsEmptySID(t *testing.T) {
	s := NewMemory(Config{})
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})

	if err := s.Save(context.Background(), Session{}); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(Config{TTL: time.Hour})
	t.Cleanup(func() {
		_ = s.Close(ctx)
	})

	past := time.Now().Add(-time.Minute)
	if err := s.Save(ctx, Session{SID: "expired", ExpiresAt: &past}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if _, ok, _ := s.Get(ctx, "expired"); ok {
		t.Error("expired session should not be readable")
	}

	if err := s.CleanupExpired(ctx); err != nil {
		t.Fatalf("CleanupExpired error: %v", err)
	}
}
