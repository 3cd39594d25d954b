package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryStore struct {
	items       map[string]Session
	mutex       sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory session store.
func NewMemory(cfg Config) Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	s := &memoryStore{
		items:       make(map[string]Session),
		ttl:         ttl,
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

func (s *memoryStore) gcLoop() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = s.CleanupExpired(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) Save(_ context.Context, session Session) error {
	if session.SID == "" {
		return fmt.Errorf("session id required")
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.ExpiresAt == nil && s.ttl > 0 {
		exp := now.Add(s.ttl)
		session.ExpiresAt = &exp
	}

	s.mutex.Lock()
	s.items[session.SID] = session
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Get(_ context.Context, sid string) (Session, bool, error) {
	s.mutex.RLock()
	session, ok := s.items[sid]
	s.mutex.RUnlock()
	if !ok {
		return Session{}, false, nil
	}
	if session.ExpiresAt != nil && time.Now().After(*session.ExpiresAt) {
		return Session{}, false, nil
	}
	return session, true, nil
}

func (s *memoryStore) Remove(_ context.Context, sid string) error {
	s.mutex.Lock()
	delete(s.items, sid)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) CleanupExpired(_ context.Context) error {
	now := time.Now()
	s.mutex.Lock()
	for sid, session := range s.items {
		if session.ExpiresAt != nil && now.After(*session.ExpiresAt) {
			delete(s.items, sid)
		}
	}
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Close(_ context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}
