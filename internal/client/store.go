package client

import (
	"sort"
	"sync"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
)

// Store keeps the client-side view of the catalog: one entry per
// identifier, ordered ascending by identifier. All methods are safe for
// concurrent use, so the push goroutine and the application can share it.
type Store struct {
	mu       sync.RWMutex
	byID     map[int64]catalog.Product
	order    []int64
	onChange func()
}

func NewStore() *Store {
	return &Store{byID: make(map[int64]catalog.Product)}
}

// OnChange registers a callback fired after every mutation that changed
// the store. At most one callback is kept.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// ReplaceAll swaps the whole view for the given snapshot. Records with
// invalid identifiers are dropped, later duplicates win.
func (s *Store) ReplaceAll(products []catalog.Product) {
	s.mu.Lock()
	s.byID = make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		if p.ID == catalog.InvalidID {
			continue
		}
		s.byID[p.ID] = p
	}
	s.reindex()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Upsert merges the record into the existing entry or inserts a fresh
// normalized one when the identifier is not known yet. Records without a
// usable identifier are ignored.
func (s *Store) Upsert(record catalog.Record) {
	id := catalog.CoerceID(record["_id"])
	if id == catalog.InvalidID {
		return
	}

	s.mu.Lock()
	if base, ok := s.byID[id]; ok {
		s.byID[id] = catalog.Merge(base, record)
		fn := s.onChange
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	s.byID[id] = catalog.Normalize(record)
	s.reindex()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Remove drops the entry for id. Removing an absent id is a no-op.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.byID, id)
	s.reindex()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Store) Get(id int64) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// List returns the products ordered ascending by identifier.
func (s *Store) List() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Apply routes one push event into the store.
func (s *Store) Apply(event catalog.Event) {
	record, ok := event.Data.(catalog.Record)
	if !ok {
		if m, isMap := event.Data.(map[string]any); isMap {
			record = catalog.Record(m)
		} else {
			return
		}
	}

	switch event.Type {
	case catalog.EventCreated, catalog.EventUpdated:
		s.Upsert(record)
	case catalog.EventDeleted:
		s.Remove(catalog.CoerceID(record["_id"]))
	}
}

// reindex rebuilds the sorted order. Caller holds the write lock.
func (s *Store) reindex() {
	s.order = s.order[:0]
	for id := range s.byID {
		s.order = append(s.order, id)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })
}
