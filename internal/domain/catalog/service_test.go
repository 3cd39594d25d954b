package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/eventbus"
	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/storage"
	testutil "github.com/ghelioth/les-bons-artisants-test/internal/platform/testing"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func newTestService(t *testing.T) (*Service, *eventRecorder) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := storage.Migrate(db, &Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := testutil.SetupTestLogger(t)
	bus := eventbus.New()
	recorder := &eventRecorder{}
	if err := bus.Subscribe(Topic, recorder.record); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	return NewService(NewRepository(db), bus, logger), recorder
}

func TestServiceCreateAssignsIdentifier(t *testing.T) {
	svc, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Record{
		"name":           "Widget",
		"category":       "tools",
		"price":          "19.99",
		"rating":         4,
		"warranty_years": "2",
		"available":      "true",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected assigned identifier, got %d", created.ID)
	}
	if created.Price != 19.99 {
		t.Errorf("Price = %v, want 19.99", created.Price)
	}
	if created.WarrantyYears == nil || *created.WarrantyYears != 2 {
		t.Errorf("WarrantyYears = %v, want 2", created.WarrantyYears)
	}
	if !created.Available {
		t.Error("Available = false, want true")
	}

	events := recorder.all()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	if events[0].Type != EventCreated {
		t.Errorf("event type = %q, want %q", events[0].Type, EventCreated)
	}
}

func TestServiceCreateIgnoresClientSuppliedID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, Record{"_id": 999, "name": "A"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if first.ID == 999 {
		t.Error("client-supplied identifier was honoured; identifiers are server-assigned")
	}
}

func TestServiceCreateRejectsOutOfRangeRating(t *testing.T) {
	svc, recorder := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Record{"name": "Bad", "rating": 7})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !platformerrors.IsKind(err, platformerrors.KindValidation) {
		t.Errorf("error kind = %v, want validation", err)
	}

	// Nothing was persisted and nothing was broadcast.
	products, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("store contains %d products after rejected create", len(products))
	}
	if len(recorder.all()) != 0 {
		t.Error("rejected create must not publish an event")
	}
}

func TestServiceCreateValidationMessages(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{"non numeric price", Record{"price": "cheap"}, "price must be a number"},
		{"negative price", Record{"price": -1}, "price must be a non-negative number"},
		{"non numeric rating", Record{"rating": "great"}, "rating must be a number"},
		{"rating too high", Record{"rating": 5.5}, "rating must be between 0 and 5"},
		{"negative warranty", Record{"warranty_years": -2}, "warranty_years must be a non-negative integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.record)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := platformerrors.Message(err); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServiceUpdateMergesAllowListedFields(t *testing.T) {
	svc, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Record{
		"name": "Widget", "category": "tools", "price": 19.99, "rating": 4, "available": true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, Record{"price": 25.5, "_id": 12345})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("identifier mutated: %d -> %d", created.ID, updated.ID)
	}
	if updated.Price != 25.5 {
		t.Errorf("Price = %v, want 25.5", updated.Price)
	}
	if updated.Name != "Widget" || updated.Category != "tools" || updated.Rating != 4 {
		t.Errorf("update clobbered absent fields: %+v", updated)
	}

	events := recorder.all()
	if len(events) != 2 {
		t.Fatalf("expected create + update events, got %d", len(events))
	}
	if events[1].Type != EventUpdated {
		t.Errorf("second event type = %q, want %q", events[1].Type, EventUpdated)
	}
}

func TestServiceUpdateRejectsEmptyPatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Record{"name": "Widget"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err = svc.Update(ctx, created.ID, Record{"_id": 9, "bogus": "field"})
	if err == nil {
		t.Fatal("expected validation error for patch without mutable fields")
	}
	if !platformerrors.IsKind(err, platformerrors.KindValidation) {
		t.Errorf("error kind = %v, want validation", err)
	}
}

func TestServiceUpdateUnknownIdentifier(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), 404, Record{"name": "Ghost"})
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !platformerrors.IsKind(err, platformerrors.KindNotFound) {
		t.Errorf("error kind = %v, want notfound", err)
	}
}

func TestServiceDeleteIsIdempotentForCallers(t *testing.T) {
	svc, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Record{"name": "Widget"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	err = svc.Delete(ctx, created.ID)
	if !platformerrors.IsKind(err, platformerrors.KindNotFound) {
		t.Errorf("second delete error kind = %v, want notfound", err)
	}

	events := recorder.all()
	if len(events) != 2 {
		t.Fatalf("expected create + single delete event, got %d", len(events))
	}
	if events[1].Type != EventDeleted {
		t.Errorf("second event type = %q, want %q", events[1].Type, EventDeleted)
	}
}

func TestServiceListOrderedByIdentifier(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		if _, err := svc.Create(ctx, Record{"name": name}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	products, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].ID >= products[i].ID {
			t.Errorf("list not ordered ascending: %v", products)
		}
	}
}
