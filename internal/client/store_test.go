package client

import (
	"testing"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
)

func TestStoreUpsertInsertsUnknownID(t *testing.T) {
	store := NewStore()

	store.Upsert(catalog.Record{"_id": float64(7), "name": "Widget", "price": "19.99"})

	got, ok := store.Get(7)
	if !ok {
		t.Fatal("product not inserted")
	}
	if got.Name != "Widget" || got.Price != 19.99 {
		t.Errorf("unexpected product: %+v", got)
	}
}

func TestStoreUpsertMergesKnownID(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]catalog.Product{
		{ID: 1, Name: "Widget", Category: "tools", Price: 19.99, Available: true},
	})

	store.Upsert(catalog.Record{"_id": float64(1), "price": 25.5})

	got, _ := store.Get(1)
	if got.Price != 25.5 {
		t.Errorf("price = %v, want 25.5", got.Price)
	}
	if got.Name != "Widget" || got.Category != "tools" || !got.Available {
		t.Errorf("merge clobbered untouched fields: %+v", got)
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
}

func TestStoreIgnoresInvalidIdentifiers(t *testing.T) {
	store := NewStore()

	store.Upsert(catalog.Record{"name": "no id"})
	store.Upsert(catalog.Record{"_id": "abc", "name": "bad id"})
	store.Upsert(catalog.Record{"_id": float64(-3), "name": "negative"})

	if store.Len() != 0 {
		t.Errorf("invalid records were stored, len = %d", store.Len())
	}
}

func TestStoreListOrderedAscending(t *testing.T) {
	store := NewStore()
	store.Upsert(catalog.Record{"_id": float64(30), "name": "c"})
	store.Upsert(catalog.Record{"_id": float64(10), "name": "a"})
	store.Upsert(catalog.Record{"_id": float64(20), "name": "b"})

	list := store.List()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i, want := range []int64{10, 20, 30} {
		if list[i].ID != want {
			t.Errorf("list[%d].ID = %d, want %d", i, list[i].ID, want)
		}
	}
}

func TestStoreRemoveIdempotent(t *testing.T) {
	store := NewStore()
	store.Upsert(catalog.Record{"_id": float64(1), "name": "Widget"})

	store.Remove(1)
	store.Remove(1)
	store.Remove(99)

	if store.Len() != 0 {
		t.Errorf("len = %d, want 0", store.Len())
	}
}

func TestStoreReplaceAllReconciles(t *testing.T) {
	store := NewStore()
	store.Upsert(catalog.Record{"_id": float64(1), "name": "stale"})
	store.Upsert(catalog.Record{"_id": float64(2), "name": "gone"})

	store.ReplaceAll([]catalog.Product{
		{ID: 1, Name: "fresh"},
		{ID: 3, Name: "new"},
	})

	if store.Len() != 2 {
		t.Fatalf("len = %d, want 2", store.Len())
	}
	if _, ok := store.Get(2); ok {
		t.Error("entry 2 survived the snapshot swap")
	}
	got, _ := store.Get(1)
	if got.Name != "fresh" {
		t.Errorf("entry 1 name = %q, want fresh", got.Name)
	}
}

func TestStoreApplyRoutesEvents(t *testing.T) {
	store := NewStore()

	store.Apply(catalog.Event{Type: catalog.EventCreated, Data: map[string]any{
		"_id": float64(5), "name": "Widget",
	}})
	if _, ok := store.Get(5); !ok {
		t.Fatal("created event not applied")
	}

	store.Apply(catalog.Event{Type: catalog.EventUpdated, Data: map[string]any{
		"_id": float64(5), "price": float64(9),
	}})
	got, _ := store.Get(5)
	if got.Price != 9 || got.Name != "Widget" {
		t.Errorf("updated event not merged: %+v", got)
	}

	store.Apply(catalog.Event{Type: catalog.EventDeleted, Data: map[string]any{
		"_id": float64(5),
	}})
	if _, ok := store.Get(5); ok {
		t.Error("deleted event not applied")
	}

	// A deletion for an id never seen must not insert anything.
	store.Apply(catalog.Event{Type: catalog.EventDeleted, Data: map[string]any{
		"_id": float64(42),
	}})
	if store.Len() != 0 {
		t.Errorf("len = %d, want 0", store.Len())
	}
}

func TestStoreOnChangeFires(t *testing.T) {
	store := NewStore()
	var fired int
	store.OnChange(func() { fired++ })

	store.Upsert(catalog.Record{"_id": float64(1), "name": "Widget"})
	store.Remove(1)
	store.Remove(1) // no-op, must not fire

	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
}
