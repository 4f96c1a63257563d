package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, "abc", map[string]any{"user": "ada"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	values, err := store.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if values["user"] != "ada" {
		t.Errorf("user = %v, want ada", values["user"])
	}

	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(-time.Second) // already expired on save
	ctx := context.Background()

	if err := store.Save(ctx, "gone", map[string]any{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Load(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired Load = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(-time.Second)
	ctx := context.Background()

	store.Save(ctx, "a", map[string]any{})
	store.Save(ctx, "b", map[string]any{})
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}

	store.Sweep()
	if store.Len() != 0 {
		t.Errorf("Len after sweep = %d, want 0", store.Len())
	}
}

func TestMemoryStoreLoadCopies(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	store.Save(ctx, "abc", map[string]any{"n": 1})
	values, _ := store.Load(ctx, "abc")
	values["n"] = 2

	again, _ := store.Load(ctx, "abc")
	if again["n"] != 1 {
		t.Error("Load must return a copy, not the stored map")
	}
}
