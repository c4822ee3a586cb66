package blacklist

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreGraceSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Now()
	if err := store.Add(ctx, "jti-1", now.Add(time.Hour), now.Add(2*time.Hour)); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Inside the grace window the token is still accepted.
	blocked, err := store.Has(ctx, "jti-1")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if blocked {
		t.Fatal("entry inside grace window must not be reported blocked")
	}

	// A closed grace window blocks.
	if err := store.Add(ctx, "jti-2", now.Add(-time.Minute), now.Add(time.Hour)); err != nil {
		t.Fatalf("add: %v", err)
	}
	blocked, err = store.Has(ctx, "jti-2")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !blocked {
		t.Fatal("entry past its grace window must be blocked")
	}
}

func TestMemoryStoreForever(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.AddForever(ctx, "jti-f"); err != nil {
		t.Fatalf("add forever: %v", err)
	}
	blocked, err := store.Has(ctx, "jti-f")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !blocked {
		t.Fatal("forever entry must block immediately")
	}
}

func TestMemoryStoreUnknownJTI(t *testing.T) {
	blocked, err := NewMemoryStore().Has(context.Background(), "nope")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if blocked {
		t.Fatal("unknown jti must not be blocked")
	}
}

func TestMemoryStoreRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.AddForever(ctx, "jti-1"); err != nil {
		t.Fatalf("add forever: %v", err)
	}
	if err := store.Remove(ctx, "jti-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if blocked, _ := store.Has(ctx, "jti-1"); blocked {
		t.Fatal("removed entry must not block")
	}

	_ = store.AddForever(ctx, "a")
	_ = store.AddForever(ctx, "b")
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, have %d entries", store.Len())
	}
}

func TestMemoryStoreLazyRetirement(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	past := time.Now().Add(-time.Minute)
	if err := store.Add(ctx, "dead", past, past); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Both expiry and grace are in the past: the entry is dropped on access.
	blocked, err := store.Has(ctx, "dead")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if blocked {
		t.Fatal("retired entry must not block")
	}
	if store.Len() != 0 {
		t.Fatalf("retired entry not dropped, %d entries remain", store.Len())
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Remove(ctx, "never-added"); err != nil {
		t.Fatalf("remove of absent entry must be a no-op, got %v", err)
	}
}
