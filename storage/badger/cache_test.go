package badger

import (
	"context"
	"testing"

	"github.com/poiesic/finsift/core"
)

func TestCacheMissOnEmpty(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	entry, err := cache.Lookup(context.Background(), 1, "aabbcc")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("Expected a miss, got %+v", entry)
	}
}

func TestCacheStoreAndLookup(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	stored := &core.CacheEntry{
		DocumentId:  1,
		ContentHash: "aabbccddeeff",
		Summary:     "A solid quarter.",
		KeyFigures: []core.KeyFigure{
			{Name: "Revenue", Value: "$900M", SourcePage: 2},
		},
		VectorIndexRef: "vector_store/1/aabbccddeeff",
	}
	if err := cache.Store(ctx, stored); err != nil {
		t.Fatalf("Failed to store entry: %v", err)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set on store")
	}

	entry, err := cache.Lookup(ctx, 1, "aabbccddeeff")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry == nil {
		t.Fatal("Expected a hit")
	}
	if entry.Summary != "A solid quarter." {
		t.Fatalf("Expected summary to round-trip, got '%s'", entry.Summary)
	}
	if len(entry.KeyFigures) != 1 || entry.KeyFigures[0].Name != "Revenue" {
		t.Fatalf("Expected key figures to round-trip, got %+v", entry.KeyFigures)
	}
	if entry.VectorIndexRef != "vector_store/1/aabbccddeeff" {
		t.Fatalf("Expected index ref to round-trip, got '%s'", entry.VectorIndexRef)
	}
}

func TestCacheHashMismatchMisses(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	err = cache.Store(ctx, &core.CacheEntry{DocumentId: 1, ContentHash: "oldhash", Summary: "stale"})
	if err != nil {
		t.Fatalf("Failed to store entry: %v", err)
	}

	// The content changed, so the entry must not be served
	entry, err := cache.Lookup(ctx, 1, "newhash")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("Expected a miss after content change, got %+v", entry)
	}
}

func TestCacheInvalidate(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	err = cache.Store(ctx, &core.CacheEntry{DocumentId: 1, ContentHash: "aabbcc", Summary: "s"})
	if err != nil {
		t.Fatalf("Failed to store entry: %v", err)
	}
	if err := cache.Invalidate(ctx, 1); err != nil {
		t.Fatalf("Failed to invalidate: %v", err)
	}

	entry, err := cache.Lookup(ctx, 1, "aabbcc")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("Expected a miss after invalidation, got %+v", entry)
	}

	// Invalidating an absent entry is not an error
	if err := cache.Invalidate(ctx, 42); err != nil {
		t.Fatalf("Expected idempotent invalidate, got %v", err)
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	for id := core.DocumentID(1); id <= 3; id++ {
		err := cache.Store(ctx, &core.CacheEntry{DocumentId: id, ContentHash: "aabbcc", Summary: "s"})
		if err != nil {
			t.Fatalf("Failed to store entry %d: %v", id, err)
		}
	}

	if err := cache.InvalidateAll(ctx); err != nil {
		t.Fatalf("Failed to invalidate all: %v", err)
	}

	for id := core.DocumentID(1); id <= 3; id++ {
		entry, err := cache.Lookup(ctx, id, "aabbcc")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if entry != nil {
			t.Fatalf("Expected a miss for document %d, got %+v", id, entry)
		}
	}
}

func TestCacheStoreReplaces(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	err = cache.Store(ctx, &core.CacheEntry{DocumentId: 1, ContentHash: "hashv1", Summary: "first"})
	if err != nil {
		t.Fatalf("Failed to store first entry: %v", err)
	}
	err = cache.Store(ctx, &core.CacheEntry{DocumentId: 1, ContentHash: "hashv2", Summary: "second"})
	if err != nil {
		t.Fatalf("Failed to store second entry: %v", err)
	}

	entry, err := cache.Lookup(ctx, 1, "hashv2")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry == nil || entry.Summary != "second" {
		t.Fatalf("Expected replacement entry, got %+v", entry)
	}

	// The old hash no longer matches anything
	entry, err = cache.Lookup(ctx, 1, "hashv1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("Expected a miss for the superseded hash, got %+v", entry)
	}
}
