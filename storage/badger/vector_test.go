package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
)

// indexChunk builds a chunk with a 3-dimensional embedding for similarity
// ordering tests.
func indexChunk(id, parentID, content string, embedding []float32) *core.ChildChunk {
	return &core.ChildChunk{
		Id:        id,
		ParentId:  parentID,
		Content:   content,
		Kind:      core.ChunkKindNarrative,
		Embedding: embedding,
	}
}

func TestParentBlockRoundTrip(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	block := &core.ParentBlock{
		Id:           "parent-1",
		Content:      "The full section narrative spanning several pages.",
		SectionTitle: "Pages 1-5",
		Ticker:       "ACME",
		FiscalYear:   "2024",
		PageStart:    1,
	}
	if err := vectors.PutParentBlock(ctx, block, 0); err != nil {
		t.Fatalf("Failed to put parent block: %v", err)
	}

	loaded, err := vectors.GetParentBlock(ctx, "parent-1")
	if err != nil {
		t.Fatalf("Failed to get parent block: %v", err)
	}
	if loaded.Content != block.Content {
		t.Fatalf("Expected content to round-trip, got '%s'", loaded.Content)
	}
	if loaded.SectionTitle != "Pages 1-5" || loaded.PageStart != 1 {
		t.Fatalf("Unexpected parent block: %+v", loaded)
	}
}

func TestParentBlockMissing(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	_, err = vectors.GetParentBlock(context.Background(), "no-such-parent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestIndexPutAndFindSimilar(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	meta := &core.VectorIndexMeta{
		DocumentId:  1,
		Ref:         "vector_store/1/aabbccddeeff",
		ContentHash: "aabbccddeeff00112233",
		Dimensions:  3,
	}
	chunks := []*core.ChildChunk{
		indexChunk("c1", "p1", "revenue section", []float32{1, 0, 0}),
		indexChunk("c2", "p1", "expense section", []float32{0, 1, 0}),
		indexChunk("c3", "p2", "outlook section", []float32{0, 0, 1}),
	}
	if err := vectors.PutIndex(ctx, meta, chunks); err != nil {
		t.Fatalf("Failed to put index: %v", err)
	}

	loaded, err := vectors.GetIndexMeta(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get index meta: %v", err)
	}
	if loaded.ChunkCount != 3 {
		t.Fatalf("Expected chunk count 3, got %d", loaded.ChunkCount)
	}
	if loaded.ContentHash != "aabbccddeeff00112233" {
		t.Fatalf("Expected content hash to round-trip, got '%s'", loaded.ContentHash)
	}

	// A query aligned with the second chunk must rank it first
	matches, err := vectors.FindSimilar(ctx, 1, []float32{0, 1, 0}, 2)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].Chunk.Id != "c2" {
		t.Fatalf("Expected best match c2, got %s", matches[0].Chunk.Id)
	}
	if matches[0].Score < matches[1].Score {
		t.Fatal("Expected matches ordered by descending score")
	}
}

func TestFindSimilarValidation(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := vectors.FindSimilar(ctx, 1, []float32{1}, 0); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for zero limit, got %v", err)
	}
	if _, err := vectors.FindSimilar(ctx, 1, nil, 3); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for empty vector, got %v", err)
	}
}

func TestFindSimilarWithoutIndex(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	_, err = vectors.FindSimilar(context.Background(), 1, []float32{1, 0, 0}, 3)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestIndexRebuildSwapsBuilds(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	first := &core.VectorIndexMeta{
		DocumentId:  1,
		Ref:         "vector_store/1/aaaaaaaaaaaa",
		ContentHash: "aaaaaaaaaaaa11111111",
		Dimensions:  3,
	}
	err = vectors.PutIndex(ctx, first, []*core.ChildChunk{
		indexChunk("old-1", "p1", "old content", []float32{1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("Failed to put first index: %v", err)
	}

	second := &core.VectorIndexMeta{
		DocumentId:  1,
		Ref:         "vector_store/1/bbbbbbbbbbbb",
		ContentHash: "bbbbbbbbbbbb22222222",
		Dimensions:  3,
	}
	err = vectors.PutIndex(ctx, second, []*core.ChildChunk{
		indexChunk("new-1", "p2", "new content", []float32{1, 0, 0}),
		indexChunk("new-2", "p2", "more new content", []float32{0, 1, 0}),
	})
	if err != nil {
		t.Fatalf("Failed to put second index: %v", err)
	}

	meta, err := vectors.GetIndexMeta(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get index meta: %v", err)
	}
	if meta.ContentHash != "bbbbbbbbbbbb22222222" {
		t.Fatalf("Expected the new build to be current, got hash '%s'", meta.ContentHash)
	}
	if meta.ChunkCount != 2 {
		t.Fatalf("Expected chunk count 2, got %d", meta.ChunkCount)
	}

	// Only the new build's chunks are visible
	matches, err := vectors.FindSimilar(ctx, 1, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches from the new build, got %d", len(matches))
	}
	for _, match := range matches {
		if match.Chunk.Content == "old content" {
			t.Fatal("Expected the superseded build to be gone")
		}
	}
}

func TestDeleteIndex(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	meta := &core.VectorIndexMeta{
		DocumentId:  1,
		Ref:         "vector_store/1/aabbccddeeff",
		ContentHash: "aabbccddeeff00112233",
		Dimensions:  3,
	}
	err = vectors.PutIndex(ctx, meta, []*core.ChildChunk{
		indexChunk("c1", "p1", "content", []float32{1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("Failed to put index: %v", err)
	}

	if err := vectors.DeleteIndex(ctx, 1); err != nil {
		t.Fatalf("Failed to delete index: %v", err)
	}
	if _, err := vectors.GetIndexMeta(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent index is not an error
	if err := vectors.DeleteIndex(ctx, 1); err != nil {
		t.Fatalf("Expected idempotent delete, got %v", err)
	}
}

func TestIndexDocumentIsolation(t *testing.T) {
	docs, cache, vectors, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { vectors.Close(); cache.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	for id := core.DocumentID(1); id <= 2; id++ {
		meta := &core.VectorIndexMeta{
			DocumentId:  id,
			Ref:         core.IndexRef(id, "aabbccddeeff00112233"),
			ContentHash: "aabbccddeeff00112233",
			Dimensions:  3,
		}
		err := vectors.PutIndex(ctx, meta, []*core.ChildChunk{
			indexChunk("c1", "p1", "content", []float32{1, 0, 0}),
		})
		if err != nil {
			t.Fatalf("Failed to put index for document %d: %v", id, err)
		}
	}

	if err := vectors.DeleteIndex(ctx, 1); err != nil {
		t.Fatalf("Failed to delete index: %v", err)
	}

	// The other document's index is untouched
	matches, err := vectors.FindSimilar(ctx, 2, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match for document 2, got %d", len(matches))
	}
}
