package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
//
// Each document's index is a set of chunk records under a build-scoped key
// prefix plus one meta record naming the current build. A rebuild writes the
// new build first and swaps the meta record in the same transaction, so
// readers always observe a complete index.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) *VectorRepository {
	return &VectorRepository{
		backend: backend,
	}
}

// Close is a no-op. The shared backend is closed by its owner.
func (r *VectorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VectorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutParentBlock stores a parent block with the given TTL.
func (r *VectorRepository) PutParentBlock(ctx context.Context, block *core.ParentBlock, ttl time.Duration) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeParentKey(block.Id), storage.MarshalParentBlock(block))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetParentBlock retrieves a parent block by ID. Expired blocks behave
// exactly like blocks that never existed.
func (r *VectorRepository) GetParentBlock(ctx context.Context, id string) (*core.ParentBlock, error) {
	var block *core.ParentBlock
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeParentKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			block, unmarshalErr = storage.UnmarshalParentBlock(val)
			return unmarshalErr
		})
	}, false)
	return block, err
}

// PutIndex writes a complete index build and swaps the meta record to point
// at it. The superseded build is removed after the swap.
func (r *VectorRepository) PutIndex(ctx context.Context, meta *core.VectorIndexMeta, chunks []*core.ChildChunk) error {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	meta.ChunkCount = len(chunks)

	oldMeta, err := r.GetIndexMeta(ctx, meta.DocumentId)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	newBuild := indexBuildID(meta.ContentHash)
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for i, chunk := range chunks {
			key := makeChunkKey(meta.DocumentId, newBuild, i)
			if err := tx.Set(key, storage.MarshalChildChunk(chunk)); err != nil {
				return err
			}
		}
		if err := tx.Set(makeVectorMetaKey(meta.DocumentId), storage.MarshalIndexMeta(meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	// Remove the superseded build once the new one is current
	if oldMeta != nil {
		oldBuild := indexBuildID(oldMeta.ContentHash)
		if oldBuild != newBuild {
			return r.deleteBuild(meta.DocumentId, oldBuild)
		}
	}
	return nil
}

// GetIndexMeta retrieves the current index build descriptor for a document.
func (r *VectorRepository) GetIndexMeta(ctx context.Context, id core.DocumentID) (*core.VectorIndexMeta, error) {
	var meta *core.VectorIndexMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorMetaKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalIndexMeta(val)
			return unmarshalErr
		})
	}, false)
	return meta, err
}

// FindSimilar scans the document's current index build and returns up to
// limit chunks ordered by similarity score.
func (r *VectorRepository) FindSimilar(ctx context.Context, id core.DocumentID, vector []float32, limit int) ([]*core.ChunkMatch, error) {
	if limit <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	meta, err := r.GetIndexMeta(ctx, id)
	if err != nil {
		return nil, err
	}

	var results []*core.ChunkMatch
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkBuildPrefix(id, indexBuildID(meta.ContentHash))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.ChildChunk
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				chunk, unmarshalErr = storage.UnmarshalChildChunk(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Embedding) == 0 {
				continue
			}

			// Cosine similarity (dot product for normalized vectors)
			results = append(results, &core.ChunkMatch{
				Chunk: chunk,
				Score: dotProduct(vector, chunk.Embedding),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ChunkMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteIndex removes the document's index build and meta record.
func (r *VectorRepository) DeleteIndex(ctx context.Context, id core.DocumentID) error {
	meta, err := r.GetIndexMeta(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeVectorMetaKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	return r.deleteBuild(id, indexBuildID(meta.ContentHash))
}

// deleteBuild removes every chunk record under one build prefix.
func (r *VectorRepository) deleteBuild(id core.DocumentID, build string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkBuildPrefix(id, build)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// indexBuildID identifies one index build: the short content hash that also
// terminates the deterministic index ref.
func indexBuildID(contentHash string) string {
	if len(contentHash) > 12 {
		return contentHash[:12]
	}
	return contentHash
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
