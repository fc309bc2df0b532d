package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
)

// cacheLRUSize bounds the in-process layer in front of the persistent cache.
const cacheLRUSize = 128

// CacheRepository implements storage.CacheRepository for BadgerDB.
//
// A small in-process LRU fronts the persistent store. The LRU never decides
// a hit on its own terms: an entry only counts when its stored content hash
// matches the hash of the current content, so a stale entry can at worst
// cost a fallthrough read.
type CacheRepository struct {
	backend *Backend
	hot     *lru.Cache[core.DocumentID, *core.CacheEntry]
}

var _ storage.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(backend *Backend) (*CacheRepository, error) {
	hot, err := lru.New[core.DocumentID, *core.CacheEntry](cacheLRUSize)
	if err != nil {
		return nil, err
	}
	return &CacheRepository{
		backend: backend,
		hot:     hot,
	}, nil
}

// Close drops the in-process layer. The shared backend is closed by its owner.
func (r *CacheRepository) Close() error {
	r.hot.Purge()
	return nil
}

// WithTransaction delegates to the backend.
func (r *CacheRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Lookup returns the cached entry for a document when its stored hash
// matches contentHash. Absence and hash mismatch are both misses.
func (r *CacheRepository) Lookup(ctx context.Context, id core.DocumentID, contentHash string) (*core.CacheEntry, error) {
	if entry, ok := r.hot.Get(id); ok && entry.ContentHash == contentHash {
		return entry, nil
	}

	var entry *core.CacheEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			entry, unmarshalErr = storage.UnmarshalCacheEntry(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}

	if entry == nil || entry.ContentHash != contentHash {
		// Absent, or the content changed since the entry was stored
		return nil, nil
	}

	r.hot.Add(id, entry)
	return entry, nil
}

// Store writes the complete entry in one transaction, replacing any
// previous entry for the document.
func (r *CacheRepository) Store(ctx context.Context, entry *core.CacheEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCacheKey(entry.DocumentId)
		if err := tx.Set(key, storage.MarshalCacheEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.hot.Add(entry.DocumentId, entry)
	return nil
}

// Invalidate removes the cached entry for a document.
func (r *CacheRepository) Invalidate(ctx context.Context, id core.DocumentID) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCacheKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.hot.Remove(id)
	return nil
}

// InvalidateAll removes every cached entry.
func (r *CacheRepository) InvalidateAll(ctx context.Context) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(cachePrefix)
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
	if err != nil {
		return err
	}

	r.hot.Purge()
	return nil
}
