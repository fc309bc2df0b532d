package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocument registers a document, generating an ID from sequence when unset.
func (r *DocumentRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if doc.Status == "" {
		doc.Status = core.StatusUploaded
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if doc.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			doc.Id = core.DocumentID(nextID)
		} else {
			// Explicit IDs must not collide with an existing document
			_, err := tx.Get(makeDocumentKey(doc.Id))
			if err == nil {
				return storage.ErrDuplicateKey
			}
			if err != badger.ErrKeyNotFound {
				return err
			}
		}

		doc.CreatedAt = time.Now().UTC()
		doc.UpdatedAt = doc.CreatedAt

		key := makeDocumentKey(doc.Id)
		value := storage.MarshalDocument(doc)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return doc, err
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.DocumentID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListDocuments retrieves all registered documents ordered by ID.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		seqKey := []byte(documentIDSeq)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			// Skip the sequence key, which shares the record prefix
			if slices.Equal(item.Key(), seqKey) {
				continue
			}
			var doc *core.Document
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keys sort lexicographically, so order numerically here
	slices.SortFunc(results, func(a, b *core.Document) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
	return results, nil
}

// SetStatus updates a document's lifecycle status and error message.
func (r *DocumentRepository) SetStatus(ctx context.Context, id core.DocumentID, status core.DocumentStatus, errorMessage string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		doc.Status = status
		doc.ErrorMessage = errorMessage
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// SetContentHash records the most recently computed content hash.
func (r *DocumentRepository) SetContentHash(ctx context.Context, id core.DocumentID, contentHash string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		doc.ContentHash = contentHash
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// SaveAnalysis persists the analysis result for a document.
func (r *DocumentRepository) SaveAnalysis(ctx context.Context, result *core.AnalysisResult) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if result.CreatedAt.IsZero() {
			result.CreatedAt = time.Now().UTC()
		}
		key := makeAnalysisKey(result.DocumentId)
		if err := tx.Set(key, storage.MarshalAnalysisResult(result)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetAnalysis retrieves the persisted analysis result for a document.
func (r *DocumentRepository) GetAnalysis(ctx context.Context, id core.DocumentID) (*core.AnalysisResult, error) {
	var result *core.AnalysisResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAnalysisKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalAnalysisResult(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// DeleteDocument removes a document and its analysis result.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id core.DocumentID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeAnalysisKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readDocument reads a document record from the transaction.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}
