package storage

import (
	"context"
	"time"

	"github.com/poiesic/finsift/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for the document registry.
type DocumentRepository interface {
	Repository

	// AddDocument registers a document. For documents with ID=0, generates a
	// new ID from sequence. Sets status to UPLOADED when unset and populates
	// CreatedAt/UpdatedAt. Returns the document with generated fields set.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.DocumentID) (*core.Document, error)

	// ListDocuments retrieves all registered documents ordered by ID.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// SetStatus updates a document's lifecycle status and error message.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the document doesn't exist.
	SetStatus(ctx context.Context, id core.DocumentID, status core.DocumentStatus, errorMessage string) error

	// SetContentHash records the most recently computed content hash.
	// Returns ErrNotFound if the document doesn't exist.
	SetContentHash(ctx context.Context, id core.DocumentID, contentHash string) error

	// SaveAnalysis persists the analysis result for a document, replacing any
	// previous result.
	SaveAnalysis(ctx context.Context, result *core.AnalysisResult) error

	// GetAnalysis retrieves the persisted analysis result for a document.
	// Returns ErrNotFound if no result exists.
	GetAnalysis(ctx context.Context, id core.DocumentID) (*core.AnalysisResult, error)

	// DeleteDocument removes a document and its analysis result.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.DocumentID) error
}

// CacheRepository provides the content-addressed processing result cache.
//
// A cached entry is valid only for the exact content hash it was stored
// under; content changes make previous entries unreachable without any
// explicit invalidation.
type CacheRepository interface {
	Repository

	// Lookup returns the cached entry for a document when one exists and its
	// stored content hash equals contentHash. Absence and hash mismatch are
	// both misses and return (nil, nil), never an error.
	Lookup(ctx context.Context, id core.DocumentID, contentHash string) (*core.CacheEntry, error)

	// Store writes the complete entry in a single transaction, replacing any
	// previous entry for the document. A partially populated entry is never
	// observable by readers.
	Store(ctx context.Context, entry *core.CacheEntry) error

	// Invalidate removes the cached entry for a document.
	// Missing entries are not an error.
	Invalidate(ctx context.Context, id core.DocumentID) error

	// InvalidateAll removes every cached entry.
	InvalidateAll(ctx context.Context) error
}

// VectorRepository stores parent blocks and per-document vector index builds.
type VectorRepository interface {
	Repository

	// PutParentBlock stores a parent block with the given TTL.
	PutParentBlock(ctx context.Context, block *core.ParentBlock, ttl time.Duration) error

	// GetParentBlock retrieves a parent block by ID. Returns ErrNotFound when
	// the block never existed or its TTL has expired.
	GetParentBlock(ctx context.Context, id string) (*core.ParentBlock, error)

	// PutIndex writes a complete index build for meta.DocumentId and swaps
	// the meta record to point at it, in one transaction. The superseded
	// build, if any, is removed after the swap. Other documents' indexes are
	// never touched.
	PutIndex(ctx context.Context, meta *core.VectorIndexMeta, chunks []*core.ChildChunk) error

	// GetIndexMeta retrieves the current index build descriptor for a
	// document. Returns ErrNotFound if the document has no index.
	GetIndexMeta(ctx context.Context, id core.DocumentID) (*core.VectorIndexMeta, error)

	// FindSimilar scans the document's current index build and returns up to
	// limit chunks ordered by similarity score (highest first).
	// Returns ErrNotFound if the document has no index.
	FindSimilar(ctx context.Context, id core.DocumentID, vector []float32, limit int) ([]*core.ChunkMatch, error)

	// DeleteIndex removes the document's index build and meta record.
	// Missing indexes are not an error.
	DeleteIndex(ctx context.Context, id core.DocumentID) error
}

// QueueRepository provides the durable processing job queue.
//
// Jobs move between a pending and an in-flight key space. A claimed job
// that is never acked (worker crash) is returned to pending by Recover on
// the next open, so delivery is at-least-once.
type QueueRepository interface {
	Repository

	// Push appends a pending job to the queue.
	Push(ctx context.Context, job *core.ProcessingJob) error

	// Claim atomically moves the oldest pending job in-flight and returns it
	// together with its claim token. Returns (nil, 0, nil) when the queue is
	// empty. Concurrent claims never return the same job.
	Claim(ctx context.Context) (*core.ProcessingJob, uint64, error)

	// Ack removes a claimed job. Unknown claims are not an error.
	Ack(ctx context.Context, claim uint64) error

	// Recover returns all in-flight jobs to pending and reports how many
	// were recovered. Called once when the queue store is opened.
	Recover(ctx context.Context) (int, error)

	// PendingCount reports the number of pending jobs.
	PendingCount(ctx context.Context) (int, error)
}
