package core

//go:generate go run ../cmd/musgen

import (
	"time"
)

// DocumentID is a unique identifier for registered documents.
// It is assigned from a database sequence; 0 means unassigned.
type DocumentID uint64

// DocumentStatus tracks a document through the processing lifecycle.
type DocumentStatus string

const (
	// StatusUploaded means the document is registered but not yet processed.
	StatusUploaded DocumentStatus = "UPLOADED"
	// StatusProcessing means a pipeline run currently owns the document.
	StatusProcessing DocumentStatus = "PROCESSING"
	// StatusCompleted means processing finished and results are persisted.
	StatusCompleted DocumentStatus = "COMPLETED"
	// StatusError means processing failed; ErrorMessage holds the cause.
	StatusError DocumentStatus = "ERROR"
	// StatusCancelled means processing was cancelled cooperatively.
	StatusCancelled DocumentStatus = "CANCELLED"
)

// Terminal reports whether the status is a terminal state. Every pipeline
// exit path writes a terminal status; no document stays in PROCESSING.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError || s == StatusCancelled
}

// ChunkKindNarrative marks prose chunks produced by the recursive splitter.
const ChunkKindNarrative = "narrative"

// Document represents a registered financial document.
// Status and ErrorMessage are mutated only by the pipeline and explicit
// cancel flows.
type Document struct {
	Id           DocumentID
	Filename     string
	ContentPath  string // filesystem path to the uploaded content
	ContentHash  string // hex BLAKE2b-256 of the content, set on first processing
	Status       DocumentStatus
	ErrorMessage string
	Ticker       string
	FiscalYear   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProcessingJob is the durable queue message requesting a pipeline run.
// Delivery is at-least-once; runs are idempotent via the result cache.
type ProcessingJob struct {
	DocumentId DocumentID
	EnqueuedAt time.Time
}

// KeyFigure is a single named financial metric extracted from a document.
type KeyFigure struct {
	Name       string
	Value      string
	SourcePage int
}

// CacheEntry holds the complete processing results for one document at one
// content hash. Entries are written all-or-nothing; a partially populated
// entry is never observable.
type CacheEntry struct {
	DocumentId     DocumentID
	ContentHash    string
	Summary        string
	KeyFigures     []KeyFigure
	VectorIndexRef string
	CreatedAt      time.Time
}

// AnalysisResult is the persisted outcome of a successful pipeline run.
type AnalysisResult struct {
	DocumentId     DocumentID
	Summary        string
	KeyFigures     []KeyFigure
	VectorIndexRef string
	CreatedAt      time.Time
}

// ParentBlock is a coarse contextual block (typically a document section)
// stored with a TTL. A missing parent is tolerated at answer time.
type ParentBlock struct {
	Id           string // uuid
	Content      string
	SectionTitle string
	Ticker       string
	FiscalYear   string
	PageStart    int
}

// ChildChunk is the atomic retrieval unit. Each chunk carries a
// back-reference to the parent block it was split from.
type ChildChunk struct {
	Id           string // uuid
	ParentId     string
	Content      string
	SectionTitle string
	Ticker       string
	FiscalYear   string
	ChunkIndex   int
	PageStart    int
	SourceFile   string
	Kind         string
	Embedding    []float32
}

// VectorIndexMeta describes the current index build for a document.
// Swapping the meta record supersedes the previous build.
type VectorIndexMeta struct {
	DocumentId  DocumentID
	Ref         string
	ContentHash string
	Dimensions  int
	ChunkCount  int
	CreatedAt   time.Time
}

// SourceRef points a generated answer back at supporting document content.
type SourceRef struct {
	Page    int
	Section string
	Snippet string
}

// QuestionAnswer is the result of a retrieval question against a document.
type QuestionAnswer struct {
	Answer  string
	Sources []SourceRef
}

// Section is one contiguous region of extracted document text.
type Section struct {
	Title     string
	Content   string
	PageStart int
}

// DocumentLayout is the chunker input: ordered sections plus the document
// metadata inherited by every chunk.
type DocumentLayout struct {
	Sections   []Section
	Ticker     string
	FiscalYear string
	Filename   string
}

// ChunkMatch represents a child chunk matched by vector similarity search.
type ChunkMatch struct {
	Chunk *ChildChunk
	Score float32
}
