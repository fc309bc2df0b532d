package pipeline

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrCacheRepositoryRequired is returned when a cache repository is not provided.
	ErrCacheRepositoryRequired = errors.New("cache repository required")

	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrRegistryRequired is returned when a run registry is not provided.
	ErrRegistryRequired = errors.New("run registry required")

	// ErrEmbeddingCountMismatch indicates the embedder returned a different
	// number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match chunk count")

	// ErrCancelled signals that a cancellation request was observed at a
	// stage checkpoint. It is a control-flow outcome, not a failure: Process
	// maps it to the CANCELLED status and reports no error to its caller.
	ErrCancelled = errors.New("processing cancelled")
)
