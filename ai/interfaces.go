package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates financial-analysis completions from document text.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Summarize generates a narrative summary of a financial document.
	// The docType hint (see DocTypes) selects the framing of the summary.
	Summarize(ctx context.Context, text, docType string) (string, error)

	// ExtractFigures asks the model for key financial figures and returns
	// the raw response text. The response is expected to contain a JSON
	// array of name/value/source-page records but is not guaranteed to be
	// well formed; callers are responsible for tolerant parsing.
	ExtractFigures(ctx context.Context, text, docType string) (string, error)

	// Answer generates an answer to a question, grounded in the provided
	// context passages from the document.
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Completer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
