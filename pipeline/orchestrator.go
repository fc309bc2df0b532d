// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/finsift/ai"
	"github.com/poiesic/finsift/chunk"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/extract"
	"github.com/poiesic/finsift/retry"
	"github.com/poiesic/finsift/storage"
)

const (
	// DefaultEmbedBatchSize is how many chunk texts go to the embedder per call.
	DefaultEmbedBatchSize = 32

	// DefaultMaxRetries bounds retries of AI service calls before the run
	// fails with status ERROR.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay for the exponential backoff
	// between AI service retries.
	DefaultRetryDelay = 2 * time.Second
)

// Orchestrator drives documents through the processing state machine:
// UPLOADED → PROCESSING → {COMPLETED | ERROR | CANCELLED}. Results are
// content-addressed: a run whose content hash has a cached entry completes
// from the cache without touching extraction, chunking or the AI services.
type Orchestrator struct {
	documents  storage.DocumentRepository
	cache      storage.CacheRepository
	vectors    storage.VectorRepository
	chunker    *chunk.Chunker
	provider   ai.AIProvider
	registry   *Registry
	progress   ProgressReporter
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithProgressReporter sets the reporter receiving step updates.
// Default is a no-op reporter.
func WithProgressReporter(reporter ProgressReporter) Option {
	return func(o *Orchestrator) error {
		if reporter == nil {
			reporter = &noopReporter{}
		}
		o.progress = reporter
		return nil
	}
}

// WithEmbedBatchSize sets how many chunk texts are embedded per call.
// Default is DefaultEmbedBatchSize.
func WithEmbedBatchSize(size int) Option {
	return func(o *Orchestrator) error {
		if size > 0 {
			o.batchSize = size
		}
		return nil
	}
}

// WithRetryPolicy sets the retry bounds for AI service calls.
// Defaults are DefaultMaxRetries and DefaultRetryDelay.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(o *Orchestrator) error {
		if maxAttempts > 0 {
			o.maxRetries = maxAttempts
		}
		if baseDelay > 0 {
			o.retryDelay = baseDelay
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a new pipeline orchestrator.
func NewOrchestrator(
	documents storage.DocumentRepository,
	cache storage.CacheRepository,
	vectors storage.VectorRepository,
	chunker *chunk.Chunker,
	provider ai.AIProvider,
	registry *Registry,
	opts ...Option,
) (*Orchestrator, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if cache == nil {
		return nil, ErrCacheRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	o := &Orchestrator{
		documents:  documents,
		cache:      cache,
		vectors:    vectors,
		chunker:    chunker,
		provider:   provider,
		registry:   registry,
		progress:   &noopReporter{},
		batchSize:  DefaultEmbedBatchSize,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Registry returns the run registry so callers can route cancellation
// requests.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Process runs the document through the pipeline to a terminal status.
// Cancellation observed at a checkpoint ends the run with status CANCELLED
// and no error. Any other failure sets status ERROR with a recorded
// message and is returned to the caller. The run's registry entry is
// released on every exit path.
func (o *Orchestrator) Process(ctx context.Context, id core.DocumentID) error {
	token := o.registry.Begin(id)
	defer o.registry.End(id)

	start := time.Now()
	err := o.run(ctx, id, token)
	switch {
	case errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled):
		if statusErr := o.documents.SetStatus(ctx, id, core.StatusCancelled, ""); statusErr != nil {
			o.logger.Error("failed to record cancelled status", "document", id, "error", statusErr)
		}
		o.logger.Info("processing cancelled", "document", id, "duration", time.Since(start))
		return nil
	case err != nil:
		if statusErr := o.documents.SetStatus(ctx, id, core.StatusError, err.Error()); statusErr != nil {
			o.logger.Error("failed to record error status", "document", id, "error", statusErr)
		}
		o.logger.Error("processing failed", "document", id, "error", err)
		return err
	}

	o.logger.Info("processing completed", "document", id, "duration", time.Since(start))
	return nil
}

// run executes the stages. It returns ErrCancelled when a checkpoint
// observes cancellation and leaves all status writes to Process.
func (o *Orchestrator) run(ctx context.Context, id core.DocumentID, token *Token) error {
	doc, err := o.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := o.documents.SetStatus(ctx, id, core.StatusProcessing, ""); err != nil {
		return err
	}

	o.report(id, "Computing content hash")
	contentHash, err := core.HashFile(doc.ContentPath)
	if err != nil {
		return fmt.Errorf("content hashing: %w", err)
	}
	if err := o.documents.SetContentHash(ctx, id, contentHash); err != nil {
		return err
	}

	entry, err := o.cache.Lookup(ctx, id, contentHash)
	if err != nil {
		return err
	}
	if entry != nil {
		o.logger.Info("cache hit, reusing stored results", "document", id, "hash", shortHash(contentHash))
		return o.finish(ctx, id, entry)
	}

	o.report(id, "Extracting text")
	text, err := extract.Text(ctx, doc.ContentPath)
	if err != nil {
		return fmt.Errorf("text extraction: %w", err)
	}
	if err := o.checkpoint(ctx, token); err != nil {
		return err
	}

	o.report(id, "Chunking document")
	layout := extract.ParseLayout(text, doc.Filename)
	if doc.Ticker != "" {
		layout.Ticker = doc.Ticker
	}
	if doc.FiscalYear != "" {
		layout.FiscalYear = doc.FiscalYear
	}
	chunks, err := o.chunker.Chunk(ctx, layout)
	if err != nil {
		return fmt.Errorf("chunking: %w", err)
	}
	if err := o.checkpoint(ctx, token); err != nil {
		return err
	}

	o.report(id, "Generating embeddings")
	indexRef, err := o.embedAndIndex(ctx, id, contentHash, chunks)
	if err != nil {
		return err
	}
	if err := o.checkpoint(ctx, token); err != nil {
		return err
	}

	docType := ai.DetectDocType(doc.Filename)

	o.report(id, "Generating summary")
	var summary string
	err = retry.WithBackoff(ctx, func() error {
		var callErr error
		summary, callErr = o.provider.Completer().Summarize(ctx, text, docType)
		return callErr
	}, o.maxRetries, o.retryDelay)
	if err != nil {
		return fmt.Errorf("summary generation: %w", err)
	}
	if err := o.checkpoint(ctx, token); err != nil {
		return err
	}

	o.report(id, "Extracting key figures")
	var response string
	err = retry.WithBackoff(ctx, func() error {
		var callErr error
		response, callErr = o.provider.Completer().ExtractFigures(ctx, text, docType)
		return callErr
	}, o.maxRetries, o.retryDelay)
	if err != nil {
		return fmt.Errorf("key figure extraction: %w", err)
	}
	figures := ParseKeyFigures(response)

	entry = &core.CacheEntry{
		DocumentId:     id,
		ContentHash:    contentHash,
		Summary:        summary,
		KeyFigures:     figures,
		VectorIndexRef: indexRef,
	}
	if err := o.cache.Store(ctx, entry); err != nil {
		return err
	}
	return o.finish(ctx, id, entry)
}

// embedAndIndex embeds the chunk texts in batches, normalizes the vectors
// and persists a fresh index build under the deterministic ref. Only this
// document's index is touched.
func (o *Orchestrator) embedAndIndex(ctx context.Context, id core.DocumentID, contentHash string, chunks []*core.ChildChunk) (string, error) {
	dimensions := 0
	for start := 0; start < len(chunks); start += o.batchSize {
		end := start + o.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		var vectors [][]float32
		err := retry.WithBackoff(ctx, func() error {
			var callErr error
			vectors, callErr = o.provider.Embedder().EmbedTexts(ctx, texts)
			return callErr
		}, o.maxRetries, o.retryDelay)
		if err != nil {
			return "", fmt.Errorf("embedding generation: %w", err)
		}
		if len(vectors) != len(batch) {
			return "", fmt.Errorf("%w: %d texts, %d vectors", ErrEmbeddingCountMismatch, len(batch), len(vectors))
		}

		for i, vector := range vectors {
			batch[i].Embedding = core.NormalizeVector(vector)
			if dimensions == 0 {
				dimensions = len(vector)
			}
		}
	}

	ref := core.IndexRef(id, contentHash)
	meta := &core.VectorIndexMeta{
		DocumentId:  id,
		Ref:         ref,
		ContentHash: contentHash,
		Dimensions:  dimensions,
		ChunkCount:  len(chunks),
	}
	if err := o.vectors.PutIndex(ctx, meta, chunks); err != nil {
		return "", fmt.Errorf("index build: %w", err)
	}
	return ref, nil
}

// finish persists the entry's results and marks the document COMPLETED.
// Shared by the cache-hit path and a fresh run.
func (o *Orchestrator) finish(ctx context.Context, id core.DocumentID, entry *core.CacheEntry) error {
	o.report(id, "Persisting results")
	result := &core.AnalysisResult{
		DocumentId:     id,
		Summary:        entry.Summary,
		KeyFigures:     entry.KeyFigures,
		VectorIndexRef: entry.VectorIndexRef,
		CreatedAt:      entry.CreatedAt,
	}
	if err := o.documents.SaveAnalysis(ctx, result); err != nil {
		return err
	}
	return o.documents.SetStatus(ctx, id, core.StatusCompleted, "")
}

// checkpoint observes cancellation between stages. A request raised during
// a stage takes effect here; an in-flight call is never interrupted.
func (o *Orchestrator) checkpoint(ctx context.Context, token *Token) error {
	if token.Cancelled() || ctx.Err() != nil {
		return ErrCancelled
	}
	return nil
}

// report delivers a best-effort step update.
func (o *Orchestrator) report(id core.DocumentID, step string) {
	o.progress.UpdateStep(id, step)
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
