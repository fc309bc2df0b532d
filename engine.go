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


package finsift

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/finsift/ai"
	"github.com/poiesic/finsift/ai/mock"
	"github.com/poiesic/finsift/ai/openai"
	"github.com/poiesic/finsift/chunk"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/pipeline"
	"github.com/poiesic/finsift/queue"
	"github.com/poiesic/finsift/retrieval"
	"github.com/poiesic/finsift/storage"
	"github.com/poiesic/finsift/storage/badger"
)

// Engine is the top-level facade over the document store, the processing
// pipeline, the dispatch queue and the retrieval layer. One Engine owns
// one data directory; open it once and share it.
type Engine struct {
	backend      *badger.Backend
	documents    storage.DocumentRepository
	cache        storage.CacheRepository
	vectors      storage.VectorRepository
	provider     ai.AIProvider
	registry     *pipeline.Registry
	orchestrator *pipeline.Orchestrator
	answerer     *retrieval.Answerer
	queue        *queue.Queue // nil when the queue store could not be opened
	pool         *ants.Pool
	workers      int
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	logger    *slog.Logger
	parentTTL time.Duration
	workers   int
	queueDir  string
	topK      int
	progress  pipeline.ProgressReporter
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithAIProvider injects a pre-built AI provider, bypassing config-based
// provider selection. The engine takes ownership and closes it.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithLogger sets the logger for the engine and its components.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParentTTL sets the retention for parent context blocks.
func WithParentTTL(ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.parentTTL = ttl
	}
}

// WithWorkers sets the worker count used by RunWorkers and the async
// processing pool. Defaults to half the CPU count, minimum one.
func WithWorkers(workers int) EngineOption {
	return func(o *engineOptions) {
		o.workers = workers
	}
}

// WithQueueDir overrides the dispatch queue store location, which
// defaults to the "queue" subdirectory of the data directory.
func WithQueueDir(dir string) EngineOption {
	return func(o *engineOptions) {
		o.queueDir = dir
	}
}

// WithTopK sets how many chunks retrieval considers per question.
func WithTopK(k int) EngineOption {
	return func(o *engineOptions) {
		o.topK = k
	}
}

// WithProgressReporter sets the sink for pipeline progress updates.
func WithProgressReporter(reporter pipeline.ProgressReporter) EngineOption {
	return func(o *engineOptions) {
		o.progress = reporter
	}
}

// Open opens an Engine rooted at dataDir. The primary store lives under
// dataDir/store and the dispatch queue under dataDir/queue unless
// redirected with WithQueueDir. A queue store that cannot be opened is
// not fatal: the engine logs a warning and EnqueueProcessing reports
// false so callers fall back to synchronous processing.
func Open(dataDir string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := options.workers
	if workers < 1 {
		workers = runtime.NumCPU() / 2
		if workers < 1 {
			workers = 1
		}
	}

	queueDir := options.queueDir
	if queueDir == "" {
		queueDir = filepath.Join(dataDir, "queue")
	}

	// Open backend
	backend, err := badger.OpenBackend(filepath.Join(dataDir, "store"), false)
	if err != nil {
		return nil, err
	}

	// Create document repository
	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create cache repository
	cache, err := badger.NewCacheRepository(backend)
	if err != nil {
		documents.Close()
		backend.Close()
		return nil, err
	}

	// Create vector repository
	vectors := badger.NewVectorRepository(backend)

	// Create AI provider
	provider := options.provider
	if provider == nil {
		provider, err = newProvider(options.aiConfig)
		if err != nil {
			vectors.Close()
			cache.Close()
			documents.Close()
			backend.Close()
			return nil, err
		}
	}

	chunkOpts := []chunk.Option{
		chunk.WithLogger(logger.With("component", "chunker")),
	}
	if options.parentTTL > 0 {
		chunkOpts = append(chunkOpts, chunk.WithParentTTL(options.parentTTL))
	}
	chunker, err := chunk.NewChunker(vectors, chunkOpts...)
	if err != nil {
		provider.Close()
		vectors.Close()
		cache.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	registry := pipeline.NewRegistry()

	orchestratorOpts := []pipeline.Option{
		pipeline.WithLogger(logger.With("component", "pipeline")),
	}
	if options.progress != nil {
		orchestratorOpts = append(orchestratorOpts, pipeline.WithProgressReporter(options.progress))
	}
	orchestrator, err := pipeline.NewOrchestrator(documents, cache, vectors, chunker, provider, registry, orchestratorOpts...)
	if err != nil {
		provider.Close()
		vectors.Close()
		cache.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	answererOpts := []retrieval.Option{
		retrieval.WithLogger(logger.With("component", "retrieval")),
	}
	if options.topK > 0 {
		answererOpts = append(answererOpts, retrieval.WithTopK(options.topK))
	}
	answerer, err := retrieval.NewAnswerer(vectors, provider, answererOpts...)
	if err != nil {
		provider.Close()
		vectors.Close()
		cache.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		provider.Close()
		vectors.Close()
		cache.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	q, err := queue.Open(queueDir)
	if err != nil {
		logger.Warn("dispatch queue unavailable, jobs will run synchronously", "error", err)
		q = nil
	}

	return &Engine{
		backend:      backend,
		documents:    documents,
		cache:        cache,
		vectors:      vectors,
		provider:     provider,
		registry:     registry,
		orchestrator: orchestrator,
		answerer:     answerer,
		queue:        q,
		pool:         pool,
		workers:      workers,
		logger:       logger,
	}, nil
}

// newProvider selects the AI provider implementation from config.
func newProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Provider == ai.ProviderMock {
		return mock.NewMockProvider(), nil
	}
	return openai.NewProvider(config)
}

// AddDocument registers a file for processing. The ticker and fiscal
// year are optional; when empty they are recovered from the filename
// during processing. The file itself stays in place, only its absolute
// path is recorded.
func (e *Engine) AddDocument(ctx context.Context, path, ticker, fiscalYear string) (*core.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentFileNotFound, absPath)
	}

	doc := &core.Document{
		Filename:    filepath.Base(absPath),
		ContentPath: absPath,
		Status:      core.StatusUploaded,
		Ticker:      ticker,
		FiscalYear:  fiscalYear,
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	registered, err := e.documents.AddDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	e.logger.Info("registered document", "document", registered.Id, "filename", registered.Filename)
	return registered, nil
}

// Document returns a registered document by id.
func (e *Engine) Document(ctx context.Context, id core.DocumentID) (*core.Document, error) {
	return e.documents.GetDocument(ctx, id)
}

// Documents returns all registered documents ordered by id.
func (e *Engine) Documents(ctx context.Context) ([]*core.Document, error) {
	return e.documents.ListDocuments(ctx)
}

// Analysis returns the persisted analysis result for a document.
func (e *Engine) Analysis(ctx context.Context, id core.DocumentID) (*core.AnalysisResult, error) {
	return e.documents.GetAnalysis(ctx, id)
}

// Process runs the processing pipeline for a document synchronously.
// Cancellation requested through CancelProcessing or the context ends
// the run with CANCELLED status and a nil error.
func (e *Engine) Process(ctx context.Context, id core.DocumentID) error {
	return e.orchestrator.Process(ctx, id)
}

// ProcessAsync schedules a pipeline run on the engine's worker pool and
// returns immediately. Run outcomes land on the document status.
func (e *Engine) ProcessAsync(id core.DocumentID) error {
	return e.pool.Submit(func() {
		if err := e.orchestrator.Process(context.Background(), id); err != nil {
			e.logger.Error("async processing failed", "document", id, "error", err)
		}
	})
}

// EnqueueProcessing hands a document to the durable dispatch queue and
// reports whether it was accepted. False means the queue is unavailable
// and the caller should process synchronously instead.
func (e *Engine) EnqueueProcessing(ctx context.Context, id core.DocumentID) bool {
	if e.queue == nil {
		e.logger.Warn("queue unavailable, falling back to synchronous processing", "document", id)
		return false
	}
	return e.queue.Enqueue(ctx, id)
}

// PendingJobs reports how many queued jobs await a worker. A missing
// queue store counts as zero.
func (e *Engine) PendingJobs(ctx context.Context) (int, error) {
	if e.queue == nil {
		return 0, nil
	}
	return e.queue.PendingJobs(ctx)
}

// RunWorkers consumes the dispatch queue until ctx is cancelled, running
// the processing pipeline for each claimed job. It blocks; run it from a
// dedicated goroutine or a worker command.
func (e *Engine) RunWorkers(ctx context.Context) error {
	if e.queue == nil {
		return fmt.Errorf("run workers: %w", queue.ErrUnavailable)
	}

	dispatcher, err := queue.NewDispatcher(e.queue, e.handleJob,
		queue.WithWorkers(e.workers),
		queue.WithLogger(e.logger.With("component", "dispatcher")),
	)
	if err != nil {
		return err
	}
	return dispatcher.Run(ctx)
}

// handleJob adapts the orchestrator to the dispatcher's handler shape.
func (e *Engine) handleJob(ctx context.Context, job *core.ProcessingJob) error {
	return e.orchestrator.Process(ctx, job.DocumentId)
}

// CancelProcessing requests cancellation of an active pipeline run and
// reports whether one was found. The run stops at its next checkpoint.
func (e *Engine) CancelProcessing(id core.DocumentID) bool {
	return e.registry.Cancel(id)
}

// IsProcessing reports whether a pipeline run is active for the document.
func (e *Engine) IsProcessing(id core.DocumentID) bool {
	return e.registry.IsRunning(id)
}

// ClearCache removes the cached pipeline results and the vector index
// for a document, forcing the next Process call to recompute everything.
// The persisted analysis of the last completed run is kept.
func (e *Engine) ClearCache(ctx context.Context, id core.DocumentID) error {
	if err := e.cache.Invalidate(ctx, id); err != nil {
		return err
	}
	if err := e.vectors.DeleteIndex(ctx, id); err != nil {
		return err
	}
	e.logger.Info("cleared cached results", "document", id)
	return nil
}

// ClearAllCaches removes cached results and vector indexes for every
// registered document.
func (e *Engine) ClearAllCaches(ctx context.Context) error {
	docs, err := e.documents.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if err := e.cache.InvalidateAll(ctx); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := e.vectors.DeleteIndex(ctx, doc.Id); err != nil {
			return err
		}
	}
	e.logger.Info("cleared all cached results", "documents", len(docs))
	return nil
}

// RemoveDocument cancels any active run and deletes the document, its
// analysis, its cached results and its vector index.
func (e *Engine) RemoveDocument(ctx context.Context, id core.DocumentID) error {
	e.registry.Cancel(id)
	if err := e.cache.Invalidate(ctx, id); err != nil {
		return err
	}
	if err := e.vectors.DeleteIndex(ctx, id); err != nil {
		return err
	}
	if err := e.documents.DeleteDocument(ctx, id); err != nil {
		return err
	}
	e.logger.Info("removed document", "document", id)
	return nil
}

// AskQuestion answers a question about a processed document using its
// vector index. Documents without an index get a fixed not-available
// answer rather than an error.
func (e *Engine) AskQuestion(ctx context.Context, id core.DocumentID, question string) (*core.QuestionAnswer, error) {
	return e.answerer.Answer(ctx, id, question)
}

// Close releases the engine: the worker pool, the AI provider, the queue
// store and the repositories, then the backend.
func (e *Engine) Close() error {
	e.pool.Release()

	if e.queue != nil {
		if err := e.queue.Close(); err != nil {
			e.logger.Error("error closing dispatch queue", "err", err)
		}
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.vectors.Close(); err != nil {
		e.logger.Error("error closing vector repository", "err", err)
		return err
	}
	if err := e.cache.Close(); err != nil {
		e.logger.Error("error closing cache repository", "err", err)
		return err
	}
	if err := e.documents.Close(); err != nil {
		e.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing badger backend", "err", err)
		return err
	}
	return nil
}
