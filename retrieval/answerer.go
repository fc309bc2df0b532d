package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/finsift/ai"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
)

const (
	// DefaultTopK is how many chunks similarity search retrieves for context.
	DefaultTopK = 3

	// DefaultMaxContextChars bounds the assembled context passed to the
	// completion service.
	DefaultMaxContextChars = 12000

	// NotAvailableAnswer is returned for documents that have no vector
	// index yet.
	NotAvailableAnswer = "Analysis not available. The document may still be processing."
)

// Answerer answers questions about a processed document, grounded in its
// vector index.
type Answerer struct {
	vectors         storage.VectorRepository
	embedder        ai.Embedder
	completer       ai.Completer
	topK            int
	maxContextChars int
	logger          *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithTopK sets how many chunks similarity search retrieves.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(a *Answerer) error {
		if k > 0 {
			a.topK = k
		}
		return nil
	}
}

// WithMaxContextChars bounds the assembled context size.
// Default is DefaultMaxContextChars.
func WithMaxContextChars(limit int) Option {
	return func(a *Answerer) error {
		if limit > 0 {
			a.maxContextChars = limit
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates a new answerer.
func NewAnswerer(vectors storage.VectorRepository, provider ai.AIProvider, opts ...Option) (*Answerer, error) {
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Answerer{
		vectors:         vectors,
		embedder:        provider.Embedder(),
		completer:       provider.Completer(),
		topK:            DefaultTopK,
		maxContextChars: DefaultMaxContextChars,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer answers a question about the document. Retrieved chunks are
// expanded to their parent blocks where the TTL store still holds them;
// an expired parent degrades that hit to child-only context. A document
// without an index answers with NotAvailableAnswer and no sources,
// which is not an error.
func (a *Answerer) Answer(ctx context.Context, id core.DocumentID, question string) (*core.QuestionAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	if _, err := a.vectors.GetIndexMeta(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.logger.Info("question against unindexed document", "document", id)
			return &core.QuestionAnswer{
				Answer:  NotAvailableAnswer,
				Sources: []core.SourceRef{},
			}, nil
		}
		return nil, err
	}

	embedding, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		a.logger.Error("error embedding question", "document", id, "err", err)
		return nil, err
	}

	matches, err := a.vectors.FindSimilar(ctx, id, core.NormalizeVector(embedding), a.topK)
	if err != nil {
		a.logger.Error("error searching document index", "document", id, "err", err)
		return nil, err
	}

	passages := make([]string, 0, len(matches))
	sources := make([]core.SourceRef, 0, len(matches))
	expandedParents := map[string]bool{}
	for _, match := range matches {
		chunk := match.Chunk
		sources = append(sources, core.SourceRef{
			Page:    chunk.PageStart,
			Section: chunk.SectionTitle,
			Snippet: snippet(chunk.Content, snippetChars),
		})

		// One expansion per parent: sibling hits would duplicate context
		if chunk.ParentId != "" && expandedParents[chunk.ParentId] {
			continue
		}

		passage := chunk.Content
		if chunk.ParentId != "" {
			parent, parentErr := a.vectors.GetParentBlock(ctx, chunk.ParentId)
			switch {
			case parentErr == nil:
				passage = parent.Content
				expandedParents[chunk.ParentId] = true
			case errors.Is(parentErr, storage.ErrNotFound):
				a.logger.Debug("parent block expired, using child chunk",
					"document", id, "parent", chunk.ParentId)
			default:
				return nil, parentErr
			}
		}
		passages = append(passages, passage)
	}

	contextText := buildContext(passages, a.maxContextChars)
	answer, err := a.completer.Answer(ctx, question, contextText)
	if err != nil {
		a.logger.Error("error generating answer", "document", id, "err", err)
		return nil, err
	}

	a.logger.Info("answered question", "document", id, "chunks", len(matches))
	return &core.QuestionAnswer{
		Answer:  answer,
		Sources: sources,
	}, nil
}
