package chunk

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the target child chunk size in characters.
	DefaultChunkSize = 512

	// DefaultChunkOverlap is the overlap between consecutive child chunks.
	DefaultChunkOverlap = 64

	// DefaultParentTTL bounds how long parent blocks stay retrievable.
	// Expired parents degrade answers to child-only context.
	DefaultParentTTL = 24 * time.Hour
)

// separators ordered coarsest-first: paragraph, line, sentence, word, character.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits a document layout into persisted parent blocks and
// overlapping child chunks. Each section becomes one parent block stored
// with a TTL; its content is windowed into child chunks that carry the
// parent back-reference and inherited document metadata.
type Chunker struct {
	vectors   storage.VectorRepository
	splitter  textsplitter.RecursiveCharacter
	chunkSize int
	overlap   int
	parentTTL time.Duration
	logger    *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithChunkSize sets the target child chunk size.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(c *Chunker) error {
		if size > 0 {
			c.chunkSize = size
		}
		return nil
	}
}

// WithChunkOverlap sets the overlap between consecutive child chunks.
// Default is DefaultChunkOverlap.
func WithChunkOverlap(overlap int) Option {
	return func(c *Chunker) error {
		if overlap >= 0 {
			c.overlap = overlap
		}
		return nil
	}
}

// WithParentTTL sets how long persisted parent blocks stay retrievable.
// Default is DefaultParentTTL.
func WithParentTTL(ttl time.Duration) Option {
	return func(c *Chunker) error {
		if ttl > 0 {
			c.parentTTL = ttl
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChunker creates a new hierarchical chunker.
func NewChunker(vectors storage.VectorRepository, opts ...Option) (*Chunker, error) {
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}

	c := &Chunker{
		vectors:   vectors,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		parentTTL: DefaultParentTTL,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(c.chunkSize),
		textsplitter.WithChunkOverlap(c.overlap),
		textsplitter.WithSeparators(separators),
	)

	return c, nil
}

// ParentTTL reports the configured parent block lifetime.
func (c *Chunker) ParentTTL() time.Duration {
	return c.parentTTL
}

// Chunk converts a layout into the flat ordered list of child chunks ready
// for embedding. One parent block is persisted per non-empty section; a
// parent store failure is soft, logged and skipped, so retrieval degrades
// to child-only context instead of the run failing.
func (c *Chunker) Chunk(ctx context.Context, layout *core.DocumentLayout) ([]*core.ChildChunk, error) {
	var all []*core.ChildChunk

	for _, section := range layout.Sections {
		if strings.TrimSpace(section.Content) == "" {
			// Empty sections yield zero chunks
			continue
		}

		parentID := uuid.NewString()
		parent := &core.ParentBlock{
			Id:           parentID,
			Content:      section.Content,
			SectionTitle: section.Title,
			Ticker:       layout.Ticker,
			FiscalYear:   layout.FiscalYear,
			PageStart:    section.PageStart,
		}
		if err := c.vectors.PutParentBlock(ctx, parent, c.parentTTL); err != nil {
			c.logger.Warn("failed to store parent block, continuing without parent context",
				"section", section.Title, "err", err)
		}

		windows, err := c.splitter.SplitText(section.Content)
		if err != nil {
			return nil, err
		}

		for i, window := range windows {
			all = append(all, &core.ChildChunk{
				Id:           uuid.NewString(),
				ParentId:     parentID,
				Content:      window,
				SectionTitle: section.Title,
				Ticker:       layout.Ticker,
				FiscalYear:   layout.FiscalYear,
				ChunkIndex:   i,
				PageStart:    section.PageStart,
				SourceFile:   layout.Filename,
				Kind:         core.ChunkKindNarrative,
			})
		}
	}

	c.logger.Info("generated child chunks", "chunks", len(all), "sections", len(layout.Sections))
	return all, nil
}
