package chunk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
	badgerstore "github.com/poiesic/finsift/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupChunker(t *testing.T, opts ...Option) (*Chunker, storage.VectorRepository) {
	t.Helper()
	_, _, vectors, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectors.Close()
		backend.Close()
	})

	chunker, err := NewChunker(vectors, opts...)
	require.NoError(t, err)
	return chunker, vectors
}

// longSection builds a section body of numbered sentences, long enough to
// need several chunk windows.
func longSection(sentences int) string {
	var b strings.Builder
	for i := 1; i <= sentences; i++ {
		if i > 1 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "Sentence number %d discusses the revenue trend in detail.", i)
	}
	return b.String()
}

func TestNewChunker_RequiresRepository(t *testing.T) {
	_, err := NewChunker(nil)
	assert.ErrorIs(t, err, ErrVectorRepositoryRequired)
}

func TestChunk_SmallSection(t *testing.T) {
	chunker, vectors := setupChunker(t)
	layout := &core.DocumentLayout{
		Sections: []core.Section{
			{Title: "Pages 1-5", Content: "Revenue grew 12.5% to $1.25 billion.", PageStart: 1},
		},
		Ticker:     "AAPL",
		FiscalYear: "2024",
		Filename:   "AAPL_2024.pdf",
	}

	chunks, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err)
	require.Len(t, chunks, 1, "a section smaller than the window yields exactly one chunk")

	chunk := chunks[0]
	assert.Equal(t, "Revenue grew 12.5% to $1.25 billion.", chunk.Content)
	assert.Equal(t, "Pages 1-5", chunk.SectionTitle)
	assert.Equal(t, "AAPL", chunk.Ticker)
	assert.Equal(t, "2024", chunk.FiscalYear)
	assert.Equal(t, 0, chunk.ChunkIndex)
	assert.Equal(t, 1, chunk.PageStart)
	assert.Equal(t, "AAPL_2024.pdf", chunk.SourceFile)
	assert.Equal(t, core.ChunkKindNarrative, chunk.Kind)
	assert.NotEmpty(t, chunk.Id)
	assert.NotEmpty(t, chunk.ParentId)

	// The section was persisted as the chunk's parent block
	parent, err := vectors.GetParentBlock(context.Background(), chunk.ParentId)
	require.NoError(t, err)
	assert.Equal(t, layout.Sections[0].Content, parent.Content)
	assert.Equal(t, "Pages 1-5", parent.SectionTitle)
	assert.Equal(t, "AAPL", parent.Ticker)
}

func TestChunk_EmptySection(t *testing.T) {
	chunker, _ := setupChunker(t)
	layout := &core.DocumentLayout{
		Sections: []core.Section{
			{Title: "Blank", Content: "   \n\t  ", PageStart: 1},
		},
	}

	chunks, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err)
	assert.Empty(t, chunks, "empty sections yield zero chunks")
}

func TestChunk_LongSection(t *testing.T) {
	chunker, _ := setupChunker(t)
	content := longSection(40)
	layout := &core.DocumentLayout{
		Sections: []core.Section{{Title: "Pages 1-5", Content: content, PageStart: 1}},
		Ticker:   "MSFT",
		Filename: "MSFT_2023.pdf",
	}

	chunks, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1, "a long section splits into multiple windows")

	parentID := chunks[0].ParentId
	for i, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), DefaultChunkSize,
			"chunk %d exceeds the chunk size", i)
		assert.Equal(t, parentID, chunk.ParentId, "all chunks of one section share a parent")
		assert.Equal(t, i, chunk.ChunkIndex, "chunk indexes are sequential")
	}

	// Every sentence survives intact in at least one window
	joined := strings.Join(chunkContents(chunks), "\n")
	for i := 1; i <= 40; i++ {
		sentence := fmt.Sprintf("Sentence number %d discusses the revenue trend in detail", i)
		assert.Contains(t, joined, sentence, "sentence %d lost during splitting", i)
	}
}

func TestChunk_MultipleSections(t *testing.T) {
	chunker, vectors := setupChunker(t)
	layout := &core.DocumentLayout{
		Sections: []core.Section{
			{Title: "Pages 1-5", Content: "First section about revenue.", PageStart: 1},
			{Title: "Pages 6-10", Content: "Second section about expenses.", PageStart: 6},
			{Title: "Pages 11-12", Content: "Third section about outlook.", PageStart: 11},
		},
		Ticker:     "TSLA",
		FiscalYear: "2022",
		Filename:   "TSLA_2022.pdf",
	}

	chunks, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	parents := make(map[string]bool)
	for _, chunk := range chunks {
		parents[chunk.ParentId] = true
	}
	assert.Len(t, parents, 3, "each section gets its own parent block")

	for _, chunk := range chunks {
		parent, err := vectors.GetParentBlock(context.Background(), chunk.ParentId)
		require.NoError(t, err)
		assert.Equal(t, chunk.SectionTitle, parent.SectionTitle)
		assert.Equal(t, chunk.PageStart, parent.PageStart)
	}
}

func TestChunk_ParentStoreFailure(t *testing.T) {
	_, _, vectors, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectors.Close()
		backend.Close()
	})

	chunker, err := NewChunker(&failingParentStore{VectorRepository: vectors})
	require.NoError(t, err)

	layout := &core.DocumentLayout{
		Sections: []core.Section{{Title: "Full Document", Content: "Some content.", PageStart: 1}},
	}

	chunks, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err, "parent store failure is soft")
	require.Len(t, chunks, 1, "chunks are still produced without parent storage")
}

func TestChunk_FreshIdentifiers(t *testing.T) {
	chunker, _ := setupChunker(t)
	layout := &core.DocumentLayout{
		Sections: []core.Section{{Title: "Full Document", Content: "Identical content.", PageStart: 1}},
	}

	first, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err)
	second, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].Id, second[0].Id, "each run mints fresh chunk ids")
	assert.NotEqual(t, first[0].ParentId, second[0].ParentId, "each run mints fresh parent ids")
}

func TestChunk_CustomOptions(t *testing.T) {
	chunker, _ := setupChunker(t, WithChunkSize(64), WithChunkOverlap(8), WithParentTTL(time.Hour))
	assert.Equal(t, time.Hour, chunker.ParentTTL())

	content := longSection(10)
	layout := &core.DocumentLayout{
		Sections: []core.Section{{Title: "Full Document", Content: content, PageStart: 1}},
	}

	chunks, err := chunker.Chunk(context.Background(), layout)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 64, "chunk %d exceeds the configured size", i)
	}
}

func chunkContents(chunks []*core.ChildChunk) []string {
	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	return contents
}

// failingParentStore wraps a real repository but refuses parent writes.
type failingParentStore struct {
	storage.VectorRepository
}

func (f *failingParentStore) PutParentBlock(ctx context.Context, block *core.ParentBlock, ttl time.Duration) error {
	return errors.New("parent store unavailable")
}
