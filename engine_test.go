package finsift

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/finsift/ai/mock"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/queue"
	"github.com/poiesic/finsift/retrieval"
	"github.com/poiesic/finsift/storage"
)

func openTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()

	base := []EngineOption{
		WithAIProvider(mock.NewMockProvider()),
		WithWorkers(1),
	}
	eng, err := Open(t.TempDir(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, eng.Close())
	})
	return eng
}

func writeReportFile(t *testing.T, name string, pages int) string {
	t.Helper()

	var sb strings.Builder
	for p := 1; p <= pages; p++ {
		fmt.Fprintf(&sb, "--- Page %d ---\n", p)
		fmt.Fprintf(&sb, "Quarterly results for page %d. Revenue grew while operating costs held steady.\n", p)
		fmt.Fprintf(&sb, "Management expects the trend on page %d to continue into the next fiscal year.\n\n", p)
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func addReport(t *testing.T, eng *Engine, pages int) *core.Document {
	t.Helper()

	path := writeReportFile(t, "ACME_2024_annual_report.txt", pages)
	doc, err := eng.AddDocument(context.Background(), path, "ACME", "2024")
	require.NoError(t, err)
	return doc
}

func mockCompleter(t *testing.T, eng *Engine) *mock.MockCompleter {
	t.Helper()

	provider, ok := eng.provider.(*mock.MockProvider)
	require.True(t, ok, "test engine must use the mock provider")
	return provider.GetMockCompleter()
}

func TestOpenEngine(t *testing.T) {
	t.Run("create new engine", func(t *testing.T) {
		eng, err := Open(filepath.Join(t.TempDir(), "finsift-data"))
		require.NoError(t, err)
		require.NotNil(t, eng)
		defer eng.Close()

		// Verify components are initialized
		assert.NotNil(t, eng.backend)
		assert.NotNil(t, eng.documents)
		assert.NotNil(t, eng.orchestrator)
		assert.NotNil(t, eng.answerer)
		assert.NotNil(t, eng.queue)
		assert.NotNil(t, eng.pool)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open an engine at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		eng, err := Open(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, eng)
	})
}

func TestEngineClose(t *testing.T) {
	eng, err := Open(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, eng)

	assert.NoError(t, eng.Close())
}

func TestEngineAddDocument(t *testing.T) {
	eng := openTestEngine(t)

	t.Run("registers file", func(t *testing.T) {
		path := writeReportFile(t, "ACME_2024_10k.txt", 2)
		doc, err := eng.AddDocument(context.Background(), path, "ACME", "2024")
		require.NoError(t, err)

		assert.NotZero(t, doc.Id)
		assert.Equal(t, "ACME_2024_10k.txt", doc.Filename)
		assert.True(t, filepath.IsAbs(doc.ContentPath))
		assert.Equal(t, core.StatusUploaded, doc.Status)
		assert.Equal(t, "ACME", doc.Ticker)
		assert.Equal(t, "2024", doc.FiscalYear)

		stored, err := eng.Document(context.Background(), doc.Id)
		require.NoError(t, err)
		assert.Equal(t, doc.Filename, stored.Filename)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := eng.AddDocument(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"), "", "")
		assert.ErrorIs(t, err, ErrDocumentFileNotFound)
	})
}

func TestEngineProcessAndAsk(t *testing.T) {
	eng := openTestEngine(t)
	doc := addReport(t, eng, 10)

	require.NoError(t, eng.Process(context.Background(), doc.Id))

	processed, err := eng.Document(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, processed.Status)
	assert.NotEmpty(t, processed.ContentHash)

	analysis, err := eng.Analysis(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.Summary)
	assert.GreaterOrEqual(t, len(analysis.KeyFigures), 3)

	answer, err := eng.AskQuestion(context.Background(), doc.Id, "How did revenue develop?")
	require.NoError(t, err)
	assert.NotEqual(t, retrieval.NotAvailableAnswer, answer.Answer)
	assert.NotEmpty(t, answer.Sources)
}

func TestEngineAskBeforeProcessing(t *testing.T) {
	eng := openTestEngine(t)
	doc := addReport(t, eng, 2)

	answer, err := eng.AskQuestion(context.Background(), doc.Id, "What were the key figures?")
	require.NoError(t, err)
	assert.Equal(t, retrieval.NotAvailableAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
}

func TestEngineProcessAsync(t *testing.T) {
	eng := openTestEngine(t)
	doc := addReport(t, eng, 4)

	require.NoError(t, eng.ProcessAsync(doc.Id))

	require.Eventually(t, func() bool {
		current, err := eng.Document(context.Background(), doc.Id)
		return err == nil && current.Status == core.StatusCompleted
	}, 5*time.Second, 20*time.Millisecond)
}

func TestEngineEnqueueAndRunWorkers(t *testing.T) {
	eng := openTestEngine(t)
	doc := addReport(t, eng, 4)

	require.True(t, eng.EnqueueProcessing(context.Background(), doc.Id))

	pending, err := eng.PendingJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- eng.RunWorkers(ctx)
	}()

	require.Eventually(t, func() bool {
		current, err := eng.Document(context.Background(), doc.Id)
		return err == nil && current.Status == core.StatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	pending, err = eng.PendingJobs(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestEngineQueueUnavailableFallsBack(t *testing.T) {
	// Point the queue store below a regular file so it cannot open.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	eng := openTestEngine(t, WithQueueDir(filepath.Join(blocker, "queue")))
	doc := addReport(t, eng, 3)

	assert.False(t, eng.EnqueueProcessing(context.Background(), doc.Id))

	pending, err := eng.PendingJobs(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)

	err = eng.RunWorkers(context.Background())
	assert.ErrorIs(t, err, queue.ErrUnavailable)

	// The documented fallback: process synchronously instead.
	require.NoError(t, eng.Process(context.Background(), doc.Id))

	processed, err := eng.Document(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, processed.Status)
}

func TestEngineCancelUnknown(t *testing.T) {
	eng := openTestEngine(t)

	assert.False(t, eng.CancelProcessing(42))
	assert.False(t, eng.IsProcessing(42))
}

func TestEngineClearCache(t *testing.T) {
	eng := openTestEngine(t)
	doc := addReport(t, eng, 4)
	completer := mockCompleter(t, eng)

	require.NoError(t, eng.Process(context.Background(), doc.Id))
	require.Equal(t, 1, completer.SummarizeCount())

	// A second run is served from cache.
	require.NoError(t, eng.Process(context.Background(), doc.Id))
	require.Equal(t, 1, completer.SummarizeCount())

	require.NoError(t, eng.ClearCache(context.Background(), doc.Id))

	// The index is gone until the document is reprocessed.
	answer, err := eng.AskQuestion(context.Background(), doc.Id, "What happened?")
	require.NoError(t, err)
	assert.Equal(t, retrieval.NotAvailableAnswer, answer.Answer)

	require.NoError(t, eng.Process(context.Background(), doc.Id))
	assert.Equal(t, 2, completer.SummarizeCount())
}

func TestEngineClearAllCaches(t *testing.T) {
	eng := openTestEngine(t)
	first := addReport(t, eng, 3)
	second := addReport(t, eng, 5)

	require.NoError(t, eng.Process(context.Background(), first.Id))
	require.NoError(t, eng.Process(context.Background(), second.Id))

	require.NoError(t, eng.ClearAllCaches(context.Background()))

	for _, doc := range []*core.Document{first, second} {
		answer, err := eng.AskQuestion(context.Background(), doc.Id, "Anything?")
		require.NoError(t, err)
		assert.Equal(t, retrieval.NotAvailableAnswer, answer.Answer)
	}
}

func TestEngineRemoveDocument(t *testing.T) {
	eng := openTestEngine(t)
	doc := addReport(t, eng, 3)

	require.NoError(t, eng.Process(context.Background(), doc.Id))
	require.NoError(t, eng.RemoveDocument(context.Background(), doc.Id))

	_, err := eng.Document(context.Background(), doc.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	answer, err := eng.AskQuestion(context.Background(), doc.Id, "Still there?")
	require.NoError(t, err)
	assert.Equal(t, retrieval.NotAvailableAnswer, answer.Answer)
}

func TestEngineDocumentsList(t *testing.T) {
	eng := openTestEngine(t)
	first := addReport(t, eng, 2)
	second := addReport(t, eng, 2)

	docs, err := eng.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.Id, docs[0].Id)
	assert.Equal(t, second.Id, docs[1].Id)
}
