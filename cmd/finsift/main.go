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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/finsift"
	"github.com/poiesic/finsift/ai"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/pipeline"
	"github.com/poiesic/finsift/storage"
)

func main() {
	app := &cli.App{
		Name:  "finsift",
		Usage: "Financial document analysis and question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding the document store and dispatch queue",
				Value:   "./finsift-data",
			},
			&cli.StringFlag{
				Name:  "ai-provider",
				Usage: `AI provider implementation ("mock" or "openai")`,
				Value: ai.ProviderMock,
			},
			&cli.StringFlag{
				Name:  "ai-host",
				Usage: "Base URL for both embedding and completion services",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (overrides ai-host)",
			},
			&cli.StringFlag{
				Name:  "completion-host",
				Usage: "Completion service host URL (overrides ai-host)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.StringFlag{
				Name:  "completion-model",
				Usage: "Completion model name",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a document and schedule it for processing",
				ArgsUsage: "<file>",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "ticker",
						Usage: "Company ticker symbol (derived from the filename if omitted)",
					},
					&cli.StringFlag{
						Name:  "year",
						Usage: "Fiscal year (derived from the filename if omitted)",
					},
					&cli.BoolFlag{
						Name:  "sync",
						Usage: "Process immediately instead of enqueueing for a worker",
					},
				},
			},
			{
				Name:      "process",
				Usage:     "Run the processing pipeline for a document synchronously",
				ArgsUsage: "<id>",
				Action:    processCommand,
			},
			{
				Name:   "worker",
				Usage:  "Consume the dispatch queue until interrupted",
				Action: workerCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent workers (defaults to half the CPU count)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about a processed document",
				ArgsUsage: "<id> <question>",
				Action:    askCommand,
			},
			{
				Name:      "status",
				Usage:     "Show one document in detail, or list all documents",
				ArgsUsage: "[id]",
				Action:    statusCommand,
			},
			{
				Name:      "cancel",
				Usage:     "Request cancellation of an active processing run",
				ArgsUsage: "<id>",
				Action:    cancelCommand,
			},
			{
				Name:  "cache",
				Usage: "Manage cached processing results",
				Subcommands: []*cli.Command{
					{
						Name:      "clear",
						Usage:     "Clear cached results so the next run recomputes them",
						ArgsUsage: "[id]",
						Action:    cacheClearCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "all",
								Usage: "Clear cached results for every document",
							},
						},
					},
				},
			},
			{
				Name:      "remove",
				Usage:     "Delete a document and all of its artifacts",
				ArgsUsage: "<id>",
				Action:    removeCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openEngine builds the engine from the global flags. Commands that
// drive the pipeline pass extra options, the worker command for one.
func openEngine(c *cli.Context, opts ...finsift.EngineOption) (*finsift.Engine, error) {
	configOpts := []ai.ConfigOption{
		ai.WithProvider(c.String("ai-provider")),
	}
	if host := c.String("ai-host"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if host := c.String("completion-host"); host != "" {
		configOpts = append(configOpts, ai.WithCompletionHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("completion-model"); model != "" {
		configOpts = append(configOpts, ai.WithCompletionModel(model))
	}

	base := []finsift.EngineOption{
		finsift.WithAIConfig(ai.NewConfig(configOpts...)),
		finsift.WithProgressReporter(pipeline.NewLogReporter(slog.Default())),
	}
	return finsift.Open(c.String("data-dir"), append(base, opts...)...)
}

// documentArg parses the positional document id argument.
func documentArg(c *cli.Context, position int) (core.DocumentID, error) {
	raw := c.Args().Get(position)
	if raw == "" {
		return 0, fmt.Errorf("document id argument is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid document id %q", raw)
	}
	return core.DocumentID(id), nil
}

func addCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}

	eng, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	ctx := context.Background()
	doc, err := eng.AddDocument(ctx, path, c.String("ticker"), c.String("year"))
	if err != nil {
		return fmt.Errorf("failed to register document: %w", err)
	}
	fmt.Printf("Registered document %d (%s)\n", doc.Id, doc.Filename)

	if c.Bool("sync") {
		return runPipeline(ctx, eng, doc.Id)
	}

	if eng.EnqueueProcessing(ctx, doc.Id) {
		fmt.Printf("Queued document %d for processing\n", doc.Id)
		return nil
	}

	// Queue unavailable: fall back to processing in this process.
	fmt.Fprintln(os.Stderr, "Dispatch queue unavailable, processing synchronously")
	return runPipeline(ctx, eng, doc.Id)
}

func processCommand(c *cli.Context) error {
	id, err := documentArg(c, 0)
	if err != nil {
		return err
	}

	eng, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	return runPipeline(context.Background(), eng, id)
}

// runPipeline processes one document and prints its terminal status.
func runPipeline(ctx context.Context, eng *finsift.Engine, id core.DocumentID) error {
	if err := eng.Process(ctx, id); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	doc, err := eng.Document(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Document %d finished with status %s\n", id, doc.Status)
	if doc.Status == core.StatusError && doc.ErrorMessage != "" {
		fmt.Printf("Error: %s\n", doc.ErrorMessage)
	}
	return nil
}

func workerCommand(c *cli.Context) error {
	var opts []finsift.EngineOption
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, finsift.WithWorkers(workers))
	}

	eng, err := openEngine(c, opts...)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pending, err := eng.PendingJobs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Consuming dispatch queue (%d pending), interrupt to stop\n", pending)

	if err := eng.RunWorkers(ctx); err != nil {
		return fmt.Errorf("worker failed: %w", err)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	id, err := documentArg(c, 0)
	if err != nil {
		return err
	}
	question := strings.Join(c.Args().Slice()[1:], " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question argument is required")
	}

	eng, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	answer, err := eng.AskQuestion(context.Background(), id, question)
	if err != nil {
		return fmt.Errorf("question failed: %w", err)
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range answer.Sources {
			fmt.Printf("  page %d", source.Page)
			if source.Section != "" {
				fmt.Printf(" (%s)", source.Section)
			}
			fmt.Printf(": %s\n", source.Snippet)
		}
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	eng, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	ctx := context.Background()
	if c.Args().Len() == 0 {
		return printDocumentList(ctx, eng)
	}

	id, err := documentArg(c, 0)
	if err != nil {
		return err
	}
	return printDocumentDetail(ctx, eng, id)
}

func printDocumentList(ctx context.Context, eng *finsift.Engine) error {
	docs, err := eng.Documents(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents registered")
		return nil
	}

	for _, doc := range docs {
		line := fmt.Sprintf("%4d  %-10s  %s", doc.Id, doc.Status, doc.Filename)
		if doc.Ticker != "" {
			line += fmt.Sprintf("  [%s %s]", doc.Ticker, doc.FiscalYear)
		}
		fmt.Println(line)
	}
	return nil
}

func printDocumentDetail(ctx context.Context, eng *finsift.Engine, id core.DocumentID) error {
	doc, err := eng.Document(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Document %d: %s\n", doc.Id, doc.Filename)
	fmt.Printf("  Status:  %s\n", doc.Status)
	if doc.Ticker != "" {
		fmt.Printf("  Company: %s (%s)\n", doc.Ticker, doc.FiscalYear)
	}
	if doc.ErrorMessage != "" {
		fmt.Printf("  Error:   %s\n", doc.ErrorMessage)
	}
	if eng.IsProcessing(id) {
		fmt.Println("  A processing run is active")
	}

	analysis, err := eng.Analysis(ctx, id)
	if err != nil {
		// No analysis yet is a normal state, everything else is not.
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	fmt.Printf("\nSummary:\n%s\n", analysis.Summary)
	if len(analysis.KeyFigures) > 0 {
		fmt.Println("\nKey figures:")
		for _, figure := range analysis.KeyFigures {
			fmt.Printf("  %-20s %s", figure.Name, figure.Value)
			if figure.SourcePage > 0 {
				fmt.Printf(" (page %d)", figure.SourcePage)
			}
			fmt.Println()
		}
	}
	return nil
}

func cancelCommand(c *cli.Context) error {
	id, err := documentArg(c, 0)
	if err != nil {
		return err
	}

	eng, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	if eng.CancelProcessing(id) {
		fmt.Printf("Cancellation requested for document %d\n", id)
	} else {
		fmt.Printf("No active processing run for document %d\n", id)
	}
	return nil
}

func cacheClearCommand(c *cli.Context) error {
	eng, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	ctx := context.Background()
	if c.Bool("all") {
		if err := eng.ClearAllCaches(ctx); err != nil {
			return fmt.Errorf("failed to clear caches: %w", err)
		}
		fmt.Println("Cleared cached results for all documents")
		return nil
	}

	id, err := documentArg(c, 0)
	if err != nil {
		return fmt.Errorf("document id or --all is required")
	}
	if err := eng.ClearCache(ctx, id); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Printf("Cleared cached results for document %d\n", id)
	return nil
}

func removeCommand(c *cli.Context) error {
	id, err := documentArg(c, 0)
	if err != nil {
		return err
	}

	eng, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	if err := eng.RemoveDocument(context.Background(), id); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	fmt.Printf("Removed document %d\n", id)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
