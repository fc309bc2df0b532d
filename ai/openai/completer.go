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


package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/finsift/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxDocumentChars bounds how much document text is sent to the model.
// Longer documents are truncated on a rune boundary before prompting.
const maxDocumentChars = 50000

// maxCompletionTokens caps the length of generated completions.
const maxCompletionTokens = 2000

// completionTemperature keeps generations focused while allowing some
// variation in prose phrasing.
const completionTemperature = 0.3

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat completions
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken("none"),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Summarize generates a narrative summary of a financial document.
func (c *Completer) Summarize(ctx context.Context, text, docType string) (string, error) {
	c.logger.Debug("generating summary", "docType", docType, "length", len(text))
	return c.complete(ctx, buildSummaryPrompt(truncateText(text, maxDocumentChars), docType))
}

// ExtractFigures asks the model for key financial figures and returns the
// raw response text for the caller to parse.
func (c *Completer) ExtractFigures(ctx context.Context, text, docType string) (string, error) {
	c.logger.Debug("extracting key figures", "docType", docType, "length", len(text))
	return c.complete(ctx, buildKeyFiguresPrompt(truncateText(text, maxDocumentChars), docType))
}

// Answer generates an answer to a question grounded in the provided context.
func (c *Completer) Answer(ctx context.Context, question, contextText string) (string, error) {
	c.logger.Debug("answering question", "questionLength", len(question), "contextLength", len(contextText))
	return c.complete(ctx, buildAnswerPrompt(question, contextText))
}

// complete sends one analyst-framed chat completion and returns the response text.
func (c *Completer) complete(ctx context.Context, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(financialAnalystSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(completionTemperature),
		llms.WithMaxTokens(maxCompletionTokens))
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}
