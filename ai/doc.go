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


// Package ai provides abstractions for AI services used in Finsift.
//
// This package defines interfaces for AI operations including text embeddings,
// document summarization, key-figure extraction, and question answering. It
// follows the dependency inversion principle, allowing the processing pipeline
// and retrieval layer to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Completer: Generates summaries, figure extractions, and answers
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Deterministic implementation for tests and offline demo runs
//
// Which implementation an engine uses is selected once from Config.Provider
// ("mock" or "openai"); the rest of the system only ever sees the interfaces.
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockCompleter)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public methods (CallCount, function fields, Reset).
//
//	mockCompleter := mock.NewMockCompleter()  // returns *mock.MockCompleter
//	count := mockCompleter.SummarizeCount()   // test assertion
//
// The mock.NewMockProvider() returns an interface since it's the primary entry
// point, but provides GetMockEmbedder()/GetMockCompleter() methods to access
// concrete types for assertions when needed.
//
// # Usage Example
//
//	// Production usage with OpenAI-compatible provider
//	config := ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Total net sales increased 8%")
//	summary, err := provider.Completer().Summarize(ctx, text, ai.DocTypeAnnualReport)
//
//	// Testing usage with mocks
//	mockProvider := mock.NewMockProvider()
//	answer, err := mockProvider.Completer().Answer(ctx, "What was revenue?", context)
package ai
