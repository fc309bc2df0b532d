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


package ai

import (
	"errors"
	"strings"
)

// Provider implementation names selectable via Config.Provider.
const (
	// ProviderMock selects the deterministic in-process provider.
	ProviderMock = "mock"
	// ProviderOpenAI selects the OpenAI-compatible HTTP provider.
	ProviderOpenAI = "openai"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the AI provider implementation: "mock" or "openai".
	// The mock provider needs no external services and is the default.
	Provider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// CompletionHost is the base URL for the completion service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	CompletionHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// CompletionModel is the model identifier to use for summaries,
	// key-figure extraction, and question answering.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	CompletionModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the provider implementation name.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) {
		c.CompletionHost = host
	}
}

// WithHost sets both embedding and completion hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.CompletionHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// The default provider is the mock, so a fresh engine runs without any
// external AI service; both hosts point at a local server for when the
// openai provider is selected.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		Provider:        ProviderMock,
		EmbeddingHost:   defaultHost,
		CompletionHost:  defaultHost,
		EmbeddingModel:  "embeddinggemma",
		CompletionModel: "qwen2.5:3b",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithProvider(ProviderOpenAI),
//       WithHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
//
// Example with different hosts:
//   cfg := NewConfig(
//       WithEmbeddingHost("http://localhost:11434/v1"),
//       WithCompletionHost("http://localhost:9100/v1"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	// Ensure EmbeddingHost ends with /v1 for OpenAI-compatible APIs
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	// Ensure CompletionHost ends with /v1 for OpenAI-compatible APIs
	if c.CompletionHost != "" && !strings.HasSuffix(c.CompletionHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.CompletionHost = strings.TrimSuffix(c.CompletionHost, "/")
		c.CompletionHost = c.CompletionHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.Provider != ProviderMock && c.Provider != ProviderOpenAI {
		return errors.New(`ai config: Provider must be "mock" or "openai"`)
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.CompletionHost == "" {
		return errors.New("ai config: CompletionHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.CompletionModel == "" {
		return errors.New("ai config: CompletionModel is required")
	}
	return nil
}
