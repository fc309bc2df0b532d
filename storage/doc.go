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


// Package storage provides the storage abstraction layer for finsift.
//
// This package defines repository interfaces that decouple storage implementation
// from business logic. It allows for different storage backends (BadgerDB, in-memory,
// etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public constructors
// to enforce abstraction and enable multiple storage backend implementations:
//
//	repo, err := badger.NewDocumentRepository(backend)  // returns storage.DocumentRepository
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to BadgerDB specifics
//   - Swappability: Easy to add alternative backends (PostgreSQL, in-memory, etc.)
//   - Testing: Consumers can use mock implementations without modification
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - DocumentRepository: The document registry (paths, statuses, analysis results)
//   - CacheRepository: The content-addressed processing result cache
//   - VectorRepository: Parent blocks and per-document vector index builds
//   - QueueRepository: The durable processing job queue
//
// The first three are served by one backend in the primary data directory.
// The queue lives in its own store so that queue unavailability degrades to
// synchronous processing instead of failing ingestion.
//
// # Usage
//
// Create a backend and repositories:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	docs, err := badger.NewDocumentRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer docs.Close()
//
// Use in tests with in-memory storage:
//
//	docs, cache, vectors, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
