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


package badger

import "github.com/poiesic/finsift/storage"

// NewMemoryRepositories creates in-memory document, cache and vector
// repositories for testing, all backed by one backend.
// Caller must close the repositories and the backend when done.
func NewMemoryRepositories() (storage.DocumentRepository, storage.CacheRepository, storage.VectorRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	docs, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	cache, err := NewCacheRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	vectors := NewVectorRepository(backend)

	return docs, cache, vectors, backend, nil
}

// NewMemoryQueue creates an in-memory queue repository for testing.
// Caller must close the repository and the backend when done.
func NewMemoryQueue() (storage.QueueRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	queue, err := NewQueueRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return queue, backend, nil
}
