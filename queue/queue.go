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


package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/retry"
	"github.com/poiesic/finsift/storage"
	"github.com/poiesic/finsift/storage/badger"
)

const (
	// openAttempts and openDelay bound the fixed-backoff retry loop when
	// opening the queue store.
	openAttempts = 3
	openDelay    = 500 * time.Millisecond
)

// Queue is the durable dispatch queue. It publishes typed job records and
// hands them to the Dispatcher for delivery.
type Queue struct {
	repo    storage.QueueRepository
	backend *badger.Backend // owned only when created by Open
	logger  *slog.Logger
}

// New wraps an existing queue repository. The caller keeps ownership of
// the repository's backend; Close releases only the repository.
func New(repo storage.QueueRepository) *Queue {
	return &Queue{
		repo:   repo,
		logger: slog.Default().With("component", "queue"),
	}
}

// Open opens (or creates) the queue store at dir, retrying a bounded
// number of times, and returns orphaned in-flight jobs to pending. An
// open that keeps failing wraps ErrUnavailable; callers degrade to
// synchronous processing rather than treating it as fatal.
func Open(dir string) (*Queue, error) {
	var backend *badger.Backend
	err := retry.Fixed(context.Background(), func() error {
		var openErr error
		backend, openErr = badger.OpenBackend(dir, false)
		return openErr
	}, openAttempts, openDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	repo, err := badger.NewQueueRepository(backend)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	q := New(repo)
	q.backend = backend

	recovered, err := repo.Recover(context.Background())
	if err != nil {
		q.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if recovered > 0 {
		q.logger.Info("recovered in-flight jobs to pending", "jobs", recovered)
	}
	return q, nil
}

// Enqueue publishes a durable processing job for the document. It returns
// false, never an error, when the job cannot be persisted; the caller is
// expected to process synchronously instead.
func (q *Queue) Enqueue(ctx context.Context, id core.DocumentID) bool {
	job := &core.ProcessingJob{
		DocumentId: id,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := q.repo.Push(ctx, job); err != nil {
		q.logger.Warn("queue unavailable, falling back to synchronous processing",
			"document", id, "error", err)
		return false
	}

	q.logger.Debug("enqueued processing job", "document", id)
	return true
}

// PendingJobs reports the number of jobs waiting to be claimed.
func (q *Queue) PendingJobs(ctx context.Context) (int, error) {
	return q.repo.PendingCount(ctx)
}

// Close releases the repository, and the backing store when this queue
// opened it.
func (q *Queue) Close() error {
	err := q.repo.Close()
	if q.backend != nil {
		if closeErr := q.backend.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
