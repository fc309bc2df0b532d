package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage"
)

// claimRetries bounds retries when concurrent workers conflict on the same
// pending record.
const claimRetries = 5

// QueueRepository implements storage.QueueRepository for BadgerDB.
//
// The queue lives in its own store, separate from the primary data
// directory, so queue unavailability never takes ingestion down with it.
// Records move from a pending key space to an in-flight key space on claim
// and are deleted on ack; Recover returns orphaned in-flight records to
// pending after a crash.
type QueueRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.QueueRepository = (*QueueRepository)(nil)

// NewQueueRepository creates a new QueueRepository.
func NewQueueRepository(backend *Backend) (*QueueRepository, error) {
	idSeq, err := backend.GetSequence(queueIDSeq)
	if err != nil {
		return nil, err
	}

	return &QueueRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *QueueRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *QueueRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Push appends a pending job to the queue.
func (r *QueueRepository) Push(ctx context.Context, job *core.ProcessingJob) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		seq, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if seq == 0 {
			seq, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}

		if err := tx.Set(makeQueuePendingKey(seq), storage.MarshalProcessingJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Claim atomically moves the oldest pending job in-flight and returns it
// with its claim token. Returns (nil, 0, nil) when the queue is empty.
func (r *QueueRepository) Claim(ctx context.Context) (*core.ProcessingJob, uint64, error) {
	for attempt := 0; attempt < claimRetries; attempt++ {
		job, claim, err := r.claimOnce()
		if errors.Is(err, badger.ErrConflict) {
			// Another worker won this record; try the next pending one
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		return job, claim, nil
	}
	return nil, 0, storage.ErrTransactionFailed
}

func (r *QueueRepository) claimOnce() (*core.ProcessingJob, uint64, error) {
	var (
		job   *core.ProcessingJob
		claim uint64
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queuePendingPrefix)
		iter := tx.NewIterator(opts)

		iter.Rewind()
		if !iter.Valid() {
			iter.Close()
			return nil
		}

		item := iter.Item()
		key := item.KeyCopy(nil)
		readErr := item.Value(func(val []byte) error {
			var unmarshalErr error
			job, unmarshalErr = storage.UnmarshalProcessingJob(val)
			return unmarshalErr
		})
		iter.Close()
		if readErr != nil {
			return readErr
		}

		claim = queueKeySeq(key)
		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Set(makeQueueInflightKey(claim), storage.MarshalProcessingJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, 0, err
	}
	return job, claim, nil
}

// Ack removes a claimed job. Unknown claims are not an error: crash
// recovery may already have returned the record to pending.
func (r *QueueRepository) Ack(ctx context.Context, claim uint64) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeQueueInflightKey(claim)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Recover returns all in-flight jobs to pending. Called once at open so
// jobs claimed by a crashed worker are redelivered.
func (r *QueueRepository) Recover(ctx context.Context) (int, error) {
	recovered := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queueInflightPrefix)
		iter := tx.NewIterator(opts)

		type record struct {
			key   []byte
			value []byte
		}
		var records []record
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				iter.Close()
				return err
			}
			records = append(records, record{key: item.KeyCopy(nil), value: value})
		}
		iter.Close()

		for _, rec := range records {
			seq := queueKeySeq(rec.key)
			if err := tx.Set(makeQueuePendingKey(seq), rec.value); err != nil {
				return err
			}
			if err := tx.Delete(rec.key); err != nil {
				return err
			}
		}
		recovered = len(records)
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return recovered, nil
}

// PendingCount reports the number of pending jobs.
func (r *QueueRepository) PendingCount(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queuePendingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}
