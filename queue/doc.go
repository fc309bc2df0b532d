// Package queue provides the durable dispatch queue for processing jobs.
//
// Jobs are typed records in a dedicated store, separate from the primary
// data directory, so a broken queue store never takes document storage
// down with it. Enqueue degrades instead of failing: when the store is
// unavailable it reports false and the caller processes synchronously.
//
// The Dispatcher delivers jobs to worker loops with prefetch 1: a worker
// claims one pending job, runs the handler, and acknowledges only after
// the handler returns. Claims orphaned by a crash are recovered to
// pending on the next open, so delivery is at-least-once and handlers
// must be idempotent.
package queue
