package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/poiesic/finsift/core"
)

// Token is the cancellation handle for one processing run. The cancelled
// flag is an atomic bool, so checkpoint reads never contend with
// registration or cancellation.
type Token struct {
	cancelled atomic.Bool
}

// Cancel flags the run for cooperative cancellation.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
// It is a non-blocking read.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

// Registry tracks in-flight processing runs and routes cancellation
// requests to them. All mutations hold a single mutex for a short
// critical section; the registry is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	tokens map[core.DocumentID]*Token
}

// NewRegistry creates an empty run registry.
func NewRegistry() *Registry {
	return &Registry{
		tokens: make(map[core.DocumentID]*Token),
	}
}

// Begin registers a run for the document and returns a fresh cancellation
// token, replacing any stale entry. A superseded run keeps observing its
// own token.
func (r *Registry) Begin(id core.DocumentID) *Token {
	token := &Token{}

	r.mu.Lock()
	r.tokens[id] = token
	r.mu.Unlock()

	return token
}

// Cancel flags the document's run for cancellation and reports whether a
// run was registered. Cancelling a document that already finished is
// harmless and returns false.
func (r *Registry) Cancel(id core.DocumentID) bool {
	r.mu.Lock()
	token, ok := r.tokens[id]
	r.mu.Unlock()

	if !ok {
		return false
	}
	token.Cancel()
	return true
}

// End removes the document's registry entry unconditionally. The
// orchestrator defers it so every exit path releases the entry.
func (r *Registry) End(id core.DocumentID) {
	r.mu.Lock()
	delete(r.tokens, id)
	r.mu.Unlock()
}

// IsRunning reports whether a run is currently registered for the document.
func (r *Registry) IsRunning(id core.DocumentID) bool {
	r.mu.Lock()
	_, ok := r.tokens[id]
	r.mu.Unlock()
	return ok
}
