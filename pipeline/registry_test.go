package pipeline

import (
	"sync"
	"testing"

	"github.com/poiesic/finsift/core"
	"github.com/stretchr/testify/assert"
)

func TestRegistryBeginCancelEnd(t *testing.T) {
	registry := NewRegistry()
	id := core.DocumentID(1)

	token := registry.Begin(id)
	assert.False(t, token.Cancelled())
	assert.True(t, registry.IsRunning(id))

	assert.True(t, registry.Cancel(id))
	assert.True(t, token.Cancelled())

	registry.End(id)
	assert.False(t, registry.IsRunning(id))
}

func TestRegistryCancelUnknown(t *testing.T) {
	registry := NewRegistry()

	// Cancelling a document with no run is harmless
	assert.False(t, registry.Cancel(42))
	assert.False(t, registry.IsRunning(42))
}

func TestRegistryEndUnknown(t *testing.T) {
	registry := NewRegistry()

	registry.End(42)
	assert.False(t, registry.IsRunning(42))
}

func TestRegistryBeginReplacesToken(t *testing.T) {
	registry := NewRegistry()
	id := core.DocumentID(7)

	stale := registry.Begin(id)
	fresh := registry.Begin(id)

	// Cancel routes to the current token only
	assert.True(t, registry.Cancel(id))
	assert.True(t, fresh.Cancelled())
	assert.False(t, stale.Cancelled())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := core.DocumentID(n % 4)
			token := registry.Begin(id)
			registry.Cancel(id)
			_ = token.Cancelled()
			registry.IsRunning(id)
			registry.End(id)
		}(i)
	}
	wg.Wait()

	for id := core.DocumentID(0); id < 4; id++ {
		assert.False(t, registry.IsRunning(id))
	}
}
