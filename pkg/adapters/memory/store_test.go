package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/eventdeck/pkg/adapters/memory"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunTallyStoreContract(t, store)
}

func TestMemoryStore_SaveIsolatesCaller(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	tally := domain.NewTally("s1")
	tally.Record("a", domain.DecisionSave, time.Now())
	require.NoError(t, store.Save(ctx, "s1", tally))

	// Mutating the caller's tally after Save must not leak into the store
	tally.Record("b", domain.DecisionSave, time.Now())

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, loaded.Saved)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, "shared", domain.NewTally("shared"))
			_, _ = store.Load(ctx, "shared")
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, sessions)
}
