package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTallyStoreContract runs a suite of tests to verify that a TallyStore implementation
// adheres to the defined interface contract.
func RunTallyStoreContract(t *testing.T, store TallyStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Create a tally
		tally := domain.NewTally(sessionID)
		tally.Record("card-1", domain.DecisionSave, time.Now())
		tally.Record("card-2", domain.DecisionSkip, time.Now())

		// 2. Save
		err := store.Save(ctx, sessionID, tally)
		require.NoError(t, err, "Save should not return error")

		// 3. Load
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []string{"card-1"}, loaded.Saved)
		assert.Equal(t, []string{"card-2"}, loaded.Skipped)
		assert.Equal(t, 1, loaded.NextPinIndex())
	})

	t.Run("Loaded tally is a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Saved = append(loaded.Saved, "mutated")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotContains(t, again.Saved, "mutated")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewTally(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewTally(id1))
		_ = store.Save(ctx, id2, domain.NewTally(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
