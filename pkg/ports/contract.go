package ports

import (
	"context"
	"testing"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newRecord := func(id string) *domain.Exploration {
		now := time.Now().UTC().Truncate(time.Second)
		return &domain.Exploration{
			SessionID: id,
			Topic:     "Physics",
			Path:      []string{"History of Physics"},
			Menu:      []string{"Early History", "Mid-20th Century"},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		exp := newRecord(sessionID)

		err := store.Save(ctx, sessionID, exp)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, exp.Topic, loaded.Topic)
		assert.Equal(t, exp.Path, loaded.Path)
		assert.Equal(t, exp.Menu, loaded.Menu)
		assert.True(t, exp.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Returns Isolated Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, newRecord(sessionID)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Path = append(loaded.Path, "mutated")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"History of Physics"}, again.Path)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newRecord(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newRecord(id1))
		_ = store.Save(ctx, id2, newRecord(id2))

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
