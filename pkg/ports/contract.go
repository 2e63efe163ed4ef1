package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTripStoreContract verifies that a TripStore implementation honours the
// interface contract. Adapters call it from their own tests.
func RunTripStoreContract(t *testing.T, store TripStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		trip := domain.NewTrip(sessionID)
		trip.Screen = domain.ScreenLogin
		trip.History = append(trip.History, domain.ScreenLogin)
		trip.Selections = &domain.Selections{City: "Tokyo", Attractions: []int{0, 2}, Rooms: 1, Travelers: 3, Days: 4}
		trip.Breakdown = &domain.Breakdown{
			City:         "Tokyo",
			Destinations: []string{"Tokyo Tower", "Senso-ji Temple"},
			Subtotal:     1000,
			Tax:          50,
			GrandTotal:   1050,
		}

		require.NoError(t, store.Save(ctx, sessionID, trip), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.ScreenLogin, loaded.Screen)
		assert.Equal(t, trip.History, loaded.History)
		require.NotNil(t, loaded.Selections)
		assert.Equal(t, []int{0, 2}, loaded.Selections.Attractions)
		require.NotNil(t, loaded.Breakdown)
		assert.Equal(t, int64(1050), loaded.Breakdown.GrandTotal)
		assert.Equal(t, trip.Breakdown.Destinations, loaded.Breakdown.Destinations)
		assert.Nil(t, loaded.Contact)
	})

	t.Run("Load Returns A Copy", func(t *testing.T) {
		trip := domain.NewTrip(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, trip))

		trip.Screen = domain.ScreenConfirmation

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.ScreenPlanner, loaded.Screen, "mutating the saved value must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewTrip(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewTrip(id1))
		_ = store.Save(ctx, id2, domain.NewTrip(id2))

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
