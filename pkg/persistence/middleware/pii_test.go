package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/ecovoyage/pkg/adapters/memory"
	"github.com/aretw0/ecovoyage/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "pii", confirmedTrip("pii")))

	view := middleware.NewPIIMiddleware([]string{"phone", "^e"})(underlying)
	trip, err := view.Load(ctx, "pii")
	require.NoError(t, err)

	assert.Equal(t, "Asha", trip.Contact.Name)
	assert.Equal(t, middleware.Mask, trip.Contact.Phone)
	assert.Equal(t, middleware.Mask, trip.Contact.Email)

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", stored.Contact.Phone, "stored trip must not be modified")
}

func TestChain_EncryptThenMask(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()

	store := middleware.Chain(underlying,
		middleware.NewPIIMiddleware([]string{"email"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)
	require.NoError(t, store.Save(ctx, "chain", confirmedTrip("chain")))

	trip, err := store.Load(ctx, "chain")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", trip.Contact.Phone)
	assert.Equal(t, middleware.Mask, trip.Contact.Email)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chain"}, ids)
}
