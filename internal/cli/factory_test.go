package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/ecovoyage/internal/config"
	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntime_Memory(t *testing.T) {
	rt, err := NewRuntime(context.Background(), config.Default(), logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Store)
	b, err := rt.Planner.Quote(context.Background(), domain.Selections{City: "Paris"})
	require.NoError(t, err)
	assert.Positive(t, b.GrandTotal)
}

func TestNewRuntime_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()

	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	require.NotNil(t, rt.Store)
	_, err = rt.Planner.Start(context.Background(), "redis-session")
	require.NoError(t, err)

	ids, err := rt.Store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"redis-session"}, ids)
}

func TestNewRuntime_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	mr.Close()

	_, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestNewRuntime_BadCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.CatalogPath = "does-not-exist.yaml"

	_, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.Log.Level = "loud"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewRuntime_EncryptedContact(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	cfg.Security.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	ctx := context.Background()
	_, err = rt.Planner.Start(ctx, "sealed")
	require.NoError(t, err)
	_, err = rt.Planner.SubmitPlan(ctx, "sealed", domain.Selections{City: "Seoul"})
	require.NoError(t, err)
	_, err = rt.Planner.SubmitContact(ctx, "sealed", domain.Contact{Name: "Min", Phone: "010-1234", Email: "min@example.com"})
	require.NoError(t, err)

	raw, err := rt.Store.Load(ctx, "sealed")
	require.NoError(t, err)
	assert.NotEqual(t, "010-1234", raw.Contact.Phone)

	trip, err := rt.Planner.Current(ctx, "sealed")
	require.NoError(t, err)
	assert.Equal(t, "010-1234", trip.Contact.Phone)
}
