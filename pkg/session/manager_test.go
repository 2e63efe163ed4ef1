package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/ecovoyage/pkg/adapters/memory"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/ports"
	"github.com/aretw0/ecovoyage/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates IO latency to provoke lost updates if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.Trip, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func TestManager_UpdateSerializes(t *testing.T) {
	mgr := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Update(ctx, id, true, func(_ context.Context, trip *domain.Trip) (*domain.Trip, error) {
				next := trip.Snapshot()
				next.History = append(next.History, domain.ScreenLogin)
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	trip, err := mgr.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, trip.History, writers+1, "every read-modify-write must be preserved")
}

func TestManager_LoadOrStart(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	trip, err := mgr.LoadOrStart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenPlanner, trip.Screen)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err, "a new session is reserved immediately")
	assert.Equal(t, "s1", stored.SessionID)

	stored.Screen = domain.ScreenLogin
	require.NoError(t, store.Save(ctx, "s1", stored))

	again, err := mgr.LoadOrStart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenLogin, again.Screen)
}

func TestManager_UpdateSavesOnError(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()
	boom := errors.New("boom")

	got, err := mgr.Update(ctx, "s1", true, func(_ context.Context, trip *domain.Trip) (*domain.Trip, error) {
		next := trip.Snapshot()
		next.Screen = domain.ScreenLogin
		return next, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.ScreenLogin, got.Screen)

	stored, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenLogin, stored.Screen)
}

func TestManager_UpdateMissingSession(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	called := false
	_, err := mgr.Update(context.Background(), "ghost", false, func(context.Context, *domain.Trip) (*domain.Trip, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, called)
}

type countingLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	failWith error
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	l.locks++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	_, err := mgr.LoadOrStart(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, "s1"))

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)

	locker.failWith = errors.New("redis down")
	_, err = mgr.LoadOrStart(ctx, "s2")
	assert.ErrorContains(t, err, "failed to acquire distributed lock")
}
