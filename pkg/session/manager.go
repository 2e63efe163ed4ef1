package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a session lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Lock entries are reference counted and dropped once unused.
type Manager struct {
	store ports.TripStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager over store.
func NewManager(store ports.TripStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing trip.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Trip, error) {
	var trip *domain.Trip
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		trip, err = m.store.Load(ctx, sessionID)
		return err
	})
	return trip, err
}

// LoadOrStart loads a trip, creating a fresh planner trip if none exists.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.Trip, error) {
	trip, _, err := m.Open(ctx, sessionID)
	return trip, err
}

// Open is LoadOrStart that also reports whether the session was created.
func (m *Manager) Open(ctx context.Context, sessionID string) (*domain.Trip, bool, error) {
	var (
		trip    *domain.Trip
		created bool
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		trip, created, err = m.loadOrNew(ctx, sessionID)
		return err
	})
	return trip, created, err
}

func (m *Manager) loadOrNew(ctx context.Context, sessionID string) (*domain.Trip, bool, error) {
	trip, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return trip, false, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to check session existence: %w", err)
	}

	trip = domain.NewTrip(sessionID)
	// Persist immediately to reserve the ID.
	if err := m.store.Save(ctx, sessionID, trip); err != nil {
		return nil, false, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("session started", "session_id", sessionID)
	return trip, true, nil
}

// Update runs a load-transition-save cycle under the session lock.
//
// fn receives the current trip. Whatever trip fn returns is saved, even
// alongside an error, so rejected actions can still move the session (e.g.
// back to the planner). A nil trip from fn skips the save.
func (m *Manager) Update(ctx context.Context, sessionID string, create bool, fn func(context.Context, *domain.Trip) (*domain.Trip, error)) (*domain.Trip, error) {
	var result *domain.Trip
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var (
			current *domain.Trip
			err     error
		)
		if create {
			current, _, err = m.loadOrNew(ctx, sessionID)
		} else {
			current, err = m.store.Load(ctx, sessionID)
		}
		if err != nil {
			return err
		}

		next, fnErr := fn(ctx, current)
		if next == nil {
			result = current
			return fnErr
		}
		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		result = next
		return fnErr
	})
	return result, err
}

// Save persists the trip.
func (m *Manager) Save(ctx context.Context, sessionID string, trip *domain.Trip) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, trip)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying trip store.
func (m *Manager) Store() ports.TripStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release with a fresh context so a cancelled request still frees the lock.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
