package ecovoyage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/ecovoyage/internal/flow"
	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/adapters/memory"
	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/ports"
	"github.com/aretw0/ecovoyage/pkg/pricing"
	"github.com/aretw0/ecovoyage/pkg/session"
	"github.com/aretw0/ecovoyage/pkg/view"
	"github.com/google/uuid"
)

// ChangeFunc is notified after a session changed and was saved.
type ChangeFunc func(ctx context.Context, diff *domain.TripDiff)

// Planner is the high-level entry point for the trip planner.
// It is safe for concurrent use; calls for the same session are serialized.
type Planner struct {
	catalog   *catalog.Catalog
	taxRate   float64
	store     ports.TripStore
	locker    ports.DistributedLocker
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	formatter view.Formatter

	machine  *flow.Machine
	sessions *session.Manager

	mu        sync.RWMutex
	listeners []ChangeFunc
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithCatalog replaces the built-in catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(p *Planner) {
		p.catalog = cat
	}
}

// WithTaxRate overrides pricing.DefaultTaxRate.
func WithTaxRate(rate float64) Option {
	return func(p *Planner) {
		p.taxRate = rate
	}
}

// WithStore sets the session container (default: in memory).
func WithStore(store ports.TripStore) Option {
	return func(p *Planner) {
		p.store = store
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(p *Planner) {
		p.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Planner) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithFormatter sets how amounts are displayed.
func WithFormatter(f view.Formatter) Option {
	return func(p *Planner) {
		p.formatter = f
	}
}

// New initializes a Planner.
func New(opts ...Option) (*Planner, error) {
	p := &Planner{
		taxRate:   pricing.DefaultTaxRate,
		formatter: view.DefaultFormatter(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.catalog == nil {
		p.catalog = catalog.Default()
	}
	if err := p.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if p.taxRate < 0 || p.taxRate >= 1 {
		return nil, fmt.Errorf("tax rate must be in [0, 1), got %v", p.taxRate)
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.store == nil {
		p.store = memory.NewStore()
	}

	p.machine = flow.NewMachine(p.catalog,
		flow.WithTaxRate(p.taxRate),
		flow.WithLifecycleHooks(p.hooks),
		flow.WithLogger(p.logger),
	)

	sessionOpts := []session.Option{session.WithLogger(p.logger)}
	if p.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(p.locker))
	}
	p.sessions = session.NewManager(p.store, sessionOpts...)

	return p, nil
}

// Catalog returns the catalog in use.
func (p *Planner) Catalog() *catalog.Catalog {
	return p.catalog
}

// TaxRate returns the configured tax rate.
func (p *Planner) TaxRate() float64 {
	return p.taxRate
}

// Formatter returns the display formatter.
func (p *Planner) Formatter() view.Formatter {
	return p.formatter
}

// Sessions exposes the session manager, e.g. for listing.
func (p *Planner) Sessions() *session.Manager {
	return p.sessions
}

// OnChange registers fn to be called after every saved session change.
func (p *Planner) OnChange(fn ChangeFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Quote prices sel without a session.
func (p *Planner) Quote(ctx context.Context, sel domain.Selections) (domain.Breakdown, error) {
	return p.machine.Quote(ctx, "", sel.Normalized())
}

// Start returns the session's trip, creating a Planner-screen trip if
// needed. An empty sessionID gets a fresh random ID.
func (p *Planner) Start(ctx context.Context, sessionID string) (*domain.Trip, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	trip, created, err := p.sessions.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !created {
		return trip, nil
	}
	if p.hooks.OnScreenEnter != nil {
		p.hooks.OnScreenEnter(ctx, &domain.ScreenEvent{
			EventBase: domain.EventBase{Timestamp: trip.UpdatedAt, Type: domain.EventScreenEnter, SessionID: sessionID},
			Screen:    domain.ScreenPlanner,
			Cause:     "start",
		})
	}
	p.notify(ctx, domain.Diff(nil, trip))
	return trip, nil
}

// Current loads the session's trip.
func (p *Planner) Current(ctx context.Context, sessionID string) (*domain.Trip, error) {
	return p.sessions.Load(ctx, sessionID)
}

// End discards the session.
func (p *Planner) End(ctx context.Context, sessionID string) error {
	return p.sessions.Delete(ctx, sessionID)
}

// SubmitPlan prices sel and moves the session to the login screen.
func (p *Planner) SubmitPlan(ctx context.Context, sessionID string, sel domain.Selections) (*domain.Trip, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, t *domain.Trip) (*domain.Trip, error) {
		return p.machine.SubmitPlan(ctx, t, sel)
	})
}

// SubmitContact records contact details and confirms the trip.
func (p *Planner) SubmitContact(ctx context.Context, sessionID string, contact domain.Contact) (*domain.Trip, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, t *domain.Trip) (*domain.Trip, error) {
		return p.machine.SubmitContact(ctx, t, contact)
	})
}

// Restart clears the plan and returns to the planner.
func (p *Planner) Restart(ctx context.Context, sessionID string) (*domain.Trip, error) {
	return p.update(ctx, sessionID, p.machine.Restart)
}

// Render builds the page for the session's active screen.
func (p *Planner) Render(ctx context.Context, sessionID string) (view.Page, error) {
	trip, err := p.Current(ctx, sessionID)
	if err != nil {
		return view.Page{}, err
	}
	return p.Page(trip)
}

// Page renders an already loaded trip.
func (p *Planner) Page(trip *domain.Trip) (view.Page, error) {
	return view.Render(trip, p.catalog, p.formatter)
}

// update runs handler under the session lock and notifies listeners.
// The handler's returned trip is saved even when it also returns an error.
func (p *Planner) update(ctx context.Context, sessionID string, handler func(context.Context, *domain.Trip) (*domain.Trip, error)) (*domain.Trip, error) {
	var before *domain.Trip
	trip, err := p.sessions.Update(ctx, sessionID, false, func(ctx context.Context, t *domain.Trip) (*domain.Trip, error) {
		before = t
		return handler(ctx, t)
	})
	if before != nil && trip != nil {
		if diff := domain.Diff(before, trip); diff != nil {
			p.notify(ctx, diff)
		}
	}
	return trip, err
}

func (p *Planner) notify(ctx context.Context, diff *domain.TripDiff) {
	p.mu.RLock()
	listeners := append([]ChangeFunc(nil), p.listeners...)
	p.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, diff)
	}
}
