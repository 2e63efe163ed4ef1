// Package flow implements the planner's view state machine.
//
// A Machine is stateless: every handler receives the current Trip and
// returns a new snapshot, leaving its input untouched. On failure the
// returned snapshot is still the state the session must be left in.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/pricing"
)

// Machine drives Planner → Login → Confirmation.
type Machine struct {
	catalog *catalog.Catalog
	taxRate float64
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Machine.
type Option func(*Machine)

// WithTaxRate overrides pricing.DefaultTaxRate.
func WithTaxRate(rate float64) Option {
	return func(m *Machine) {
		m.taxRate = rate
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine creates a machine pricing against cat.
func NewMachine(cat *catalog.Catalog, opts ...Option) *Machine {
	m := &Machine{
		catalog: cat,
		taxRate: pricing.DefaultTaxRate,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the catalog the machine prices against.
func (m *Machine) Catalog() *catalog.Catalog {
	return m.catalog
}

// TaxRate returns the configured tax rate.
func (m *Machine) TaxRate() float64 {
	return m.taxRate
}

// Quote prices sel without touching any trip.
func (m *Machine) Quote(ctx context.Context, sessionID string, sel domain.Selections) (domain.Breakdown, error) {
	b, err := pricing.Compute(sel, m.catalog, m.taxRate)
	if err != nil {
		return domain.Breakdown{}, err
	}
	if m.hooks.OnQuote != nil {
		m.hooks.OnQuote(ctx, &domain.QuoteEvent{
			EventBase: m.base(domain.EventQuote, sessionID),
			Breakdown: b.Clone(),
		})
	}
	return b, nil
}

// SubmitPlan prices sel and moves the trip to the login screen.
// On failure the trip is returned unchanged.
func (m *Machine) SubmitPlan(ctx context.Context, trip *domain.Trip, sel domain.Selections) (*domain.Trip, error) {
	if err := m.guard(ctx, trip, EventSubmitPlan); err != nil {
		return trip.Snapshot(), err
	}

	sel = sel.Normalized()
	b, err := m.Quote(ctx, trip.SessionID, sel)
	if err != nil {
		m.reject(ctx, trip, EventSubmitPlan, err)
		return trip.Snapshot(), err
	}

	next := trip.Snapshot()
	next.Selections = &sel
	next.Breakdown = &b
	return m.transitionTo(ctx, next, domain.ScreenLogin, EventSubmitPlan), nil
}

// SubmitContact records contact details and shows the confirmation.
//
// Blank fields keep the trip on the login screen. A trip without a
// breakdown is sent back to the planner with domain.ErrNoTripCalculated,
// including one that is already there (a fresh or restarted session).
func (m *Machine) SubmitContact(ctx context.Context, trip *domain.Trip, contact domain.Contact) (*domain.Trip, error) {
	if trip != nil && trip.Screen == domain.ScreenPlanner && !trip.HasBreakdown() {
		m.reject(ctx, trip, EventSubmitContact, domain.ErrNoTripCalculated)
		return trip.Snapshot(), domain.ErrNoTripCalculated
	}
	if err := m.guard(ctx, trip, EventSubmitContact); err != nil {
		return trip.Snapshot(), err
	}

	contact = contact.Trimmed()
	if !contact.Complete() {
		m.reject(ctx, trip, EventSubmitContact, domain.ErrEmptyContactField)
		return trip.Snapshot(), domain.ErrEmptyContactField
	}

	if !trip.HasBreakdown() {
		m.reject(ctx, trip, EventSubmitContact, domain.ErrNoTripCalculated)
		next := trip.Snapshot()
		return m.transitionTo(ctx, next, domain.ScreenPlanner, EventSubmitContact), domain.ErrNoTripCalculated
	}

	next := trip.Snapshot()
	next.Contact = &contact
	return m.transitionTo(ctx, next, domain.ScreenConfirmation, EventSubmitContact), nil
}

// Restart discards the calculated plan and returns to an empty planner.
func (m *Machine) Restart(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	if err := m.guard(ctx, trip, EventRestart); err != nil {
		return trip.Snapshot(), err
	}

	next := trip.Snapshot()
	next.Breakdown = nil
	next.Selections = nil
	next.Contact = nil
	// History is reset, then transitionTo records it as [planner].
	next.History = []domain.Screen{}
	return m.transitionTo(ctx, next, domain.ScreenPlanner, EventRestart), nil
}

// guard rejects events the table does not allow on the trip's screen.
func (m *Machine) guard(ctx context.Context, trip *domain.Trip, ev Event) error {
	if trip == nil {
		return fmt.Errorf("%w: no trip", domain.ErrInvalidTransition)
	}
	if _, ok := Target(trip.Screen, ev); !ok {
		err := fmt.Errorf("%w: %s is not allowed on the %s screen", domain.ErrInvalidTransition, ev, trip.Screen)
		m.reject(ctx, trip, ev, err)
		return err
	}
	return nil
}

func (m *Machine) transitionTo(ctx context.Context, next *domain.Trip, target domain.Screen, ev Event) *domain.Trip {
	from := next.Screen
	if m.hooks.OnScreenLeave != nil {
		m.hooks.OnScreenLeave(ctx, &domain.ScreenEvent{
			EventBase: m.base(domain.EventScreenLeave, next.SessionID),
			Screen:    from,
			Cause:     string(ev),
		})
	}

	next.Screen = target
	next.History = append(next.History, target)
	next.UpdatedAt = m.now().UTC()

	m.logger.Debug("screen transition",
		"session_id", next.SessionID,
		"event", ev,
		"from", from,
		"to", target,
	)

	if m.hooks.OnScreenEnter != nil {
		m.hooks.OnScreenEnter(ctx, &domain.ScreenEvent{
			EventBase: m.base(domain.EventScreenEnter, next.SessionID),
			Screen:    target,
			Cause:     string(ev),
		})
	}
	return next
}

func (m *Machine) reject(ctx context.Context, trip *domain.Trip, ev Event, err error) {
	m.logger.Info("action rejected",
		"session_id", trip.SessionID,
		"screen", trip.Screen,
		"event", ev,
		"err", err,
	)
	if m.hooks.OnRejected != nil {
		m.hooks.OnRejected(ctx, &domain.RejectedEvent{
			EventBase: m.base(domain.EventRejected, trip.SessionID),
			Screen:    trip.Screen,
			Cause:     string(ev),
			Kind:      domain.ErrorKind(err),
		})
	}
}

func (m *Machine) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: m.now().UTC(),
		Type:      t,
		SessionID: sessionID,
	}
}
