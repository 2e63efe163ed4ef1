package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventScreenEnter EventType = "screen_enter"
	EventScreenLeave EventType = "screen_leave"
	EventQuote       EventType = "quote"
	EventRejected    EventType = "rejected"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ScreenEvent represents entry into or exit from a screen.
type ScreenEvent struct {
	EventBase
	Screen Screen `json:"screen"`
	Cause  string `json:"cause"`
}

// QuoteEvent is emitted each time a breakdown is computed.
type QuoteEvent struct {
	EventBase
	Breakdown *Breakdown `json:"breakdown"`
}

// RejectedEvent is emitted when a handler refuses an action.
type RejectedEvent struct {
	EventBase
	Screen Screen `json:"screen"`
	Cause  string `json:"cause"`
	Kind   string `json:"kind"`
}

// LifecycleHooks defines callbacks for planner observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnScreenEnter func(context.Context, *ScreenEvent)
	OnScreenLeave func(context.Context, *ScreenEvent)
	OnQuote       func(context.Context, *QuoteEvent)
	OnRejected    func(context.Context, *RejectedEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnScreenEnter: chain(h.OnScreenEnter, other.OnScreenEnter),
		OnScreenLeave: chain(h.OnScreenLeave, other.OnScreenLeave),
		OnQuote:       chain(h.OnQuote, other.OnQuote),
		OnRejected:    chain(h.OnRejected, other.OnRejected),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
