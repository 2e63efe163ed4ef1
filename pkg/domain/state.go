package domain

import (
	"fmt"
	"time"
)

// Screen identifies which of the three views is active.
type Screen string

const (
	ScreenPlanner      Screen = "planner"      // Selections form
	ScreenLogin        Screen = "login"        // Contact details form
	ScreenConfirmation Screen = "confirmation" // Final summary
)

// Screens lists every screen in display order.
var Screens = []Screen{ScreenPlanner, ScreenLogin, ScreenConfirmation}

// Valid reports whether s is a known screen.
func (s Screen) Valid() bool {
	switch s {
	case ScreenPlanner, ScreenLogin, ScreenConfirmation:
		return true
	}
	return false
}

// ParseScreen converts a string into a Screen.
func ParseScreen(v string) (Screen, error) {
	s := Screen(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown screen %q", v)
	}
	return s, nil
}

// Trip is the per-session application state.
// Breakdown is nil until a plan has been calculated in the current cycle.
type Trip struct {
	SessionID string `json:"session_id"`

	// Screen is the single active view.
	Screen Screen `json:"screen"`

	// Selections is the submission that produced Breakdown.
	// Nil means the planner form shows its defaults.
	Selections *Selections `json:"selections,omitempty"`

	Breakdown *Breakdown `json:"breakdown,omitempty"`

	Contact *Contact `json:"contact,omitempty"`

	// History tracks the screens visited, starting with the planner.
	History []Screen `json:"history,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewTrip creates a clean trip on the planner screen.
func NewTrip(sessionID string) *Trip {
	return &Trip{
		SessionID: sessionID,
		Screen:    ScreenPlanner,
		History:   []Screen{ScreenPlanner},
		UpdatedAt: time.Now().UTC(),
	}
}

// HasBreakdown reports whether a plan has been calculated.
func (t *Trip) HasBreakdown() bool {
	return t != nil && t.Breakdown != nil
}

// Snapshot returns a deep copy so handlers can derive a new state without
// mutating the caller's value.
func (t *Trip) Snapshot() *Trip {
	if t == nil {
		return nil
	}
	out := *t
	out.Breakdown = t.Breakdown.Clone()
	if t.Selections != nil {
		sel := *t.Selections
		sel.Attractions = append([]int(nil), t.Selections.Attractions...)
		out.Selections = &sel
	}
	if t.Contact != nil {
		c := *t.Contact
		out.Contact = &c
	}
	out.History = append([]Screen(nil), t.History...)
	return &out
}
