package domain

import "slices"

// TripDiff represents the changes between two trip snapshots.
// It is serialized to JSON for partial updates on the client.
type TripDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Screen *Screen `json:"screen,omitempty"`

	// Breakdown carries the new breakdown when it changed.
	// BreakdownCleared is set when a previously calculated plan was discarded.
	Breakdown        *Breakdown `json:"breakdown,omitempty"`
	BreakdownCleared bool       `json:"breakdown_cleared,omitempty"`

	Contact        *Contact `json:"contact,omitempty"`
	ContactCleared bool     `json:"contact_cleared,omitempty"`

	// HistoryAppended contains screens appended since the old snapshot.
	// When HistoryReset is set the old history was discarded and
	// HistoryAppended holds the whole new history.
	HistoryAppended []Screen `json:"history_appended,omitempty"`
	HistoryReset    bool     `json:"history_reset,omitempty"`
}

// Diff calculates the difference between oldTrip and newTrip.
// If oldTrip is nil, the diff describes the whole of newTrip (initial load).
// It returns nil when nothing changed.
func Diff(oldTrip, newTrip *Trip) *TripDiff {
	if newTrip == nil {
		return nil
	}

	diff := &TripDiff{SessionID: newTrip.SessionID}

	if oldTrip == nil || oldTrip.Screen != newTrip.Screen {
		screen := newTrip.Screen
		diff.Screen = &screen
	}

	var oldBreakdown *Breakdown
	var oldContact *Contact
	var oldHistory []Screen
	if oldTrip != nil {
		oldBreakdown = oldTrip.Breakdown
		oldContact = oldTrip.Contact
		oldHistory = oldTrip.History
	}

	switch {
	case newTrip.Breakdown == nil && oldBreakdown != nil:
		diff.BreakdownCleared = true
	case newTrip.Breakdown != nil && !sameBreakdown(oldBreakdown, newTrip.Breakdown):
		diff.Breakdown = newTrip.Breakdown.Clone()
	}

	switch {
	case newTrip.Contact == nil && oldContact != nil:
		diff.ContactCleared = true
	case newTrip.Contact != nil && (oldContact == nil || *oldContact != *newTrip.Contact):
		c := *newTrip.Contact
		diff.Contact = &c
	}

	// History is append-only within a cycle; Restart starts a new one.
	switch {
	case len(newTrip.History) < len(oldHistory) ||
		!slices.Equal(oldHistory, newTrip.History[:len(oldHistory)]):
		diff.HistoryReset = true
		diff.HistoryAppended = slices.Clone(newTrip.History)
	case len(newTrip.History) > len(oldHistory):
		diff.HistoryAppended = slices.Clone(newTrip.History[len(oldHistory):])
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func sameBreakdown(a, b *Breakdown) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.City == b.City &&
		slices.Equal(a.Destinations, b.Destinations) &&
		a.DestCost == b.DestCost &&
		a.Cuisine == b.Cuisine &&
		a.CuisineCostPerMeal == b.CuisineCostPerMeal &&
		a.FoodCost == b.FoodCost &&
		a.Hotel == b.Hotel &&
		a.HotelCostPerNight == b.HotelCostPerNight &&
		a.HotelCost == b.HotelCost &&
		a.TravelClass == b.TravelClass &&
		a.TravelCost == b.TravelCost &&
		a.Rooms == b.Rooms &&
		a.Travelers == b.Travelers &&
		a.Days == b.Days &&
		a.Subtotal == b.Subtotal &&
		a.Tax == b.Tax &&
		a.GrandTotal == b.GrandTotal
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *TripDiff) IsEmpty() bool {
	return d.Screen == nil &&
		d.Breakdown == nil &&
		!d.BreakdownCleared &&
		d.Contact == nil &&
		!d.ContactCleared &&
		len(d.HistoryAppended) == 0 &&
		!d.HistoryReset
}
