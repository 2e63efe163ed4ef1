package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidSelection is returned when a selection cannot be resolved against the catalog.
var ErrInvalidSelection = errors.New("invalid selection")

// ErrMissingCitySelection is returned when no valid city was chosen.
// It wraps ErrInvalidSelection.
var ErrMissingCitySelection = fmt.Errorf("%w: no valid city selected", ErrInvalidSelection)

// ErrEmptyContactField is returned when name, phone or email is blank.
var ErrEmptyContactField = errors.New("contact field is empty")

// ErrNoTripCalculated is returned when confirmation is requested without a breakdown.
var ErrNoTripCalculated = errors.New("no trip calculated")

// ErrInvalidTransition is returned when an event is not allowed on the active screen.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// Error kinds exposed to clients.
const (
	KindMissingCitySelection = "missing_city_selection"
	KindInvalidSelection     = "invalid_selection"
	KindEmptyContactField    = "empty_contact_field"
	KindNoTripCalculated     = "no_trip_calculated"
	KindInvalidTransition    = "invalid_transition"
	KindSessionNotFound      = "session_not_found"
	KindInternal             = "internal"
)

// ErrorKind maps an error to a stable machine-readable kind.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCitySelection):
		return KindMissingCitySelection
	case errors.Is(err, ErrInvalidSelection):
		return KindInvalidSelection
	case errors.Is(err, ErrEmptyContactField):
		return KindEmptyContactField
	case errors.Is(err, ErrNoTripCalculated):
		return KindNoTripCalculated
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrSessionNotFound):
		return KindSessionNotFound
	}
	return KindInternal
}

// UserMessage returns the alert text shown to the user for err.
func UserMessage(err error) string {
	switch ErrorKind(err) {
	case "":
		return ""
	case KindMissingCitySelection:
		return "Please select a city."
	case KindInvalidSelection:
		return "Please review your selections."
	case KindEmptyContactField:
		return "Please enter name, phone and email to continue."
	case KindNoTripCalculated:
		return "Please calculate your trip before login."
	case KindInvalidTransition:
		return "That action is not available on this screen."
	case KindSessionNotFound:
		return "Your planning session has expired. Please start again."
	}
	return "Something went wrong. Please try again."
}

// IsUserError reports whether err is recoverable by the user.
func IsUserError(err error) bool {
	switch ErrorKind(err) {
	case KindMissingCitySelection, KindInvalidSelection, KindEmptyContactField, KindNoTripCalculated:
		return true
	}
	return false
}
