package flow

import "github.com/aretw0/ecovoyage/pkg/domain"

// Event names a user action that may move the trip to another screen.
type Event string

const (
	EventSubmitPlan    Event = "submit_plan"
	EventSubmitContact Event = "submit_contact"
	EventRestart       Event = "restart"
)

// transitions is the exhaustive table of allowed moves.
// Guards may redirect (submit_contact without a breakdown goes back to, or
// stays on, the planner) but never to a screen outside this table's targets.
var transitions = map[domain.Screen]map[Event]domain.Screen{
	domain.ScreenPlanner: {
		EventSubmitPlan: domain.ScreenLogin,
	},
	domain.ScreenLogin: {
		EventSubmitContact: domain.ScreenConfirmation,
	},
	domain.ScreenConfirmation: {
		EventRestart: domain.ScreenPlanner,
	},
}

// Target returns the screen an event leads to from screen, if allowed.
func Target(screen domain.Screen, ev Event) (domain.Screen, bool) {
	next, ok := transitions[screen][ev]
	return next, ok
}

// Allowed lists the events accepted on screen.
func Allowed(screen domain.Screen) []Event {
	// Fixed order keeps rendering deterministic.
	var out []Event
	for _, ev := range []Event{EventSubmitPlan, EventSubmitContact, EventRestart} {
		if _, ok := transitions[screen][ev]; ok {
			out = append(out, ev)
		}
	}
	return out
}
