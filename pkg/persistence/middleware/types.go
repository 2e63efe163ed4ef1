// Package middleware wraps a ports.TripStore to protect the contact details
// a trip carries once the traveler logs in.
package middleware

import "github.com/aretw0/ecovoyage/pkg/ports"

// Middleware allows wrapping a TripStore to add behavior.
type Middleware func(ports.TripStore) ports.TripStore

// Chain applies mws to store; the first middleware is the outermost.
func Chain(store ports.TripStore, mws ...Middleware) ports.TripStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
