package ports

import (
	"context"

	"github.com/aretw0/ecovoyage/pkg/domain"
)

// TripStore holds session trips between requests.
// Trips are ephemeral: an implementation may expire them.
type TripStore interface {
	// Save stores the trip for a given session ID.
	Save(ctx context.Context, sessionID string, trip *domain.Trip) error

	// Load retrieves the trip for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Trip, error)

	// Delete removes the trip for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the live sessions.
	List(ctx context.Context) ([]string, error)
}
