package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/ports"
)

// Mask replaces a redacted value.
const Mask = "***"

type piiMiddleware struct {
	next     ports.TripStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks contact fields whose name (name, phone, email)
// matches one of the patterns whenever a trip is loaded. Saves pass through,
// so it is meant for read-only views such as operator tooling.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.TripStore) ports.TripStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, trip *domain.Trip) error {
	return m.next.Save(ctx, sessionID, trip)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Trip, error) {
	trip, err := m.next.Load(ctx, sessionID)
	if err != nil || trip.Contact == nil {
		return trip, err
	}

	masked := trip.Snapshot()
	fields := map[string]*string{
		"name":  &masked.Contact.Name,
		"phone": &masked.Contact.Phone,
		"email": &masked.Contact.Email,
	}
	for key, f := range fields {
		if *f != "" && m.matches(key) {
			*f = Mask
		}
	}
	return masked, nil
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
