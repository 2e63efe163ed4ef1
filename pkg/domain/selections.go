package domain

import (
	"sort"
	"strings"
)

// MealsPerDay is the fixed number of meals priced per traveler per day.
const MealsPerDay = 3

// MaxCount caps rooms, travelers and days.
const MaxCount = 999

// Selections captures a single planner submission.
// Cuisine, Hotel and TravelClass are positional indexes into the catalog.
type Selections struct {
	City        string `json:"city" mapstructure:"city"`
	Attractions []int  `json:"attractions" mapstructure:"attractions"`
	Cuisine     int    `json:"cuisine" mapstructure:"cuisine"`
	Hotel       int    `json:"hotel" mapstructure:"hotel"`
	TravelClass int    `json:"travel_class" mapstructure:"travel_class"`
	Rooms       int    `json:"rooms" mapstructure:"rooms"`
	Travelers   int    `json:"travelers" mapstructure:"travelers"`
	Days        int    `json:"days" mapstructure:"days"`
}

// DefaultSelections returns the planner form as it looks on a fresh screen.
func DefaultSelections() Selections {
	return Selections{Rooms: 1, Travelers: 1, Days: 1}
}

// Normalized returns a copy with counts clamped to [1, MaxCount] and the
// attraction indexes reduced to an ascending set.
func (s Selections) Normalized() Selections {
	out := s
	out.Rooms = clampCount(s.Rooms)
	out.Travelers = clampCount(s.Travelers)
	out.Days = clampCount(s.Days)

	seen := make(map[int]struct{}, len(s.Attractions))
	out.Attractions = make([]int, 0, len(s.Attractions))
	for _, idx := range s.Attractions {
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out.Attractions = append(out.Attractions, idx)
	}
	sort.Ints(out.Attractions)
	return out
}

func clampCount(n int) int {
	return min(max(n, 1), MaxCount)
}

// Contact holds the details collected on the login screen.
type Contact struct {
	Name  string `json:"name" mapstructure:"name"`
	Phone string `json:"phone" mapstructure:"phone"`
	Email string `json:"email" mapstructure:"email"`
}

// Trimmed returns the contact with surrounding whitespace removed.
func (c Contact) Trimmed() Contact {
	return Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}

// Complete reports whether every field is non-blank.
func (c Contact) Complete() bool {
	t := c.Trimmed()
	return t.Name != "" && t.Phone != "" && t.Email != ""
}
