package domain

// Attraction is a priced sight within a city. UnitCost is charged per day.
type Attraction struct {
	Name     string `json:"name" yaml:"name"`
	UnitCost int64  `json:"cost" yaml:"cost"`
}

// CostOption is a priced tier (cuisine, hotel or travel class).
type CostOption struct {
	Name     string `json:"name" yaml:"name"`
	UnitCost int64  `json:"cost" yaml:"cost"`
}

// City groups the attractions offered at a destination.
// Attractions are selected by position, so their order is significant.
type City struct {
	Name        string       `json:"name" yaml:"name"`
	Image       string       `json:"image,omitempty" yaml:"image,omitempty"`
	Attractions []Attraction `json:"attractions" yaml:"attractions"`
}
