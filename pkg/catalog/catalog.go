// Package catalog holds the ordered reference data the planner prices against.
//
// Every lookup except City is positional: the planner submits indexes, so the
// declaration order of cities, attractions and options is part of the contract.
package catalog

import (
	"errors"
	"fmt"

	"github.com/aretw0/ecovoyage/pkg/domain"
)

// Catalog is read-only once built.
type Catalog struct {
	Cities        []domain.City       `json:"cities" yaml:"cities"`
	Cuisines      []domain.CostOption `json:"cuisines" yaml:"cuisines"`
	Hotels        []domain.CostOption `json:"hotels" yaml:"hotels"`
	TravelClasses []domain.CostOption `json:"travel_classes" yaml:"travel_classes"`
}

// CityNames returns the city keys in declaration order.
func (c *Catalog) CityNames() []string {
	names := make([]string, len(c.Cities))
	for i, city := range c.Cities {
		names[i] = city.Name
	}
	return names
}

// City looks a city up by name.
func (c *Catalog) City(name string) (domain.City, bool) {
	for _, city := range c.Cities {
		if city.Name == name {
			return city, true
		}
	}
	return domain.City{}, false
}

// CityAt looks a city up by position.
func (c *Catalog) CityAt(i int) (domain.City, bool) {
	if i < 0 || i >= len(c.Cities) {
		return domain.City{}, false
	}
	return c.Cities[i], true
}

// Cuisine returns the cuisine option at position i.
func (c *Catalog) Cuisine(i int) (domain.CostOption, bool) { return optionAt(c.Cuisines, i) }

// Hotel returns the hotel option at position i.
func (c *Catalog) Hotel(i int) (domain.CostOption, bool) { return optionAt(c.Hotels, i) }

// TravelClass returns the travel class option at position i.
func (c *Catalog) TravelClass(i int) (domain.CostOption, bool) { return optionAt(c.TravelClasses, i) }

func optionAt(opts []domain.CostOption, i int) (domain.CostOption, bool) {
	if i < 0 || i >= len(opts) {
		return domain.CostOption{}, false
	}
	return opts[i], true
}

// Validate checks the catalog for structural problems.
// All violations are reported together.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Cities) == 0 {
		errs = append(errs, errors.New("catalog has no cities"))
	}
	seen := make(map[string]bool, len(c.Cities))
	for i, city := range c.Cities {
		if city.Name == "" {
			errs = append(errs, fmt.Errorf("cities[%d]: name is empty", i))
		}
		if seen[city.Name] {
			errs = append(errs, fmt.Errorf("cities[%d]: duplicate city %q", i, city.Name))
		}
		seen[city.Name] = true
		for j, a := range city.Attractions {
			if a.Name == "" {
				errs = append(errs, fmt.Errorf("cities[%d].attractions[%d]: name is empty", i, j))
			}
			if a.UnitCost < 0 {
				errs = append(errs, fmt.Errorf("cities[%d].attractions[%d]: negative cost %d", i, j, a.UnitCost))
			}
		}
	}

	errs = append(errs, validateOptions("cuisines", c.Cuisines)...)
	errs = append(errs, validateOptions("hotels", c.Hotels)...)
	errs = append(errs, validateOptions("travel_classes", c.TravelClasses)...)

	return errors.Join(errs...)
}

func validateOptions(field string, opts []domain.CostOption) []error {
	if len(opts) == 0 {
		return []error{fmt.Errorf("%s: at least one option is required", field)}
	}
	var errs []error
	for i, o := range opts {
		if o.Name == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: name is empty", field, i))
		}
		if o.UnitCost < 0 {
			errs = append(errs, fmt.Errorf("%s[%d]: negative cost %d", field, i, o.UnitCost))
		}
	}
	return errs
}
