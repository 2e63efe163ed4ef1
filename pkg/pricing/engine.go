// Package pricing computes itemized trip cost breakdowns.
//
// Compute is a pure function: it reads a Selections value and the catalog and
// returns a Breakdown. Storing the result is the caller's job.
package pricing

import (
	"fmt"
	"math"

	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
)

// DefaultTaxRate is the flat tax applied to the subtotal.
const DefaultTaxRate = 0.05

// Compute prices sel against cat.
//
// Unknown cities fail with domain.ErrMissingCitySelection. Attraction indexes
// outside the city's list are skipped rather than rejected. An out-of-range
// cuisine, hotel or travel class index fails with domain.ErrInvalidSelection,
// as does a total that does not fit in an int64.
func Compute(sel domain.Selections, cat *catalog.Catalog, taxRate float64) (domain.Breakdown, error) {
	sel = sel.Normalized()

	city, ok := cat.City(sel.City)
	if !ok {
		return domain.Breakdown{}, domain.ErrMissingCitySelection
	}
	cuisine, ok := cat.Cuisine(sel.Cuisine)
	if !ok {
		return domain.Breakdown{}, fmt.Errorf("%w: cuisine index %d", domain.ErrInvalidSelection, sel.Cuisine)
	}
	hotel, ok := cat.Hotel(sel.Hotel)
	if !ok {
		return domain.Breakdown{}, fmt.Errorf("%w: hotel index %d", domain.ErrInvalidSelection, sel.Hotel)
	}
	travel, ok := cat.TravelClass(sel.TravelClass)
	if !ok {
		return domain.Breakdown{}, fmt.Errorf("%w: travel class index %d", domain.ErrInvalidSelection, sel.TravelClass)
	}

	days := int64(sel.Days)
	travelers := int64(sel.Travelers)
	rooms := int64(sel.Rooms)

	b := domain.Breakdown{
		City:               city.Name,
		Destinations:       make([]string, 0, len(sel.Attractions)),
		Cuisine:            cuisine.Name,
		CuisineCostPerMeal: cuisine.UnitCost,
		Hotel:              hotel.Name,
		HotelCostPerNight:  hotel.UnitCost,
		TravelClass:        travel.Name,
		Rooms:              sel.Rooms,
		Travelers:          sel.Travelers,
		Days:               sel.Days,
	}

	var c costs
	for _, idx := range sel.Attractions {
		if idx < 0 || idx >= len(city.Attractions) {
			continue
		}
		a := city.Attractions[idx]
		b.DestCost = c.add(b.DestCost, c.mul(a.UnitCost, days))
		b.Destinations = append(b.Destinations, a.Name)
	}

	b.FoodCost = c.mul(c.mul(c.mul(cuisine.UnitCost, domain.MealsPerDay), days), travelers)
	b.HotelCost = c.mul(c.mul(hotel.UnitCost, days), rooms)
	b.TravelCost = c.mul(travel.UnitCost, travelers)

	b.Subtotal = c.add(c.add(b.DestCost, b.FoodCost), c.add(b.HotelCost, b.TravelCost))
	if tax := math.Round(float64(b.Subtotal) * taxRate); tax < math.MaxInt64 {
		b.Tax = int64(tax)
	} else {
		c.overflow = true
	}
	b.GrandTotal = c.add(b.Subtotal, b.Tax)
	if c.overflow {
		return domain.Breakdown{}, fmt.Errorf("%w: trip cost exceeds the representable range", domain.ErrInvalidSelection)
	}

	return b, nil
}

// Tax rounds subtotal × rate to the nearest unit, halves away from zero.
func Tax(subtotal int64, rate float64) int64 {
	return int64(math.Round(float64(subtotal) * rate))
}

// costs accumulates non-negative amounts and remembers whether any step overflowed.
type costs struct {
	overflow bool
}

func (c *costs) mul(a, b int64) int64 {
	if a != 0 && b > math.MaxInt64/a {
		c.overflow = true
		return 0
	}
	return a * b
}

func (c *costs) add(a, b int64) int64 {
	if a > math.MaxInt64-b {
		c.overflow = true
		return 0
	}
	return a + b
}
