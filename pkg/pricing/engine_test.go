package pricing_test

import (
	"math"
	"testing"

	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parisTrip() domain.Selections {
	return domain.Selections{
		City:        "Paris",
		Attractions: []int{0, 1},
		Cuisine:     1, // Street Food
		Hotel:       0, // City Budget Inn
		TravelClass: 0, // Economy
		Rooms:       1,
		Travelers:   2,
		Days:        2,
	}
}

func TestCompute_ParisExample(t *testing.T) {
	b, err := pricing.Compute(parisTrip(), catalog.Default(), pricing.DefaultTaxRate)
	require.NoError(t, err)

	assert.Equal(t, "Paris", b.City)
	assert.Equal(t, []string{"Eiffel Tower", "Louvre Museum"}, b.Destinations)
	assert.Equal(t, int64(4200), b.DestCost)
	assert.Equal(t, int64(2400), b.FoodCost)
	assert.Equal(t, int64(6000), b.HotelCost)
	assert.Equal(t, int64(50000), b.TravelCost)
	assert.Equal(t, int64(62600), b.Subtotal)
	assert.Equal(t, int64(3130), b.Tax)
	assert.Equal(t, int64(65730), b.GrandTotal)

	assert.Equal(t, "Street Food", b.Cuisine)
	assert.Equal(t, int64(200), b.CuisineCostPerMeal)
	assert.Equal(t, "City Budget Inn", b.Hotel)
	assert.Equal(t, int64(3000), b.HotelCostPerNight)
	assert.Equal(t, "Economy", b.TravelClass)
}

func TestCompute_NoAttractions(t *testing.T) {
	sel := parisTrip()
	sel.Attractions = nil

	b, err := pricing.Compute(sel, catalog.Default(), pricing.DefaultTaxRate)
	require.NoError(t, err)
	assert.Zero(t, b.DestCost)
	assert.NotNil(t, b.Destinations)
	assert.Empty(t, b.Destinations)
}

func TestCompute_OutOfRangeAttractionsSkipped(t *testing.T) {
	sel := parisTrip()
	sel.Attractions = []int{-1, 2, 17}

	b, err := pricing.Compute(sel, catalog.Default(), pricing.DefaultTaxRate)
	require.NoError(t, err)
	assert.Equal(t, []string{"Seine River Cruise"}, b.Destinations)
	assert.Equal(t, int64(600*2), b.DestCost)
}

func TestCompute_DuplicateAttractionsCountOnce(t *testing.T) {
	sel := parisTrip()
	sel.Attractions = []int{1, 0, 1}

	b, err := pricing.Compute(sel, catalog.Default(), pricing.DefaultTaxRate)
	require.NoError(t, err)
	assert.Equal(t, []string{"Eiffel Tower", "Louvre Museum"}, b.Destinations)
	assert.Equal(t, int64(4200), b.DestCost)
}

func TestCompute_CountsCoercedToOne(t *testing.T) {
	sel := parisTrip()
	sel.Rooms, sel.Travelers, sel.Days = 0, -4, 0

	b, err := pricing.Compute(sel, catalog.Default(), pricing.DefaultTaxRate)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Rooms)
	assert.Equal(t, 1, b.Travelers)
	assert.Equal(t, 1, b.Days)
	assert.Equal(t, int64(1200+900), b.DestCost)
	assert.Equal(t, int64(200*3), b.FoodCost)
	assert.Equal(t, int64(3000), b.HotelCost)
	assert.Equal(t, int64(25000), b.TravelCost)
}

func TestCompute_UnknownCity(t *testing.T) {
	sel := parisTrip()
	sel.City = "Atlantis"

	_, err := pricing.Compute(sel, catalog.Default(), pricing.DefaultTaxRate)
	assert.ErrorIs(t, err, domain.ErrMissingCitySelection)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestCompute_InvalidOptionIndexes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Selections)
		want   string
	}{
		{"cuisine", func(s *domain.Selections) { s.Cuisine = 3 }, "cuisine index 3"},
		{"hotel", func(s *domain.Selections) { s.Hotel = -1 }, "hotel index -1"},
		{"travel class", func(s *domain.Selections) { s.TravelClass = 2 }, "travel class index 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := parisTrip()
			tt.mutate(&sel)
			_, err := pricing.Compute(sel, catalog.Default(), pricing.DefaultTaxRate)
			require.ErrorIs(t, err, domain.ErrInvalidSelection)
			assert.NotErrorIs(t, err, domain.ErrMissingCitySelection)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompute_TotalsInvariant(t *testing.T) {
	cat := catalog.Default()
	for _, city := range cat.CityNames() {
		for cuisine := range cat.Cuisines {
			for hotel := range cat.Hotels {
				for travel := range cat.TravelClasses {
					sel := domain.Selections{
						City: city, Attractions: []int{0, 1, 2},
						Cuisine: cuisine, Hotel: hotel, TravelClass: travel,
						Rooms: 2, Travelers: 3, Days: 5,
					}
					b, err := pricing.Compute(sel, cat, pricing.DefaultTaxRate)
					require.NoError(t, err)
					assert.Equal(t, b.DestCost+b.FoodCost+b.HotelCost+b.TravelCost, b.Subtotal)
					assert.Equal(t, pricing.Tax(b.Subtotal, 0.05), b.Tax)
					assert.Equal(t, b.Subtotal+b.Tax, b.GrandTotal)
				}
			}
		}
	}
}

func TestCompute_LargeCountsAreCappedAndNonNegative(t *testing.T) {
	cat := catalog.Default()
	for cuisine := range cat.Cuisines {
		for hotel := range cat.Hotels {
			for travel := range cat.TravelClasses {
				sel := domain.Selections{
					City: "Tokyo", Attractions: []int{0, 1, 2},
					Cuisine: cuisine, Hotel: hotel, TravelClass: travel,
					Rooms: math.MaxInt32, Travelers: math.MaxInt32, Days: math.MaxInt32,
				}
				b, err := pricing.Compute(sel, cat, pricing.DefaultTaxRate)
				require.NoError(t, err)
				assert.Equal(t, domain.MaxCount, b.Days)
				assert.Equal(t, domain.MaxCount, b.Travelers)
				assert.Equal(t, domain.MaxCount, b.Rooms)
				for _, v := range []int64{b.DestCost, b.FoodCost, b.HotelCost, b.TravelCost, b.Subtotal, b.Tax, b.GrandTotal} {
					assert.GreaterOrEqual(t, v, int64(0))
				}
				assert.Equal(t, b.Subtotal+b.Tax, b.GrandTotal)
			}
		}
	}
}

func TestCompute_OverflowIsRejected(t *testing.T) {
	cat := &catalog.Catalog{
		Cities: []domain.City{{
			Name:        "Atlantis",
			Attractions: []domain.Attraction{{Name: "Vault", UnitCost: math.MaxInt64 / 2}},
		}},
		Cuisines:      []domain.CostOption{{Name: "Any", UnitCost: 1}},
		Hotels:        []domain.CostOption{{Name: "Any", UnitCost: 1}},
		TravelClasses: []domain.CostOption{{Name: "Any", UnitCost: 1}},
	}
	sel := domain.Selections{City: "Atlantis", Attractions: []int{0}, Rooms: 1, Travelers: 1, Days: 3}

	_, err := pricing.Compute(sel, cat, pricing.DefaultTaxRate)
	require.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, domain.KindInvalidSelection, domain.ErrorKind(err))
}

func TestTax_Rounding(t *testing.T) {
	assert.Equal(t, int64(3130), pricing.Tax(62600, 0.05))
	assert.Equal(t, int64(1), pricing.Tax(10, 0.05), "0.5 rounds up")
	assert.Equal(t, int64(0), pricing.Tax(9, 0.05), "0.45 rounds down")
	assert.Equal(t, int64(2), pricing.Tax(30, 0.05), "1.5 rounds up")
	assert.Equal(t, int64(0), pricing.Tax(0, 0.05))
	assert.Equal(t, int64(0), pricing.Tax(1000, 0))
}
