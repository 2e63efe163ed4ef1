package domain

// Breakdown is the itemized cost of one trip configuration.
// Amounts are in minor units of the primary currency.
type Breakdown struct {
	City         string   `json:"city"`
	Destinations []string `json:"destinations"`
	DestCost     int64    `json:"dest_cost"`

	Cuisine            string `json:"cuisine"`
	CuisineCostPerMeal int64  `json:"cuisine_cost_per_meal"`
	FoodCost           int64  `json:"food_cost"`

	Hotel             string `json:"hotel"`
	HotelCostPerNight int64  `json:"hotel_cost_per_night"`
	HotelCost         int64  `json:"hotel_cost"`

	TravelClass string `json:"travel_class"`
	TravelCost  int64  `json:"travel_cost"`

	Rooms     int `json:"rooms"`
	Travelers int `json:"travelers"`
	Days      int `json:"days"`

	Subtotal   int64 `json:"subtotal"`
	Tax        int64 `json:"tax"`
	GrandTotal int64 `json:"grand_total"`
}

// Clone returns a deep copy.
func (b *Breakdown) Clone() *Breakdown {
	if b == nil {
		return nil
	}
	out := *b
	out.Destinations = make([]string, len(b.Destinations))
	copy(out.Destinations, b.Destinations)
	return &out
}
