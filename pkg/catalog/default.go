package catalog

import "github.com/aretw0/ecovoyage/pkg/domain"

// Default returns the built-in catalog. Each call returns a fresh copy.
func Default() *Catalog {
	return &Catalog{
		Cities: []domain.City{
			{Name: "Paris", Image: "images/paris.jpg", Attractions: []domain.Attraction{
				{Name: "Eiffel Tower", UnitCost: 1200},
				{Name: "Louvre Museum", UnitCost: 900},
				{Name: "Seine River Cruise", UnitCost: 600},
			}},
			{Name: "London", Image: "images/london.jpg", Attractions: []domain.Attraction{
				{Name: "British Museum", UnitCost: 600},
				{Name: "London Eye", UnitCost: 700},
			}},
			{Name: "Seoul", Image: "images/seoul.jpg", Attractions: []domain.Attraction{
				{Name: "Gyeongbokgung Palace", UnitCost: 800},
				{Name: "N Seoul Tower", UnitCost: 700},
				{Name: "Myeongdong Shopping Street", UnitCost: 500},
			}},
			{Name: "Tokyo", Image: "images/tokyo.jpg", Attractions: []domain.Attraction{
				{Name: "Tokyo Disneyland", UnitCost: 4000},
				{Name: "Shinjuku Gyoen Garden", UnitCost: 600},
				{Name: "Tokyo Skytree", UnitCost: 1200},
			}},
			{Name: "Hong Kong", Image: "images/hongkong.jpg", Attractions: []domain.Attraction{
				{Name: "Victoria Peak", UnitCost: 700},
				{Name: "Disneyland Hong Kong", UnitCost: 3800},
				{Name: "Star Ferry Ride", UnitCost: 300},
			}},
			{Name: "Kerala", Image: "images/kerala.jpg", Attractions: []domain.Attraction{
				{Name: "Alleppey Houseboat", UnitCost: 2500},
				{Name: "Munnar Tea Gardens", UnitCost: 600},
				{Name: "Athirappilly Waterfalls", UnitCost: 400},
			}},
			{Name: "Mexico", Image: "images/mexico.jpg", Attractions: []domain.Attraction{
				{Name: "Chichen Itza", UnitCost: 1500},
				{Name: "Cancun Beaches", UnitCost: 2000},
				{Name: "Mexico City Historic Center", UnitCost: 800},
			}},
		},
		Cuisines: []domain.CostOption{
			{Name: "Local Specialties", UnitCost: 350},
			{Name: "Street Food", UnitCost: 200},
			{Name: "Fine Dining", UnitCost: 1200},
		},
		Hotels: []domain.CostOption{
			{Name: "City Budget Inn", UnitCost: 3000},
			{Name: "Grand Royale", UnitCost: 12000},
		},
		TravelClasses: []domain.CostOption{
			{Name: "Economy", UnitCost: 25000},
			{Name: "Business", UnitCost: 90000},
		},
	}
}
