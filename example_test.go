package ecovoyage_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/ecovoyage"
	"github.com/aretw0/ecovoyage/pkg/domain"
)

// ExamplePlanner_Quote prices a trip without opening a session.
func ExamplePlanner_Quote() {
	p, err := ecovoyage.New()
	if err != nil {
		log.Fatal(err)
	}

	b, err := p.Quote(context.Background(), domain.Selections{
		City:        "Paris",
		Attractions: []int{0, 1},
		Cuisine:     1,
		Rooms:       1,
		Travelers:   2,
		Days:        2,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(b.Subtotal, b.Tax, b.GrandTotal)
	fmt.Println(p.Formatter().Format(b.GrandTotal))
	// Output:
	// 62600 3130 65730
	// Rs65730 (≈ $788.76)
}

// ExamplePlanner_SubmitPlan walks a session through all three screens.
func ExamplePlanner_SubmitPlan() {
	p, err := ecovoyage.New()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	trip, _ := p.Start(ctx, "demo")
	fmt.Println(trip.Screen)

	_, err = p.SubmitPlan(ctx, "demo", domain.Selections{})
	if errors.Is(err, domain.ErrMissingCitySelection) {
		fmt.Println(domain.UserMessage(err))
	}

	trip, _ = p.SubmitPlan(ctx, "demo", domain.Selections{City: "Kerala", Attractions: []int{0}})
	fmt.Println(trip.Screen, trip.Breakdown.GrandTotal)

	trip, _ = p.SubmitContact(ctx, "demo", domain.Contact{Name: "Asha", Phone: "98450", Email: "asha@example.com"})
	fmt.Println(trip.Screen)

	trip, _ = p.Restart(ctx, "demo")
	fmt.Println(trip.Screen, trip.HasBreakdown())
	// Output:
	// planner
	// Please select a city.
	// login 33128
	// confirmation
	// planner false
}
