/*
Package ecovoyage estimates travel costs and walks a traveller through a
three-screen booking flow: Planner, Login and Confirmation.

The pricing rules are deterministic. Given a destination city, a set of
attractions, a cuisine tier, a hotel tier, a travel class and three counts
(rooms, travelers, days), the planner produces an itemized Breakdown with tax
and a grand total.

# Architecture

The package is a thin facade over hexagonal layers:

  - pkg/catalog: the ordered, read-only price list.
  - pkg/pricing: the pure cost engine.
  - internal/flow: the screen state machine.
  - pkg/session: per-session serialization over a ports.TripStore
    (in memory by default, Redis for replicated deployments).
  - pkg/view: what each screen shows.

Adapters expose the same planner over HTTP (pkg/adapters/http), MCP
(pkg/adapters/mcp) and an interactive terminal (cmd/ecovoyage).

# Usage

	p, err := ecovoyage.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	trip, _ := p.Start(ctx, "")

	trip, err = p.SubmitPlan(ctx, trip.SessionID, domain.Selections{
		City:        "Paris",
		Attractions: []int{0, 1},
		Cuisine:     1,
		Rooms:       1,
		Travelers:   2,
		Days:        2,
	})
	if err != nil {
		fmt.Println(domain.UserMessage(err))
	}
	fmt.Println(trip.Breakdown.GrandTotal) // 65730
*/
package ecovoyage
