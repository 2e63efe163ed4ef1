// Package view derives what each screen displays from a Trip.
//
// Rendering is pure: the same trip, catalog and formatter always produce the
// same Page. Exactly one of Page.Planner, Page.Login and Page.Confirmation is
// set, matching Page.Screen.
package view

import (
	"fmt"
	"strings"

	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
)

// NoDestinations is shown when no attraction was selected.
const NoDestinations = "None"

// Page is the displayable content of the active screen.
type Page struct {
	SessionID    string            `json:"session_id,omitempty"`
	Screen       domain.Screen     `json:"screen"`
	Planner      *PlannerView      `json:"planner,omitempty"`
	Login        *LoginView        `json:"login,omitempty"`
	Confirmation *ConfirmationView `json:"confirmation,omitempty"`
}

// Choice is one entry of a selectable list.
type Choice struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Cost  int64  `json:"cost"`
	Label string `json:"label"`
}

// CityChoice is a city with its attractions.
type CityChoice struct {
	Name        string   `json:"name"`
	Image       string   `json:"image,omitempty"`
	Attractions []Choice `json:"attractions"`
}

// PlannerView is the selection form.
type PlannerView struct {
	Form          domain.Selections `json:"form"`
	Cities        []CityChoice      `json:"cities"`
	Cuisines      []Choice          `json:"cuisines"`
	Hotels        []Choice          `json:"hotels"`
	TravelClasses []Choice          `json:"travel_classes"`
}

// Line is one labelled amount of a cost breakdown.
type Line struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
	Text   string `json:"text"`
}

// Summary describes a calculated trip.
type Summary struct {
	City         string `json:"city"`
	Destinations string `json:"destinations"`
	Days         int    `json:"days"`
	Travelers    int    `json:"travelers"`
	Rooms        int    `json:"rooms"`
	Lines        []Line `json:"lines"`
	Total        Line   `json:"total"`
}

// LoginView previews the plan while asking for contact details.
type LoginView struct {
	Preview Summary `json:"preview"`
}

// ConfirmationView is the final summary.
type ConfirmationView struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Summary Summary `json:"summary"`
}

// Render builds the page for trip's active screen.
func Render(trip *domain.Trip, cat *catalog.Catalog, f Formatter) (Page, error) {
	if trip == nil {
		return Page{}, fmt.Errorf("%w: no trip", domain.ErrSessionNotFound)
	}
	page := Page{SessionID: trip.SessionID, Screen: trip.Screen}

	switch trip.Screen {
	case domain.ScreenPlanner:
		page.Planner = renderPlanner(trip, cat, f)
	case domain.ScreenLogin:
		if trip.Breakdown == nil {
			return Page{}, domain.ErrNoTripCalculated
		}
		page.Login = &LoginView{Preview: summarize(trip, f)}
	case domain.ScreenConfirmation:
		if trip.Breakdown == nil || trip.Contact == nil {
			return Page{}, domain.ErrNoTripCalculated
		}
		page.Confirmation = &ConfirmationView{
			Name:    trip.Contact.Name,
			Phone:   trip.Contact.Phone,
			Email:   trip.Contact.Email,
			Summary: summarize(trip, f),
		}
	default:
		return Page{}, fmt.Errorf("unknown screen %q", trip.Screen)
	}
	return page, nil
}

func renderPlanner(trip *domain.Trip, cat *catalog.Catalog, f Formatter) *PlannerView {
	form := domain.DefaultSelections()
	if trip.Selections != nil {
		form = trip.Selections.Normalized()
	}

	v := &PlannerView{
		Form:          form,
		Cities:        make([]CityChoice, 0, len(cat.Cities)),
		Cuisines:      choices(cat.Cuisines, f),
		Hotels:        choices(cat.Hotels, f),
		TravelClasses: choices(cat.TravelClasses, f),
	}
	for _, c := range cat.Cities {
		v.Cities = append(v.Cities, CityChoice{
			Name:        c.Name,
			Image:       c.Image,
			Attractions: attractionChoices(c.Attractions, f),
		})
	}
	return v
}

func choices(opts []domain.CostOption, f Formatter) []Choice {
	out := make([]Choice, 0, len(opts))
	for i, o := range opts {
		out = append(out, Choice{
			Index: i,
			Name:  o.Name,
			Cost:  o.UnitCost,
			Label: fmt.Sprintf("%s (%s)", o.Name, f.Format(o.UnitCost)),
		})
	}
	return out
}

func attractionChoices(attractions []domain.Attraction, f Formatter) []Choice {
	opts := make([]domain.CostOption, len(attractions))
	for i, a := range attractions {
		opts[i] = domain.CostOption(a)
	}
	return choices(opts, f)
}

func summarize(trip *domain.Trip, f Formatter) Summary {
	b := trip.Breakdown
	dest := NoDestinations
	if len(b.Destinations) > 0 {
		dest = strings.Join(b.Destinations, ", ")
	}
	line := func(label string, amount int64) Line {
		return Line{Label: label, Amount: amount, Text: f.Format(amount)}
	}
	return Summary{
		City:         b.City,
		Destinations: dest,
		Days:         b.Days,
		Travelers:    b.Travelers,
		Rooms:        b.Rooms,
		Lines: []Line{
			line("Destinations", b.DestCost),
			line("Food", b.FoodCost),
			line("Hotel", b.HotelCost),
			line("Travel", b.TravelCost),
			line("Tax", b.Tax),
		},
		Total: line("Grand Total", b.GrandTotal),
	}
}
