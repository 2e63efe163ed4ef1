package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/ecovoyage"
	"github.com/aretw0/ecovoyage/internal/presentation/tui"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/input"
	"github.com/aretw0/ecovoyage/pkg/view"
)

// Interactive drives one planning session from a terminal.
type Interactive struct {
	Planner   *ecovoyage.Planner
	In        io.Reader
	Out       io.Writer
	Render    tui.RenderFunc
	SessionID string
}

// Run walks the Planner, Login and Confirmation screens until the user
// declines another trip, input ends, or ctx is cancelled.
// End of input and cancellation are not errors.
func (s *Interactive) Run(ctx context.Context) error {
	render := s.Render
	if render == nil {
		render = tui.Plain
	}
	lines := newLineReader(s.In)

	trip, err := s.Planner.Start(ctx, s.SessionID)
	if err != nil {
		return err
	}
	sessionID := trip.SessionID

	for {
		page, err := s.Planner.Page(trip)
		if err != nil {
			return err
		}
		out, err := render(view.Markdown(page))
		if err != nil {
			return fmt.Errorf("failed to render page: %w", err)
		}
		fmt.Fprintln(s.Out, out)

		var next *domain.Trip
		switch trip.Screen {
		case domain.ScreenPlanner:
			raw, perr := s.askPlan(ctx, lines, page.Planner)
			if perr != nil {
				return interrupted(perr)
			}
			sel, derr := input.DecodeSelections(raw, s.Planner.Catalog())
			if derr != nil {
				return derr
			}
			next, err = s.Planner.SubmitPlan(ctx, sessionID, sel)
		case domain.ScreenLogin:
			raw, perr := s.askContact(ctx, lines)
			if perr != nil {
				return interrupted(perr)
			}
			contact, derr := input.DecodeContact(raw)
			if derr != nil {
				s.alert(derr.Error())
				continue
			}
			next, err = s.Planner.SubmitContact(ctx, sessionID, contact)
		case domain.ScreenConfirmation:
			answer, perr := s.ask(ctx, lines, "Plan another trip? [y/N]", "n")
			if perr != nil {
				return interrupted(perr)
			}
			if !strings.HasPrefix(strings.ToLower(answer), "y") {
				return nil
			}
			next, err = s.Planner.Restart(ctx, sessionID)
		default:
			return fmt.Errorf("unknown screen %q", trip.Screen)
		}

		if err != nil {
			if !domain.IsUserError(err) {
				return err
			}
			s.alert(domain.UserMessage(err))
			if next == nil {
				if next, err = s.Planner.Current(ctx, sessionID); err != nil {
					return err
				}
			}
		}
		trip = next
	}
}

func (s *Interactive) askPlan(ctx context.Context, lines *lineReader, p *view.PlannerView) (map[string]any, error) {
	raw := map[string]any{}

	city, err := s.ask(ctx, lines, "City (name or number)", p.Form.City)
	if err != nil {
		return nil, err
	}
	if n, convErr := strconv.Atoi(city); convErr == nil {
		raw["city_index"] = n - 1
	} else {
		raw["city"] = city
	}

	fields := []struct {
		key, label, def string
	}{
		{"attractions", "Attractions (comma-separated numbers)", joinInts(p.Form.Attractions)},
		{"cuisine", "Cuisine", strconv.Itoa(p.Form.Cuisine)},
		{"hotel", "Hotel", strconv.Itoa(p.Form.Hotel)},
		{"travel_class", "Travel class", strconv.Itoa(p.Form.TravelClass)},
		{"rooms", "Rooms", strconv.Itoa(p.Form.Rooms)},
		{"travelers", "Travelers", strconv.Itoa(p.Form.Travelers)},
		{"days", "Days", strconv.Itoa(p.Form.Days)},
	}
	for _, f := range fields {
		v, err := s.ask(ctx, lines, f.label, f.def)
		if err != nil {
			return nil, err
		}
		raw[f.key] = v
	}
	return raw, nil
}

func (s *Interactive) askContact(ctx context.Context, lines *lineReader) (map[string]any, error) {
	raw := map[string]any{}
	for _, f := range []struct{ key, label string }{
		{"name", "Name"},
		{"phone", "Phone"},
		{"email", "Email"},
	} {
		v, err := s.ask(ctx, lines, f.label, "")
		if err != nil {
			return nil, err
		}
		raw[f.key] = v
	}
	return raw, nil
}

// ask prompts for one value. A blank answer takes def.
func (s *Interactive) ask(ctx context.Context, lines *lineReader, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(s.Out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(s.Out, "%s: ", label)
	}
	line, err := lines.Next(ctx)
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (s *Interactive) alert(msg string) {
	fmt.Fprintf(s.Out, "\n! %s\n\n", msg)
}

func interrupted(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
