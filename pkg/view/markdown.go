package view

import (
	"fmt"
	"strings"
)

// Markdown renders page as a markdown document for terminal display.
func Markdown(page Page) string {
	var b strings.Builder
	switch {
	case page.Planner != nil:
		writePlanner(&b, page.Planner)
	case page.Login != nil:
		b.WriteString("# Trip Summary (Preview)\n\n")
		writeSummary(&b, page.Login.Preview, false)
		b.WriteString("\nEnter your name, phone and email to continue.\n")
	case page.Confirmation != nil:
		c := page.Confirmation
		b.WriteString("# Trip Confirmed\n\n")
		fmt.Fprintf(&b, "- **Name:** %s\n- **Email:** %s\n- **Phone:** %s\n\n", c.Name, c.Email, c.Phone)
		writeSummary(&b, c.Summary, true)
	}
	return b.String()
}

func writePlanner(b *strings.Builder, p *PlannerView) {
	b.WriteString("# Plan Your Trip\n\n## Cities\n\n")
	for i, c := range p.Cities {
		fmt.Fprintf(b, "%d. **%s**\n", i+1, c.Name)
		for _, a := range c.Attractions {
			fmt.Fprintf(b, "   - [%d] %s\n", a.Index, a.Label)
		}
	}
	writeChoices(b, "Cuisine", p.Cuisines)
	writeChoices(b, "Hotel", p.Hotels)
	writeChoices(b, "Travel Class", p.TravelClasses)
}

func writeChoices(b *strings.Builder, title string, cs []Choice) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, c := range cs {
		fmt.Fprintf(b, "- [%d] %s\n", c.Index, c.Label)
	}
}

func writeSummary(b *strings.Builder, s Summary, withRooms bool) {
	fmt.Fprintf(b, "- **City:** %s\n", s.City)
	fmt.Fprintf(b, "- **Destinations:** %s\n", s.Destinations)
	fmt.Fprintf(b, "- **Days:** %d\n", s.Days)
	fmt.Fprintf(b, "- **Travelers:** %d\n", s.Travelers)
	if withRooms {
		fmt.Fprintf(b, "- **Rooms:** %d\n", s.Rooms)
	}
	b.WriteString("\n## Cost Breakdown\n\n| Item | Cost |\n|---|---|\n")
	for _, l := range s.Lines {
		fmt.Fprintf(b, "| %s | %s |\n", l.Label, l.Text)
	}
	fmt.Fprintf(b, "\n**%s: %s**\n", s.Total.Label, s.Total.Text)
}

// SummaryMarkdown renders a titled cost summary on its own.
func SummaryMarkdown(title string, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	writeSummary(&b, s, true)
	return b.String()
}
