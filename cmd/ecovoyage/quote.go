package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/ecovoyage/internal/presentation/tui"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/input"
	"github.com/aretw0/ecovoyage/pkg/view"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a trip without starting a session",
	Example: `  ecovoyage quote --city Paris --attractions 0,2 --hotel 1 --travelers 2 --days 3
  ecovoyage quote --city Kerala --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rt, err := newRuntime(cmd, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		raw := map[string]any{}
		for _, name := range []string{"city", "attractions", "cuisine", "hotel", "travel-class", "rooms", "travelers", "days"} {
			v, _ := cmd.Flags().GetString(name)
			raw[flagKey(name)] = v
		}
		sel, err := input.DecodeSelections(raw, rt.Planner.Catalog())
		if err != nil {
			return err
		}

		b, err := rt.Planner.Quote(cmd.Context(), sel)
		if err != nil {
			if domain.IsUserError(err) {
				return fmt.Errorf("%s (%w)", domain.UserMessage(err), err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Selections domain.Selections `json:"selections"`
				Breakdown  domain.Breakdown  `json:"breakdown"`
				Total      string            `json:"total"`
			}{sel.Normalized(), b, rt.Planner.Formatter().Format(b.GrandTotal)})
		}

		// A quote reads like the login preview of a trip that was just priced.
		trip := domain.NewTrip("quote")
		trip.Screen = domain.ScreenLogin
		trip.Breakdown = &b
		page, err := rt.Planner.Page(trip)
		if err != nil {
			return err
		}
		text, err := tui.RendererFor(os.Stdout)(view.SummaryMarkdown("Trip Estimate", page.Login.Preview))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	},
}

func flagKey(name string) string {
	if name == "travel-class" {
		return "travel_class"
	}
	return name
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().String("city", "", "Destination city name")
	quoteCmd.Flags().String("attractions", "", "Comma-separated attraction indexes within the city")
	quoteCmd.Flags().String("cuisine", "0", "Cuisine index")
	quoteCmd.Flags().String("hotel", "0", "Hotel index")
	quoteCmd.Flags().String("travel-class", "0", "Travel class index")
	quoteCmd.Flags().String("rooms", "1", "Number of rooms")
	quoteCmd.Flags().String("travelers", "1", "Number of travelers")
	quoteCmd.Flags().String("days", "1", "Number of days")
	quoteCmd.Flags().Bool("json", false, "Print the breakdown as JSON")
}
