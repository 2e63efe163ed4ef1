package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  ___          __   __                         `, "#34d399"},
	{` | __|__ ___  \ \ / /__ _  _ __ _ __ _ ___    `, "#2dd4bf"},
	{` | _|/ _/ _ \  \ V / _ \ || / _' / _' / -_)   `, "#22d3ee"},
	{` |___\__\___/   \_/\___/\_, \__,_\__, \___|   `, "#38bdf8"},
	{`                        |__/     |___/         `, "#60a5fa"},
}

// PrintBanner writes the EcoVoyage banner to w.
// Colors degrade to the profile of w, so piped output stays plain.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
