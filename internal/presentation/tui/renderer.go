// Package tui renders planner pages for a terminal.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderFunc turns markdown into displayable text.
type RenderFunc func(markdown string) (string, error)

// Plain returns markdown unchanged.
func Plain(markdown string) (string, error) { return markdown, nil }

// NewRenderer returns a glamour renderer that adapts to the terminal background.
// It falls back to Plain when glamour cannot be initialized.
func NewRenderer(width int) RenderFunc {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return Plain
	}
	return r.Render
}

// RendererFor picks a renderer for out: styled on a terminal, plain otherwise.
func RendererFor(out io.Writer) RenderFunc {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return Plain
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 0
	}
	return NewRenderer(width)
}

// IsTerminal reports whether out is an interactive terminal.
func IsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
