package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderWidth returns the word-wrap width for stdout. Reports wrap to the
// terminal, clamped so tables stay readable on very wide screens;
// non-terminal output (pipes, CI) gets a fixed width.
func RenderWidth() int {
	const fallback = 100
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	if w > 120 {
		return 120
	}
	return w
}

// NewRenderer returns a function that renders markdown using glamour,
// auto-detecting light/dark background and wrapping to the terminal.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(RenderWidth()),
	)
	if err != nil {
		// Glamour could not probe the environment; fall through to plain
		// markdown.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
