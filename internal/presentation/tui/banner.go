package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the scenesmith wordmark with a teal-to-violet ramp.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(`  ___                      ___                 _    `).Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String(` / __| __ ___ _ _  ___    / __|_ __ (_) |_| |_ `).Foreground(p.Color("#38bdf8"))
	s3 := termenv.String(` \__ \/ _/ -_) ' \/ -_)   \__ \ '  \| |  _| ' \ `).Foreground(p.Color("#818cf8"))
	s4 := termenv.String(` |___/\__\___|_||_\___|   |___/_|_|_|_|\__|_||_|`).Foreground(p.Color("#c084fc"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println()
}
