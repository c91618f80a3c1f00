package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the explorer banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  ___          _                    `, "#38bdf8"},
		{` | __|_ ___ __| |___ _ _ ___ _ _    `, "#60a5fa"},
		{` | _|\ \ / '_ \ / _ \ '_/ -_) '_|   `, "#818cf8"},
		{` |___/_\_\ .__/_\___/_| \___|_|     `, "#a78bfa"},
		{`         |_|                        `, "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  AI Subject Explorer "+version).Faint())
	fmt.Fprintln(w)
}
