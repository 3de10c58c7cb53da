package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the setlist banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"           _   _ _     _   ", "#818cf8"},
		{"  ___  ___| |_| (_)___| |_ ", "#a78bfa"},
		{" / __|/ _ \\ __| | / __| __|", "#c084fc"},
		{" \\__ \\  __/ |_| | \\__ \\ |_ ", "#e879f9"},
		{" |___/\\___|\\__|_|_|___/\\__|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  "+version).Faint())
	fmt.Fprintln(w)
}
