package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for pixelwall.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"        _          _                 _ _ ", "#818cf8"},
		{"  _ __ (_)_  _____| |_      ____ _ | | |", "#a78bfa"},
		{" | '_ \\| \\ \\/ / _ \\ \\ \\ /\\ / / _` || | |", "#c084fc"},
		{" | |_) | |>  <  __/ |\\ V  V / (_| || | |", "#e879f9"},
		{" | .__/|_/_/\\_\\___|_| \\_/\\_/ \\__,_||_|_|", "#f472b6"},
		{" |_|", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
