package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// GridRenderer draws a wall in the terminal. Each cell takes two character columns.
type GridRenderer struct {
	Profile      termenv.Profile
	Size         int
	DefaultColor string
	// Width is the terminal width in characters. It sets the row length when Size
	// is not a perfect square. Zero means unknown.
	Width int
}

// NewGridRenderer returns a renderer using the color profile detected for stdout.
func NewGridRenderer(size int, defaultColor string) *GridRenderer {
	return &GridRenderer{
		Profile:      termenv.ColorProfile(),
		Size:         size,
		DefaultColor: defaultColor,
		Width:        TerminalWidth(os.Stdout),
	}
}

// Columns returns the number of cells drawn per row: the square root of Size when
// Size is a perfect square, otherwise as many cells as fit in Width.
func (r *GridRenderer) Columns() int {
	cols := domain.Columns(r.Size)
	if cols*cols == r.Size || r.Width < 2 {
		return cols
	}
	fit := r.Width / 2
	if fit > r.Size {
		fit = r.Size
	}
	return fit
}

// Render returns the wall as text. Cells missing from g are drawn in the default color.
// Without color support, painted cells are drawn as "##" and default cells as "..".
func (r *GridRenderer) Render(g domain.Grid) string {
	cols := r.Columns()
	if cols == 0 {
		return ""
	}

	var b strings.Builder
	for id := 0; id < r.Size; id++ {
		color, ok := g[id]
		if !ok {
			color = r.DefaultColor
		}
		b.WriteString(r.cell(color))
		if (id+1)%cols == 0 || id == r.Size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (r *GridRenderer) cell(color string) string {
	if r.Profile == termenv.Ascii {
		if color == r.DefaultColor {
			return ".."
		}
		return "##"
	}
	c := r.Profile.Color(color)
	if c == nil {
		return "??"
	}
	return termenv.String("  ").Background(c).String()
}

// StatsMarkdown summarizes a wall as a markdown document: cell counts and a color table.
func StatsMarkdown(g domain.Grid, size int, defaultColor string) string {
	painted := 0
	for _, color := range g {
		if color != defaultColor {
			painted++
		}
	}

	var b strings.Builder
	b.WriteString("# Pixel Wall\n\n")
	fmt.Fprintf(&b, "- **Cells:** %d (%d columns)\n", size, domain.Columns(size))
	fmt.Fprintf(&b, "- **Stored:** %d\n", len(g))
	fmt.Fprintf(&b, "- **Painted:** %d\n", painted)
	fmt.Fprintf(&b, "- **Default color:** `%s`\n\n", defaultColor)

	b.WriteString("| Color | Cells |\n")
	b.WriteString("|-------|------:|\n")
	for _, cc := range g.Histogram() {
		fmt.Fprintf(&b, "| `%s` | %d |\n", cc.Color, cc.Cells)
	}
	return b.String()
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of the terminal attached to f, or 0 when unknown.
func TerminalWidth(f *os.File) int {
	if !IsTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
