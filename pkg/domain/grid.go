package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Grid maps a cell identifier to its color.
//
// A freshly created Grid holds exactly one entry per cell. Grids read back from a
// store are returned as persisted, so entries may be missing if the document was
// edited by hand.
type Grid map[int]string

// NewDefaultGrid returns a grid of size cells, all set to color.
func NewDefaultGrid(size int, color string) Grid {
	g := make(Grid, size)
	for i := 0; i < size; i++ {
		g[i] = color
	}
	return g
}

// Columns returns the row width used to draw a wall of size cells: the integer
// square root of size. A 400-cell wall is drawn 20 cells wide.
func Columns(size int) int {
	if size <= 0 {
		return 0
	}
	c := int(math.Sqrt(float64(size)))
	for (c+1)*(c+1) <= size {
		c++
	}
	for c*c > size {
		c--
	}
	return c
}

// ColorCount is the number of cells sharing one color.
type ColorCount struct {
	Color string
	Cells int
}

// Histogram counts cells per color, most used first, ties broken by color.
func (g Grid) Histogram() []ColorCount {
	counts := make(map[string]int)
	for _, color := range g {
		counts[color]++
	}
	out := make([]ColorCount, 0, len(counts))
	for color, n := range counts {
		out = append(out, ColorCount{Color: color, Cells: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cells != out[j].Cells {
			return out[i].Cells > out[j].Cells
		}
		return out[i].Color < out[j].Color
	})
	return out
}

// Clone returns a copy of the grid that shares no memory with g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	c := make(Grid, len(g))
	for k, v := range g {
		c[k] = v
	}
	return c
}

// IDs returns the cell identifiers present in the grid in ascending order.
func (g Grid) IDs() []int {
	ids := make([]int, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CheckBounds returns an error wrapping ErrCorruptGrid if any key lies outside [0, size).
func (g Grid) CheckBounds(size int) error {
	for id := range g {
		if id < 0 || id >= size {
			return fmt.Errorf("%w: cell %d outside [0, %d)", ErrCorruptGrid, id, size)
		}
	}
	return nil
}

// MarshalJSON encodes the grid as an object keyed by decimal cell identifiers,
// in ascending numeric order.
func (g Grid) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range g.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')
		val, err := json.Marshal(g[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of decimal keys to string colors.
// Any other shape is reported as ErrCorruptGrid. Non-canonical keys such as "05"
// map to the same cell as "5"; the canonical spelling wins when both are present.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptGrid, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: document is not an object", ErrCorruptGrid)
	}

	out := make(Grid, len(raw))
	canonical := make(map[int]bool, len(raw))
	for key, val := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("%w: key %q is not an integer", ErrCorruptGrid, key)
		}
		color, ok := val.(string)
		if !ok {
			return fmt.Errorf("%w: value for key %q is not a string", ErrCorruptGrid, key)
		}
		isCanonical := key == strconv.Itoa(id)
		if canonical[id] && !isCanonical {
			continue
		}
		out[id] = color
		if isCanonical {
			canonical[id] = true
		}
	}

	*g = out
	return nil
}

// EncodeGrid renders the grid in its persisted form: a JSON object indented with
// two spaces.
func EncodeGrid(g Grid) ([]byte, error) {
	if g == nil {
		g = Grid{}
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grid: %w", err)
	}
	return data, nil
}

// DecodeGrid parses a persisted document. Errors wrap ErrCorruptGrid.
func DecodeGrid(data []byte) (Grid, error) {
	var g Grid
	if err := g.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return g, nil
}
