package domain_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGrid(t *testing.T) {
	g := domain.NewDefaultGrid(domain.DefaultSize, domain.DefaultColor)

	assert.Len(t, g, 400)
	for i := 0; i < 400; i++ {
		assert.Equal(t, "#1a1a2e", g[i], "cell %d", i)
	}
}

func TestEncodeGrid_NumericOrderAndIndent(t *testing.T) {
	g := domain.NewDefaultGrid(12, "#000")
	g[10] = "#fff"

	data, err := domain.EncodeGrid(g)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n  \"0\": \"#000\",\n  \"1\": \"#000\","), text)
	assert.Less(t, strings.Index(text, `"9"`), strings.Index(text, `"10"`), "keys must follow numeric order")
	assert.Contains(t, text, `"10": "#fff"`)
	assert.True(t, strings.HasSuffix(text, "\n}"))
}

func TestEncodeGrid_Nil(t *testing.T) {
	data, err := domain.EncodeGrid(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestDecodeGrid_RoundTrip(t *testing.T) {
	g := domain.NewDefaultGrid(400, domain.DefaultColor)
	g[5] = "#ff0000"
	g[399] = "rgb(1, 2, 3)"

	data, err := domain.EncodeGrid(g)
	require.NoError(t, err)

	back, err := domain.DecodeGrid(data)
	require.NoError(t, err)
	assert.Equal(t, g, back)
}

func TestDecodeGrid_PreservesMissingEntries(t *testing.T) {
	back, err := domain.DecodeGrid([]byte(`{"0": "#111", "2": "#222"}`))
	require.NoError(t, err)

	assert.Equal(t, domain.Grid{0: "#111", 2: "#222"}, back)
}

func TestDecodeGrid_CanonicalKeyWins(t *testing.T) {
	back, err := domain.DecodeGrid([]byte(`{"05": "#shadow", "5": "#real", "007": "#seven"}`))
	require.NoError(t, err)

	assert.Equal(t, "#real", back[5])
	assert.Equal(t, "#seven", back[7])
	assert.Len(t, back, 2)
}

func TestDecodeGrid_Corrupt(t *testing.T) {
	cases := map[string]string{
		"garbage":         "not json at all",
		"empty":           "",
		"truncated":       `{"0": "#111",`,
		"array":           `["#111"]`,
		"null":            `null`,
		"non-integer key": `{"abc": "#111"}`,
		"number value":    `{"0": 5}`,
		"nested value":    `{"0": {"color": "#111"}}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := domain.DecodeGrid([]byte(doc))
			assert.ErrorIs(t, err, domain.ErrCorruptGrid)
		})
	}
}

func TestGrid_CheckBounds(t *testing.T) {
	assert.NoError(t, domain.NewDefaultGrid(4, "#000").CheckBounds(4))
	assert.ErrorIs(t, domain.Grid{4: "#000"}.CheckBounds(4), domain.ErrCorruptGrid)
	assert.ErrorIs(t, domain.Grid{-1: "#000"}.CheckBounds(4), domain.ErrCorruptGrid)
}

func TestGrid_Clone(t *testing.T) {
	g := domain.NewDefaultGrid(3, "#000")
	c := g.Clone()
	c[1] = "#fff"

	assert.Equal(t, "#000", g[1])
	assert.Nil(t, domain.Grid(nil).Clone())
}

func TestGrid_IDs(t *testing.T) {
	g := domain.Grid{}
	for _, id := range []int{10, 2, 33, 0} {
		g[id] = strconv.Itoa(id)
	}
	assert.Equal(t, []int{0, 2, 10, 33}, g.IDs())
}

func TestColumns(t *testing.T) {
	assert.Equal(t, 20, domain.Columns(400))
	assert.Equal(t, 16, domain.Columns(256))
	assert.Equal(t, 3, domain.Columns(10))
	assert.Equal(t, 1, domain.Columns(1))
	assert.Equal(t, 0, domain.Columns(0))
}

func TestHistogram(t *testing.T) {
	g := domain.Grid{0: "#000", 1: "#fff", 2: "#000", 3: "#abc"}

	assert.Equal(t, []domain.ColorCount{
		{Color: "#000", Cells: 2},
		{Color: "#abc", Cells: 1},
		{Color: "#fff", Cells: 1},
	}, g.Histogram())
}
