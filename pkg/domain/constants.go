package domain

const (
	// DefaultSize is the number of cells in a 20x20 wall.
	DefaultSize = 400

	// DefaultColor is the color every cell starts with.
	DefaultColor = "#1a1a2e"
)

// Field names shared by the JSON and mapstructure representations of an update.
const (
	FieldID    = "id"
	FieldColor = "color"
)
