package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UpdateRequest is a single-cell update as supplied by a client.
// Both fields are untyped because clients may send the identifier as a string or
// a number; nil means the field was absent.
type UpdateRequest struct {
	ID    any `json:"id" mapstructure:"id"`
	Color any `json:"color" mapstructure:"color"`
}

// CellUpdate is an UpdateRequest that passed validation.
type CellUpdate struct {
	ID    int
	Color string
}

// Key returns the canonical decimal form of the cell identifier.
func (u CellUpdate) Key() string {
	return strconv.Itoa(u.ID)
}

// Validate checks req against a grid of the given size and returns the
// normalized update. Failures are returned as *ValidationError.
func (req UpdateRequest) Validate(size int) (CellUpdate, error) {
	if req.ID == nil || req.Color == nil {
		field := FieldID
		if req.ID != nil {
			field = FieldColor
		}
		return CellUpdate{}, &ValidationError{
			Field:  field,
			Reason: "missing 'id' or 'color'",
			Err:    ErrMissingField,
		}
	}

	id, err := ParseCellID(req.ID)
	if err != nil {
		return CellUpdate{}, err
	}
	if err := CheckCell(id, size); err != nil {
		return CellUpdate{}, err
	}

	color, err := NormalizeColor(req.Color)
	if err != nil {
		return CellUpdate{}, err
	}

	return CellUpdate{ID: id, Color: color}, nil
}

// ParseCellID converts a client-supplied identifier to an integer.
// Strings may carry surrounding whitespace and a sign. Numbers must be integral.
func ParseCellID(v any) (int, error) {
	switch id := v.(type) {
	case nil:
		return 0, &ValidationError{Field: FieldID, Reason: "missing 'id' or 'color'", Err: ErrMissingField}
	case string:
		return parseIntString(strings.TrimSpace(id))
	case json.Number:
		if n, err := parseIntString(id.String()); err == nil || errors.Is(err, ErrCellOutOfRange) {
			return n, err
		}
		f, err := id.Float64()
		if err != nil {
			return 0, invalidCellID()
		}
		return fromFloat(f)
	case float64:
		return fromFloat(id)
	case float32:
		return fromFloat(float64(id))
	case int:
		return id, nil
	case int32:
		return int(id), nil
	case int64:
		if id > math.MaxInt || id < math.MinInt {
			return 0, outOfRange()
		}
		return int(id), nil
	case uint:
		if id > math.MaxInt {
			return 0, outOfRange()
		}
		return int(id), nil
	case uint64:
		if id > math.MaxInt {
			return 0, outOfRange()
		}
		return int(id), nil
	default:
		return 0, invalidCellID()
	}
}

// CheckCell rejects identifiers outside [0, size).
func CheckCell(id, size int) error {
	if id < 0 || id >= size {
		return &ValidationError{
			Field:  FieldID,
			Reason: fmt.Sprintf("invalid pixel id: must be in range [0, %d)", size),
			Err:    ErrCellOutOfRange,
		}
	}
	return nil
}

// NormalizeColor returns the trimmed text form of a client-supplied color.
// The value is otherwise opaque: numbers and booleans are stored as their text.
// Objects and arrays have no text form and are rejected.
func NormalizeColor(v any) (string, error) {
	switch c := v.(type) {
	case nil:
		return "", &ValidationError{Field: FieldColor, Reason: "missing 'id' or 'color'", Err: ErrMissingField}
	case string:
		return strings.TrimSpace(c), nil
	case json.Number:
		return strings.TrimSpace(c.String()), nil
	case bool:
		return strconv.FormatBool(c), nil
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(c), nil
	default:
		return "", &ValidationError{Field: FieldColor, Reason: "invalid color: must be a scalar value", Err: ErrInvalidColor}
	}
}

func parseIntString(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, outOfRange()
		}
		return 0, invalidCellID()
	}
	return int(n), nil
}

func fromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalidCellID()
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, outOfRange()
	}
	return int(f), nil
}

func invalidCellID() error {
	return &ValidationError{Field: FieldID, Reason: "invalid pixel id: must be an integer", Err: ErrInvalidCellID}
}

func outOfRange() error {
	return &ValidationError{Field: FieldID, Reason: "invalid pixel id: out of range", Err: ErrCellOutOfRange}
}
