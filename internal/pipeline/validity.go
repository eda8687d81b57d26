package pipeline

import (
	"errors"

	"github.com/MikeBiancalana/datefield/internal/adapter"
)

var (
	ErrEmpty  = errors.New("no date entered")
	ErrParse  = errors.New("invalid date")
	ErrFilter = errors.New("date not allowed")
	ErrMin    = errors.New("date before minimum")
	ErrMax    = errors.New("date after maximum")

	// ErrNotTypeable means no parse pattern reads a date back unchanged
	ErrNotTypeable = errors.New("date cannot be typed in any parse pattern")
)

// BoundError describes a value outside a min or max bound
type BoundError[D any] struct {
	Bound  D
	Actual D
}

// Validity holds the individual validation signals for a field. At most one
// of ParseError and the value checks can be set: the filter and bounds are
// only evaluated when text parsed into a value.
type Validity[D any] struct {
	// Empty is set when there is no text and no value
	Empty       bool
	ParseError  bool
	FilterError bool
	MinError    *BoundError[D]
	MaxError    *BoundError[D]
}

// Valid reports whether a value is present and passes every check
func (v Validity[D]) Valid() bool {
	return !v.Empty && !v.ParseError && !v.FilterError && v.MinError == nil && v.MaxError == nil
}

// Err returns the first failing signal as an error, or nil
func (v Validity[D]) Err() error {
	switch {
	case v.Empty:
		return ErrEmpty
	case v.ParseError:
		return ErrParse
	case v.FilterError:
		return ErrFilter
	case v.MinError != nil:
		return ErrMin
	case v.MaxError != nil:
		return ErrMax
	}
	return nil
}

func validate[D any](a adapter.DateAdapter[D], rawText string, value *D, filter func(D) bool, min, max *D) Validity[D] {
	var v Validity[D]
	if value == nil {
		if rawText == "" {
			v.Empty = true
		} else {
			v.ParseError = true
		}
		return v
	}

	if filter != nil && !filter(*value) {
		v.FilterError = true
	}
	if min != nil && a.CompareDate(*value, *min) < 0 {
		v.MinError = &BoundError[D]{Bound: *min, Actual: *value}
	}
	if max != nil && a.CompareDate(*value, *max) > 0 {
		v.MaxError = &BoundError[D]{Bound: *max, Actual: *value}
	}
	return v
}
