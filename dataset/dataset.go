// Package dataset holds (x, y) observations and reads them from CSV files, optionally
// compressed.
package dataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/ll5fit/internal/hash"
)

var (
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("dataset: x and y lengths differ")
	// ErrEmpty is returned for a dataset without points.
	ErrEmpty = errors.New("dataset: no points")
	// ErrNonFinite is returned when a value is NaN or infinite.
	ErrNonFinite = errors.New("dataset: non-finite value")
	// ErrMalformed is returned for CSV input that cannot be read as (x, y) pairs.
	ErrMalformed = errors.New("dataset: malformed input")
)

// Dataset is an ordered series of (x, y) observations.
type Dataset struct {
	// Name identifies the source, typically a file path. It may be empty.
	Name string
	X    []float64
	Y    []float64
}

// New validates x and y and wraps them in a Dataset. The slices are not copied.
func New(x, y []float64) (*Dataset, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, ErrEmpty
	}
	for i := range x {
		if !isFinite(x[i]) || !isFinite(y[i]) {
			return nil, fmt.Errorf("%w: point %d is (%g, %g)", ErrNonFinite, i, x[i], y[i])
		}
	}

	return &Dataset{X: x, Y: y}, nil
}

// Len returns the number of points.
func (d *Dataset) Len() int {
	return len(d.X)
}

// Fingerprint returns the xxHash64 of the points.
func (d *Dataset) Fingerprint() uint64 {
	return hash.Points(d.X, d.Y)
}

// String returns a short description of the dataset.
func (d *Dataset) String() string {
	name := d.Name
	if name == "" {
		name = "<memory>"
	}

	return fmt.Sprintf("Dataset{Name: %s, Points: %d, Fingerprint: %s}", name, d.Len(), hash.String(d.Fingerprint()))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
