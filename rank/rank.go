// Package rank holds the ordered catalog of piece kinds.
// A Table is immutable once built and can be shared freely between goroutines.
package rank

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a rank does not index into the table.
var ErrOutOfRange = errors.New("rank out of range")

// Rank is the ordinal of a piece kind. Higher ranks are larger pieces.
type Rank int

// Descriptor describes one piece kind.
type Descriptor struct {
	Rank   Rank
	Name   string
	Radius float64
	Scale  float64
	// Asset is an opaque reference handed to the presentation layer.
	Asset string
	// Points awarded when a merge produces a piece of this rank.
	Points int
}

// Table is the ordered list of descriptors, indexed by rank.
type Table struct {
	descs []Descriptor
}

// NewTable validates descs and builds a table from them.
// Ranks must be dense and start at zero, and radii must strictly increase.
func NewTable(descs []Descriptor) (*Table, error) {
	if len(descs) == 0 {
		return nil, errors.New("rank table is empty")
	}

	for i, d := range descs {
		if d.Rank != Rank(i) {
			return nil, fmt.Errorf("descriptor %d has rank %d", i, d.Rank)
		}
		if d.Radius <= 0 {
			return nil, fmt.Errorf("rank %d: radius must be positive, got %v", i, d.Radius)
		}
		if d.Scale <= 0 {
			return nil, fmt.Errorf("rank %d: scale must be positive, got %v", i, d.Scale)
		}
		if i > 0 && d.Radius <= descs[i-1].Radius {
			return nil, fmt.Errorf("rank %d: radius %v not larger than rank %d radius %v",
				i, d.Radius, i-1, descs[i-1].Radius)
		}
	}

	t := &Table{descs: make([]Descriptor, len(descs))}
	copy(t.descs, descs)
	return t, nil
}

// Describe returns the descriptor for r.
func (t *Table) Describe(r Rank) (Descriptor, error) {
	if r < 0 || int(r) >= len(t.descs) {
		return Descriptor{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, r, len(t.descs))
	}
	return t.descs[r], nil
}

// MustDescribe is like Describe but panics on an invalid rank.
func (t *Table) MustDescribe(r Rank) Descriptor {
	d, err := t.Describe(r)
	if err != nil {
		panic(err)
	}
	return d
}

// Highest returns the terminal rank. Pieces of this rank never merge.
func (t *Table) Highest() Rank {
	return Rank(len(t.descs) - 1)
}

func (t *Table) Count() int {
	return len(t.descs)
}

// Descriptors returns a copy of all descriptors in rank order.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, len(t.descs))
	copy(out, t.descs)
	return out
}
