package vectorsource

import (
	"fmt"

	"github.com/hupe1980/vecclust/distance"
)

// Source is a read-only, id-addressed collection of vectors.
// Implementations must be safe for concurrent reads.
type Source[T distance.Float] interface {
	// Len returns the number of entities.
	Len() int
	// Vector returns the vector of entity id. Callers must not modify it.
	Vector(id int) []T
}

// Dense is a Source backed by one slice per entity.
type Dense[T distance.Float] struct {
	vectors [][]T
}

// NewDense wraps vectors without copying.
func NewDense[T distance.Float](vectors [][]T) *Dense[T] {
	return &Dense[T]{vectors: vectors}
}

// Len implements Source.
func (d *Dense[T]) Len() int { return len(d.vectors) }

// Vector implements Source.
func (d *Dense[T]) Vector(id int) []T { return d.vectors[id] }

// Flat is a Source backed by a single flattened slice of n*dim values.
type Flat[T distance.Float] struct {
	data []T
	dim  int
}

// NewFlat wraps data as consecutive vectors of dimension dim.
func NewFlat[T distance.Float](data []T, dim int) (*Flat[T], error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vectorsource: invalid dimension %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("vectorsource: data length %d is not a multiple of dimension %d", len(data), dim)
	}
	return &Flat[T]{data: data, dim: dim}, nil
}

// Len implements Source.
func (f *Flat[T]) Len() int { return len(f.data) / f.dim }

// Vector implements Source.
func (f *Flat[T]) Vector(id int) []T {
	off := id * f.dim
	return f.data[off : off+f.dim : off+f.dim]
}

// Dimension returns the stride of the flattened data.
func (f *Flat[T]) Dimension() int { return f.dim }
