package distance

import (
	"fmt"

	"github.com/hupe1980/vecclust/internal/vecmath"
)

// Float is the numeric vector element constraint accepted by the clustering engine.
type Float = vecmath.Float

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2[T Float](a, b []T) T {
	return vecmath.SquaredL2(a, b)
}

// L2 calculates the Euclidean distance between two vectors.
func L2[T Float](a, b []T) T {
	return vecmath.Sqrt(vecmath.SquaredL2(a, b))
}

// Metric represents the distance metric used for vector comparison.
// Only Euclidean distance is supported.
type Metric int

const (
	MetricL2 Metric = iota
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func[T Float] func(a, b []T) T

// Provider returns the distance function for the given metric.
func Provider[T Float](m Metric) (Func[T], error) {
	switch m {
	case MetricL2:
		return L2[T], nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
