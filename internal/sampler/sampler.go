package sampler

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/centroids"
	"github.com/hupe1980/vecclust/internal/partition"
	"github.com/hupe1980/vecclust/vectorsource"
)

// Type selects an initial centroid strategy.
type Type int

const (
	TypeUniform Type = iota
	TypeKMeansPlusPlus
)

func (t Type) String() string {
	switch t {
	case TypeUniform:
		return "uniform"
	case TypeKMeansPlusPlus:
		return "kmeans++"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Env is the restart state a sampler seeds.
type Env[T distance.Float] struct {
	Source      vectorsource.Source[T]
	Centroids   *centroids.Centroids[T]
	Workers     []*partition.Worker[T]
	Rand        *rand.Rand
	Concurrency int
}

// Selection is the outcome of seeding.
type Selection struct {
	// IDs are the k pairwise distinct seed entities; IDs[i] seeded centroid i.
	IDs []int
	// Primed reports that the workers already hold the assignment and partial
	// sums of the first round, computed against the seeds.
	Primed bool
}

// Sampler seeds the centroids of one restart.
type Sampler[T distance.Float] interface {
	Select(ctx context.Context, env *Env[T]) (Selection, error)
}

// New returns the sampler of type t.
func New[T distance.Float](t Type) (Sampler[T], error) {
	switch t {
	case TypeUniform:
		return Uniform[T]{}, nil
	case TypeKMeansPlusPlus:
		return PlusPlus[T]{}, nil
	default:
		return nil, fmt.Errorf("unsupported sampler: %v", t)
	}
}
