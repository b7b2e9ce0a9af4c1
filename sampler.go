package vecclust

import (
	"fmt"
	"strings"

	"github.com/hupe1980/vecclust/internal/sampler"
)

// Sampler selects how the initial centroids of a restart are chosen.
type Sampler int

const (
	// SamplerUniform picks k distinct entities uniformly at random.
	SamplerUniform Sampler = iota
	// SamplerKMeansPlusPlus picks each next seed with probability proportional
	// to its squared distance from the nearest seed chosen so far.
	SamplerKMeansPlusPlus
)

func (s Sampler) String() string {
	return s.internal().String()
}

// ParseSampler parses "uniform" or "kmeans++" (also "kmeanspp").
func ParseSampler(s string) (Sampler, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform", "":
		return SamplerUniform, nil
	case "kmeans++", "kmeanspp", "k-means++":
		return SamplerKMeansPlusPlus, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSampler, s)
	}
}

func (s Sampler) internal() sampler.Type {
	switch s {
	case SamplerUniform:
		return sampler.TypeUniform
	case SamplerKMeansPlusPlus:
		return sampler.TypeKMeansPlusPlus
	default:
		// rejected by validation
		return sampler.Type(s)
	}
}
