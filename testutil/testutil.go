package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		vectors[i] = vec
	}

	return vectors
}

// Blobs generates k Gaussian blobs of perCluster vectors each and returns
// the vectors with their blob labels. Blob centers lie on the coordinate
// axes at distance separation from the origin, so blobs are well separated
// whenever separation is large compared to spread. Vectors are interleaved
// (label i%k) so id order carries no cluster structure.
func (r *RNG) Blobs(k, perCluster, dim int, spread, separation float64) ([][]float64, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([][]float64, k)
	for c := range centers {
		centers[c] = make([]float64, dim)
		// axes are reused with the opposite sign once exhausted
		sign := 1.0
		if (c/dim)%2 == 1 {
			sign = -1
		}
		centers[c][c%dim] = sign * separation * float64(c/(2*dim)+1)
	}

	num := k * perCluster
	data := make([]float64, num*dim)
	vectors := make([][]float64, num)
	labels := make([]int, num)

	for i := range num {
		label := i % k
		vec := data[i*dim : (i+1)*dim]
		for j := range vec {
			vec[j] = centers[label][j] + r.rand.NormFloat64()*spread
		}
		vectors[i] = vec
		labels[i] = label
	}

	return vectors, labels
}

// ToFloat32 converts vectors to float32.
func ToFloat32(vectors [][]float64) [][]float32 {
	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = make([]float32, len(v))
		for j, x := range v {
			out[i][j] = float32(x)
		}
	}
	return out
}

// Purity returns the fraction of entities whose cluster's majority label is
// their own label. 1 means every cluster contains a single label.
func Purity(assignments []int32, labels []int) float64 {
	if len(assignments) == 0 {
		return 1
	}

	counts := make(map[int32]map[int]int)
	for i, c := range assignments {
		if counts[c] == nil {
			counts[c] = make(map[int]int)
		}
		counts[c][labels[i]]++
	}

	var majority int
	for _, byLabel := range counts {
		best := 0
		for _, n := range byLabel {
			best = max(best, n)
		}
		majority += best
	}
	return float64(majority) / float64(len(assignments))
}
