// Package vectorsource provides read-only access to the per-entity vectors
// clustered by vecclust.
//
// Entities are identified by dense ids in [0, Len()). All vectors of one source
// share an element type (float32 or float64); the clustering engine validates
// that they also share a dimension.
//
// Implementations:
//   - Dense: a slice of vectors held in memory
//   - Flat: a single flattened slice with a fixed stride
//   - File: a memory-mapped vector file written by WriteFile
package vectorsource
