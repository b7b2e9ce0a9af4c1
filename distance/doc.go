// Package distance provides Euclidean vector distance calculations for
// float32 and float64 vectors.
//
// # Usage
//
//	d2 := distance.SquaredL2(a, b)
//	d := distance.L2(a, b)
package distance
