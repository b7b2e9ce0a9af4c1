// Package testutil provides testing utilities for vecclust.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random generator for vectors, a labelled blob
// generator for clustering tests, and a purity score to compare a
// clustering against ground truth labels.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(1000, 16)   // uniform [0, 1)
//	blobs, labels := rng.Blobs(4, 250, 16, 0.5, 10)
//
// # Quality
//
//	purity := testutil.Purity(res.Assignments, labels)
package testutil
