// Package partition implements the per-range workers of the k-means engine.
//
// A Worker owns a contiguous id range [start, end) and moves through an
// explicit phase machine (see Transition):
//
//	idle           -> seed-distance | assign | final-distance
//	seed-distance  -> seed-distance | assign (FinalizeSeeds)
//	assign         -> assign | final-distance
//
// Workers never write shared centroids. They write only their own slice of
// the shared assignment and distance tables and keep private per-cluster
// partial sums that the engine merges after all workers of a round joined.
package partition
