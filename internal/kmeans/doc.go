// Package kmeans implements the parallel k-means engine.
//
// An Engine runs one or more independent restarts. Each restart seeds its
// centroids (uniformly, with k-means++, or from caller supplied vectors) and
// then refines them in rounds: all partition workers assign their entities in
// parallel, the engine joins them, merges their partial sums into the
// centroids and normalizes once. Refinement stops after MaxIterations rounds
// or as soon as the fraction of entities that changed cluster is at most
// DeltaThreshold. The restart with the lowest total distance of entities to
// their centroid wins; ties go to the earliest restart.
package kmeans
