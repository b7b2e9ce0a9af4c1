// Package vecclust provides parallel k-means clustering for Go.
//
// Vecclust clusters fixed-dimension float32 or float64 vectors addressed by
// dense ids [0, n). Every round fans the entities out to a fixed set of
// partition workers, joins them and merges their partial sums into the
// centroids single-threaded, so the hot path never takes a lock.
//
// # Quick Start
//
//	src := vectorsource.NewDense(vectors) // [][]float32 or [][]float64
//	res, err := vecclust.Cluster(ctx, src, 8,
//	    vecclust.WithSampler(vecclust.SamplerKMeansPlusPlus),
//	    vecclust.WithRestarts(4),
//	    vecclust.WithRandomSeed(42),
//	)
//	for id, cluster := range res.Assignments {
//	    fmt.Println(id, cluster, res.Distances[id])
//	}
//
// # Seeding
//
// Initial centroids are picked uniformly at random (default) or with weighted
// k-means++. WithSeedCentroids bypasses both and starts from caller supplied
// vectors; seeded runs cannot be combined with restarts.
//
// # Convergence
//
// Refinement stops after WithMaxIterations rounds or as soon as the fraction
// of entities that changed cluster in a round is at most WithDeltaThreshold.
// A cluster that loses all members keeps its previous centroid.
//
// # Restarts
//
// WithRestarts runs independent seedings and keeps the restart with the
// lowest total distance of entities to their centroid. Ties go to the
// earliest restart. Restart i draws from a random stream seeded with
// seed+i, so runs with WithRandomSeed are reproducible.
//
// # Quality
//
// WithSilhouette computes the silhouette coefficient of every entity.
// Scoring is quadratic in the number of entities.
//
// # Models
//
// Result.Model returns a model.Model that assigns new vectors to the trained
// centroids. Models can be encoded with zstd or lz4 and kept in a
// modelstore (memory, local disk, MinIO or S3).
//
// # Cancellation
//
// Cluster honours ctx between restarts, rounds and k-means++ picks. A
// cancelled run returns an error matching ErrCancelled and no result.
package vecclust
