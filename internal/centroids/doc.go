// Package centroids holds the k cluster centres of a k-means run.
//
// Centroids are updated with an explicit two-phase protocol:
//
//	c.BeginRound()
//	for each worker, cluster: c.Accumulate(cluster, sum, count)
//	c.Normalize()
//
// A centroid is zeroed lazily on its first nonzero contribution of a round, so
// a cluster that receives no members keeps its previous vector.
package centroids
