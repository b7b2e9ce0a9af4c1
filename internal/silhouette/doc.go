// Package silhouette scores a finished clustering.
//
// For an entity i of cluster A with |A| > 1:
//
//	a(i) = mean distance from i to the other members of A
//	b(i) = min over non-empty clusters B != A of the mean distance from i to B
//	s(i) = (b(i) - a(i)) / max(a(i), b(i))
//
// s(i) is 0 for singleton clusters, when no other non-empty cluster exists,
// and when a(i) and b(i) are both 0. The work is O(n²·d) and spread over a
// bounded goroutine pool.
package silhouette
