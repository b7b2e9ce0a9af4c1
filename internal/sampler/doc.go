// Package sampler chooses the initial centroids of a k-means restart.
//
// Uniform draws k distinct entities uniformly at random. PlusPlus implements
// k-means++ seeding: each further seed is drawn with probability proportional
// to the squared distance of an entity to its nearest already chosen seed.
package sampler
