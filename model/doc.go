// Package model holds trained k-means models.
//
// A Model is the read-only outcome of a clustering run: the final centroids,
// their member counts and the run's metadata. It assigns new vectors to the
// nearest centroid and ranks centroids by distance.
//
// # Encoding
//
// Marshal and Encode write a self-describing binary format:
//
//	magic "VCLM" | version u16 | compression u8 | codec name
//	metadata (codec encoded) | centroid block | CRC32C
//
// The centroid block holds k, the dimension, the counts and the centroids as
// little-endian float64 and is optionally compressed with LZ4 or ZSTD.
package model
