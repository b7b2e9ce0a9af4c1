// Package modelstore persists encoded k-means models.
//
// A Store keeps opaque blobs addressed by name. A Registry layers versioned
// models on top of a Store: every Save writes a new immutable blob
// "<name>/<version>-<token>.vclm" and then advances the model's latest pointer.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem, atomic writes, mmap reads
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with multipart uploads and CRC32C checksums
//
// The latest pointer defaults to a "<name>/LATEST" blob in the same Store.
// s3.DDBPointer keeps it in DynamoDB instead, which makes concurrent Saves
// of the same model safe.
package modelstore
