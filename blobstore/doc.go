// Package blobstore provides storage backends for catalog snapshots.
//
// BlobStore is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral catalogs
//   - LocalStore: local filesystem with atomic renames and a cross-process
//     writer lock
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with multipart streaming uploads
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (io.ReadCloser, error)     // Open for reading
//	    Create(ctx, name) (WritableBlob, error)    // Create for streaming writes
//	    Put(ctx, name, data) error                 // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
