// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("catalogs/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	err = cat.Save(ctx, store, "people.snap")
//
// # Features
//
//   - Multipart streaming uploads through the SDK upload manager
//   - CRC32C integrity checksums on uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
