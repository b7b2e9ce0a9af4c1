// Package s3 provides Amazon S3 storage for models.
//
// Store implements modelstore.Store on S3. Small blobs are written with a
// single PutObject carrying a CRC32C checksum; larger ones go through the
// multipart uploader.
//
// DDBPointer implements modelstore.Pointer on DynamoDB. Its conditional
// writes make concurrent Saves of the same model from different processes
// safe, which a plain S3 pointer object cannot do.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := s3store.NewStore(s3.NewFromConfig(cfg), "my-bucket", "models/")
//	pointer := s3store.NewDDBPointer(dynamodb.NewFromConfig(cfg), "vecclust-models", "s3://my-bucket/models/")
//	reg := modelstore.NewRegistry(store, func(o *modelstore.Options) {
//	    o.Pointer = pointer
//	})
package s3
