package commands

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/vecclust/codec"
	"github.com/hupe1980/vecclust/model"
	"github.com/hupe1980/vecclust/modelstore"
	miniostore "github.com/hupe1980/vecclust/modelstore/minio"
	s3store "github.com/hupe1980/vecclust/modelstore/s3"
	"github.com/hupe1980/vecclust/resource"
)

var errNoStore = errors.New("no model store configured, use --store-type")

// openRegistry builds the model registry of the configured store.
func openRegistry(ctx context.Context, cfg StoreConfig, rc *resource.Controller) (*modelstore.Registry, error) {
	compression, err := model.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", cfg.Codec)
	}

	var (
		store   modelstore.Store
		pointer modelstore.Pointer
	)
	switch cfg.Type {
	case "local":
		store = modelstore.NewLocalStore(cfg.Local.Dir)
	case "minio":
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		store = miniostore.NewStore(client, cfg.MinIO.Bucket, cfg.MinIO.Prefix)
	case "s3":
		var optFns []func(*awsconfig.LoadOptions) error
		if cfg.S3.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(cfg.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		store = s3store.NewStore(awss3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Prefix)
		if cfg.S3.DynamoDBTable != "" {
			baseURI := fmt.Sprintf("s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
			pointer = s3store.NewDDBPointer(dynamodb.NewFromConfig(awsCfg), cfg.S3.DynamoDBTable, baseURI)
		}
	default:
		return nil, errNoStore
	}

	return modelstore.NewRegistry(store, func(o *modelstore.Options) {
		o.Pointer = pointer
		o.Compression = compression
		o.Codec = c
		o.ResourceController = rc
	}), nil
}
