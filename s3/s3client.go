package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const defaultRegion = "us-east-1"

type Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

func NewClient(opts Options) (*minio.Client, error) {
	minioClient, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creando el cliente S3")
	}
	return minioClient, nil
}

// EnsureBucket crea el bucket si no existe
func EnsureBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrap(err, "error verificando el bucket")
	}
	if exists {
		return nil
	}
	err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: defaultRegion})
	if err != nil {
		return errors.Wrap(err, "error creando el bucket")
	}
	return nil
}
