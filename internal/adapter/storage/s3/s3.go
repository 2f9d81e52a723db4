// Package s3 publishes objects to an S3-compatible bucket such as Cloudflare R2.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vadimbarashkov/brevly/internal/config"
	"github.com/vadimbarashkov/brevly/internal/entity"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

type Storage struct {
	client putObjectAPI
	bucket string
}

// New builds an S3 client with static credentials. When an endpoint is configured
// it replaces the AWS one and path-style addressing is used, which R2 requires.
func New(ctx context.Context, cfg config.ObjectStorage) (*Storage, error) {
	const op = "adapter.storage.s3.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load aws config: %w", op, err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newStorage(client, cfg.Bucket), nil
}

func newStorage(client putObjectAPI, bucket string) *Storage {
	return &Storage{
		client: client,
		bucket: bucket,
	}
}

func (s *Storage) Put(ctx context.Context, obj entity.Object) error {
	const op = "adapter.storage.s3.Storage.Put"

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		ContentType:   aws.String(obj.ContentType),
		CacheControl:  aws.String(obj.CacheControl),
	})
	if err != nil {
		return fmt.Errorf("%s: failed to put object %q: %w", op, obj.Key, err)
	}

	return nil
}
