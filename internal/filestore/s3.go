package filestore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store reads project files from an S3-compatible bucket.
type S3Store struct {
	client     *minio.Client
	bucketName string

	checkOnce sync.Once
	checkErr  error
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{client: client, bucketName: bucket}, nil
}

// ensureBucket fails fast when the configured bucket is missing. Uploads
// create the bucket; a reader never does.
func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.checkOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.checkErr = err
			return
		}
		if !exists {
			s.checkErr = fmt.Errorf("bucket %s does not exist", s.bucketName)
		}
	})
	return s.checkErr
}

// Read accepts either s3://bucket/key or a bare key in the configured bucket.
func (s *S3Store) Read(ctx context.Context, location string) (string, error) {
	bucket, key, err := s.resolve(location)
	if err != nil {
		return "", err
	}
	if bucket == s.bucketName {
		if err := s.ensureBucket(ctx); err != nil {
			return "", fmt.Errorf("ensure bucket: %w", err)
		}
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, MaxFileSize+1))
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(data) > MaxFileSize {
		return "", ErrTooLarge
	}
	return string(data), nil
}

func (s *S3Store) resolve(location string) (bucket, key string, err error) {
	location = strings.TrimSpace(location)
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, key, ok = strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return "", "", ErrInvalidPath
		}
		return bucket, key, nil
	}
	key = strings.TrimLeft(location, "/")
	if key == "" {
		return "", "", ErrInvalidPath
	}
	return s.bucketName, key, nil
}
