package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL base URL untuk link gambar, default endpoint/bucket
	PublicURL string
}

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	publicURL  string
}

// New buat koneksi MinIO
func New(ctx context.Context, opt Options) (*Store, error) {
	cli, err := minio.New(opt.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opt.AccessKey, opt.SecretKey, ""),
		Secure: opt.UseSSL,
		Region: opt.Region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, opt.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opt.Bucket, minio.MakeBucketOptions{Region: opt.Region}); err != nil {
			return nil, err
		}
		log.Printf("storage=bucket_created bucket=%s", opt.Bucket)
	}

	base := strings.TrimRight(opt.PublicURL, "/")
	if base == "" {
		base = defaultBaseURL(cli.EndpointURL(), opt.Bucket)
	}
	return &Store{client: cli, bucketName: opt.Bucket, region: opt.Region, publicURL: base}, nil
}

// PutImage upload gambar case, return URL publik
func (s *Store) PutImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	// URL publik (jika bucket public), kalau private harus generate presigned URL
	return objectURL(s.publicURL, key), nil
}

// Check health checker untuk dashboard
func (s *Store) Check(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s not found", s.bucketName)
	}
	return nil
}

func defaultBaseURL(endpoint *url.URL, bucket string) string {
	return fmt.Sprintf("%s://%s/%s", endpoint.Scheme, endpoint.Host, bucket)
}

func objectURL(base, key string) string {
	return base + "/" + strings.TrimLeft(key, "/")
}
