package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL prefixes object keys in returned URLs. Defaults to the
	// endpoint plus bucket.
	PublicURL string
}

// S3Uploader uploads to any S3-compatible store through minio-go.
type S3Uploader struct {
	cfg    S3Config
	client *minio.Client
	now    func() time.Time
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if cfg.PublicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		cfg.PublicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}
	cfg.PublicURL = strings.TrimSuffix(cfg.PublicURL, "/")
	return &S3Uploader{cfg: cfg, client: cl, now: time.Now}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *S3Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *S3Uploader) Upload(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		key := objectKey(f.Name, s.now())
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, f.Body, f.Size,
			minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		urls = append(urls, s.cfg.PublicURL+"/"+key)
	}
	return urls, nil
}
