package aws

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/storage/s3/v2"
	"github.com/stylehaus/closet/pkg/config"
)

// S3 wraps the object store holding original, processed and generated
// images. It also derives the public URL for a stored key and recovers
// the key from a URL it previously issued.
type S3 struct {
	bucket     *s3.Storage
	endpoint   string
	bucketName string
	region     string
}

func NewS3Bucket(cfg *config.AppConfig) *S3 {
	bucket := s3.New(s3.Config{
		Endpoint: cfg.AWSEndpoint,
		Bucket:   cfg.AWSBucket,
		Region:   cfg.AWSDefaultRegion,
		Credentials: s3.Credentials{
			AccessKey:       cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return &S3{
		bucket:     bucket,
		endpoint:   cfg.AWSEndpoint,
		bucketName: cfg.AWSBucket,
		region:     cfg.AWSDefaultRegion,
	}
}

func (s *S3) Upload(key string, data []byte) error {
	return s.bucket.Set(key, data, time.Hour*100)
}

func (s *S3) Download(key string) ([]byte, error) {
	return s.bucket.Get(key)
}

func (s *S3) Delete(key string) error {
	return s.bucket.Delete(key)
}

// PublicURL returns the browser-reachable URL for a stored key.
// MinIO-style endpoints are addressed as endpoint/bucket/key, plain AWS
// as the virtual-hosted bucket URL.
func (s *S3) PublicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucketName, key)
	}

	if s.region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
	}

	return key
}

// KeyFromURL is the inverse of PublicURL for URLs this service issued.
func (s *S3) KeyFromURL(url string) string {
	if s.endpoint != "" {
		prefix := fmt.Sprintf("%s/%s/", s.endpoint, s.bucketName)
		return strings.TrimPrefix(url, prefix)
	}

	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucketName, s.region)
	return strings.TrimPrefix(url, prefix)
}
