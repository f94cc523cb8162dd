package configstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// ObjectConfig locates configuration payloads in an S3-compatible bucket
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

func (c ObjectConfig) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("bucket is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.New("access key and secret key must be set together")
	}
	return nil
}

// objectReader is the slice of the object-storage client the store needs
type objectReader interface {
	ReadObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// ObjectStore reads payloads from Bucket under Prefix
type ObjectStore struct {
	client objectReader
	bucket string
	prefix string
}

// NewObjectStore connects to the bucket described by cfg
func NewObjectStore(cfg ObjectConfig) (*ObjectStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid object store config: %w", err)
	}

	creds := credentials.NewEnvAWS()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     creds,
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &ObjectStore{client: &minioReader{client: client}, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *ObjectStore) Read(ctx context.Context, name string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("object store not initialized")
	}

	key := path.Join(strings.Trim(s.prefix, "/"), name)
	obj, err := s.client.ReadObject(ctx, s.bucket, key)
	if err != nil {
		return nil, s.wrap(key, err)
	}
	defer obj.Close()

	// minio defers the request until the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.wrap(key, err)
	}

	logrus.Debugf("read config s3://%s/%s (%d bytes)", s.bucket, key, len(data))
	return data, nil
}

func (s *ObjectStore) wrap(key string, err error) error {
	if errors.Is(err, ErrNotFound) || minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("failed to read config s3://%s/%s: %w", s.bucket, key, ErrNotFound)
	}
	return fmt.Errorf("failed to read config s3://%s/%s: %w", s.bucket, key, err)
}

type minioReader struct {
	client *minio.Client
}

func (r *minioReader) ReadObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return r.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
