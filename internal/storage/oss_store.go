package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"
)

type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	// PublicBaseURL overrides the default https://<bucket>.<endpoint> form.
	PublicBaseURL string
	// BucketPrefix is prepended to the logical bucket names.
	BucketPrefix string
}

type ossStore struct {
	client  *oss.Client
	cfg     OSSConfig
	mu      sync.Mutex
	buckets map[string]*oss.Bucket
	logger  *zap.Logger
}

func NewOSSStore(cfg OSSConfig, logger ...*zap.Logger) (ObjectStore, error) {
	l := zap.L().Named("storage.oss")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.oss")
	}

	client, err := oss.New(normalizeEndpoint(cfg.Endpoint), cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("init oss client: %w", err)
	}
	return &ossStore{
		client:  client,
		cfg:     cfg,
		buckets: make(map[string]*oss.Bucket),
		logger:  l,
	}, nil
}

func (s *ossStore) bucket(name string) (*oss.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[name]; ok {
		return b, nil
	}
	b, err := s.client.Bucket(s.cfg.BucketPrefix + name)
	if err != nil {
		return nil, err
	}
	s.buckets[name] = b
	return b, nil
}

func (s *ossStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (Object, error) {
	b, err := s.bucket(bucket)
	if err != nil {
		return Object{}, err
	}

	opts := []oss.Option{oss.WithContext(ctx)}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := b.PutObject(key, body, opts...); err != nil {
		s.logger.Error("put object failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return Object{}, err
	}

	s.logger.Debug("object stored", zap.String("bucket", bucket), zap.String("key", key), zap.Int64("size", size))
	return Object{
		Bucket:      bucket,
		Key:         key,
		URL:         s.URL(bucket, key),
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (s *ossStore) Delete(ctx context.Context, bucket, key string) error {
	b, err := s.bucket(bucket)
	if err != nil {
		return err
	}
	return b.DeleteObject(key, oss.WithContext(ctx))
}

func (s *ossStore) URL(bucket, key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + bucket + "/" + key
	}
	host := strings.TrimPrefix(strings.TrimPrefix(normalizeEndpoint(s.cfg.Endpoint), "https://"), "http://")
	return fmt.Sprintf("https://%s%s.%s/%s", s.cfg.BucketPrefix, bucket, host, key)
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" {
		return ep
	}
	if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
		ep = "https://" + ep
	}
	return strings.TrimRight(ep, "/")
}
