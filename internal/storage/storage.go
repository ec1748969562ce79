package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Buckets used by the service.
const (
	BucketTaskImages        = "task-images"
	BucketEmployeeDocuments = "employee-documents"
	BucketBiodataDocuments  = "biodata-documents"
)

const MaxUploadSize = int64(10 * 1024 * 1024)

type Object struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload is a file received from a client, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, bucket, key string) error
	URL(bucket, key string) string
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey builds "<owner>/<yyyy>/<mm>/<uuid>-<clean name>".
func ObjectKey(owner, filename string, now time.Time) string {
	name := unsafeChars.ReplaceAllString(path.Base(strings.TrimSpace(filename)), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	if len(name) > 80 {
		name = name[len(name)-80:]
	}
	return fmt.Sprintf("%s/%04d/%02d/%s-%s", owner, now.Year(), int(now.Month()), uuid.NewString(), name)
}
