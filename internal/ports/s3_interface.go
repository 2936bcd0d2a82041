package ports

import (
	"context"
	"io"
	"time"
)

// S3Storage : для S3
type S3Storage interface {
	UploadObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
