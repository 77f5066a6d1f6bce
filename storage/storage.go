package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore abstracts the blob store holding uploaded images.
type ObjectStore interface {
	// Upload stores the image bytes under a generated key and returns the key.
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	// PresignedURL mints a time-limited GET URL for the given key, so the
	// inference provider can fetch the image without credentials.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	// ObjectURL returns the permanent URL for the given key.
	ObjectURL(key string) string
}
