package videometa

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

// BlobStore defines the interface for storage backends
type BlobStore interface {
	// List returns every object whose key starts with prefix, sorted by key
	List(ctx context.Context, prefix string) ([]*ObjectMeta, error)

	// Upload uploads content directly, replacing any existing object
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)

	// GetPublicURL returns the publicly addressable location of an object
	GetPublicURL(ctx context.Context, objectKey string) (string, error)
}

// URLStrategy resolves the video_url written into records. When a Generator
// has none, the store's GetPublicURL is used.
type URLStrategy interface {
	VideoURL(ctx context.Context, objectKey string) (string, error)
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
	// Overwrite false makes the upload fail with ErrObjectExists when the key is taken.
	Overwrite bool
}

// EscapeKey percent-encodes each segment of a storage key, keeping the
// separators, so it can be appended to a base URL.
func EscapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
