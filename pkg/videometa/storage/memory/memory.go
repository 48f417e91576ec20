package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
)

// Backend is an in-memory implementation of the videometa.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string]*object
	baseURL string
}

type object struct {
	data      []byte
	mimeType  string
	updatedAt time.Time
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string]*object),
		baseURL: "memory://",
	}
}

// List returns the objects whose key starts with prefix, sorted by key
func (b *Backend) List(ctx context.Context, prefix string) ([]*videometa.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	metas := make([]*videometa.ObjectMeta, 0, len(b.objects))
	for key, obj := range b.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		metas = append(metas, obj.meta(key))
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Key < metas[j].Key })
	return metas, nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*videometa.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, videometa.ErrObjectNotFound
	}
	return obj.meta(objectKey), nil
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, videometa.UploadParams{
		ObjectKey: objectKey,
		MimeType:  "application/octet-stream",
		Overwrite: true,
	})
}

// UploadWithParams uploads content with parameters
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params videometa.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[params.ObjectKey]; exists && !params.Overwrite {
		return videometa.ErrObjectExists
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	b.objects[params.ObjectKey] = &object{
		data:      data,
		mimeType:  mimeType,
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, videometa.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// GetPublicURL returns a memory:// URL for the object
func (b *Backend) GetPublicURL(ctx context.Context, objectKey string) (string, error) {
	return b.baseURL + videometa.EscapeKey(objectKey), nil
}

func (o *object) meta(key string) *videometa.ObjectMeta {
	return &videometa.ObjectMeta{
		Key:         key,
		Size:        int64(len(o.data)),
		ContentType: o.mimeType,
		UpdatedAt:   o.updatedAt,
	}
}
