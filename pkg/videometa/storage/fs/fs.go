package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
	"github.com/spf13/afero"
)

// Backend is a filesystem implementation of the videometa.BlobStore interface
type Backend struct {
	mu        sync.RWMutex
	fs        afero.Afero
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string   // Base directory for storing files
	URLPrefix string   // Optional URL prefix for public URLs
	Fs        afero.Fs // Filesystem to use (default: the OS filesystem)
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	fsys := config.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	baseDir, err := filepath.Abs(config.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if err := fsys.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		fs:        afero.Afero{Fs: fsys},
		baseDir:   baseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
	}, nil
}

// List walks the base directory and returns files whose key starts with prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]*videometa.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var metas []*videometa.ObjectMeta
	err := b.fs.Walk(b.baseDir, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(b.baseDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		metas = append(metas, &videometa.ObjectMeta{
			Key:       key,
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", b.baseDir, err)
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Key < metas[j].Key })
	return metas, nil
}

// GetObjectMeta retrieves metadata for an object in the filesystem
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*videometa.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	filePath := b.path(objectKey)

	info, err := b.fs.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, videometa.ErrObjectNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	// Detect content type
	contentType := "application/octet-stream"
	if file, err := b.fs.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &videometa.ObjectMeta{
		Key:         objectKey,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
	}, nil
}

// Upload uploads content directly to the filesystem
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, videometa.UploadParams{
		ObjectKey: objectKey,
		Overwrite: true,
	})
}

// UploadWithParams uploads content with additional parameters. The MIME
// type is not stored; it is detected on read.
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params videometa.UploadParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	filePath := b.path(params.ObjectKey)

	if !params.Overwrite {
		exists, err := b.fs.Exists(filePath)
		if err != nil {
			return fmt.Errorf("failed to check file: %w", err)
		}
		if exists {
			return videometa.ErrObjectExists
		}
	}

	// WriteReader creates missing parent directories
	if err := b.fs.WriteReader(filePath, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Download downloads content directly from the filesystem
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	file, err := b.fs.Open(b.path(objectKey))
	if errors.Is(err, os.ErrNotExist) {
		return nil, videometa.ErrObjectNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// GetPublicURL returns URLPrefix/<key>, or a file:// URL when no prefix is configured
func (b *Backend) GetPublicURL(ctx context.Context, objectKey string) (string, error) {
	if b.urlPrefix != "" {
		return b.urlPrefix + "/" + videometa.EscapeKey(objectKey), nil
	}
	return "file://" + videometa.EscapeKey(filepath.ToSlash(b.path(objectKey))), nil
}

func (b *Backend) path(objectKey string) string {
	return filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
}
