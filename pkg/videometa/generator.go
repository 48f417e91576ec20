package videometa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
)

// Generator ties inventory, synthesis and publication to one blob store.
type Generator struct {
	store       BlobStore
	backendName string
	urls        URLStrategy
	logger      *slog.Logger
}

// Option represents a functional option for configuring the generator
type Option func(*Generator)

// WithBlobStore sets the storage backend and the name used in error reports
func WithBlobStore(name string, store BlobStore) Option {
	return func(g *Generator) {
		g.backendName = name
		g.store = store
	}
}

// WithURLStrategy sets how video URLs are resolved
func WithURLStrategy(s URLStrategy) Option {
	return func(g *Generator) {
		g.urls = s
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a new generator instance with the given options
func New(options ...Option) (*Generator, error) {
	g := &Generator{}
	for _, option := range options {
		option(g)
	}

	if g.store == nil {
		return nil, ErrNoBlobStore
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g, nil
}

// Logger returns the generator's logger.
func (g *Generator) Logger() *slog.Logger {
	return g.logger
}

// ListVideos lists the container and returns every classified video. Keys
// under metadata/ and files without a video extension are skipped.
func (g *Generator) ListVideos(ctx context.Context) ([]*VideoEntry, error) {
	g.logger.Debug("scanning for videos", "backend", g.backendName)

	objects, err := g.store.List(ctx, "")
	if err != nil {
		g.logger.Error("failed to list videos", "backend", g.backendName, "err", err)
		return nil, g.storageError("list", "", err)
	}

	videos := make([]*VideoEntry, 0, len(objects))
	for _, obj := range objects {
		if IsMetadataKey(obj.Key) || !IsVideo(obj.Key) {
			continue
		}

		category, cleanName := Classify(obj.Key)
		videos = append(videos, &VideoEntry{
			Path:      obj.Key,
			FileName:  path.Base(obj.Key),
			CleanName: cleanName,
			Category:  category,
			SizeBytes: obj.Size,
			URL:       g.videoURL(ctx, obj.Key),
		})
	}

	g.logger.Info("found video files", "count", len(videos))
	return videos, nil
}

// FindVideo lists the container and returns the video whose storage path
// or file name equals id.
func (g *Generator) FindVideo(ctx context.Context, id string) (*VideoEntry, error) {
	videos, err := g.ListVideos(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		if v.Path == id || v.FileName == id {
			return v, nil
		}
	}
	return nil, &NotFoundError{Video: id}
}

// ExistingMetadata returns the clean names that already have a document
// under metadata/.
func (g *Generator) ExistingMetadata(ctx context.Context) (map[string]struct{}, error) {
	objects, err := g.store.List(ctx, MetadataPrefix)
	if err != nil {
		return nil, g.storageError("list", MetadataPrefix, err)
	}

	existing := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		existing[fileStem(obj.Key)] = struct{}{}
	}
	return existing, nil
}

// Publish writes rec to metadata/<cleanName>.json, replacing any existing document.
func (g *Generator) Publish(ctx context.Context, rec *Record, cleanName string) error {
	key := MetadataKey(cleanName)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata %s: %w", key, err)
	}

	err = g.store.UploadWithParams(ctx, bytes.NewReader(data), UploadParams{
		ObjectKey: key,
		MimeType:  "application/json",
		Overwrite: true,
	})
	if err != nil {
		g.logger.Error("failed to upload metadata", "key", key, "err", err)
		return g.storageError("upload", key, err)
	}

	g.logger.Info("created metadata", "key", key)
	return nil
}

// Generate builds and publishes the record of one inventoried video.
func (g *Generator) Generate(ctx context.Context, entry *VideoEntry, overrides Overrides) (*Record, error) {
	rec, err := BuildRecord(entry, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata for %s: %w", entry.Path, err)
	}
	if err := g.Publish(ctx, rec, entry.CleanName); err != nil {
		return nil, err
	}
	return rec, nil
}

// GenerateForVideo generates metadata for the single video identified by
// its storage path or file name. Nothing is written when no video matches.
func (g *Generator) GenerateForVideo(ctx context.Context, id string, overrides Overrides) (*Record, error) {
	entry, err := g.FindVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	g.logger.Info("generating metadata", "video", entry.FileName)
	return g.Generate(ctx, entry, overrides)
}

// LoadRecord reads back the published document of cleanName.
func (g *Generator) LoadRecord(ctx context.Context, cleanName string) (*Record, error) {
	key := MetadataKey(cleanName)

	reader, err := g.store.Download(ctx, key)
	if err != nil {
		return nil, g.storageError("download", key, err)
	}
	defer reader.Close()

	var rec Record
	if err := json.NewDecoder(reader).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode metadata %s: %w", key, err)
	}
	return &rec, nil
}

func (g *Generator) videoURL(ctx context.Context, key string) string {
	var (
		u   string
		err error
	)
	if g.urls != nil {
		u, err = g.urls.VideoURL(ctx, key)
	} else {
		u, err = g.store.GetPublicURL(ctx, key)
	}
	if err != nil {
		g.logger.Warn("failed to resolve video URL", "key", key, "err", err)
		return ""
	}
	return u
}

func (g *Generator) storageError(op, key string, err error) error {
	return &StorageError{
		Backend: g.backendName,
		Key:     key,
		Op:      op,
		Err:     err,
	}
}
