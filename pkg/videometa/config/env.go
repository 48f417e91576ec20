package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// WithEnvFile loads variables from a dotenv file into the process
// environment. A missing file is not an error. Variables that are already
// set are left alone.
func WithEnvFile(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
}

// WithEnv applies environment variables.
//
// Storage:
//
//	STORAGE_URL - Storage connection string (one of):
//	              - "memory://" - In-memory storage
//	              - "file:///path/to/videos" - Filesystem storage rooted at the path
//	              - "s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true" - S3 storage
//	              - "azure://container" - Azure Blob Storage
//	              When empty, Azure is used if BLOB_CONNECTION_STRING is set, memory otherwise.
//	BLOB_CONNECTION_STRING - Azure storage account connection string
//	VIDEOMETA_CONTAINER - Container or bucket to scan (default: "training-videos")
//	VIDEOMETA_CDN_BASE_URL - Optional CDN base URL for video_url
//
// S3 credentials: AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY.
func WithEnv() Option {
	return func(c *Config) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// resolveStorage turns StorageURL into the storage backend configuration.
// A container named in an s3:// or azure:// URL replaces the configured one
// unless WithContainer set it explicitly.
func (c *Config) resolveStorage() error {
	raw := strings.TrimSpace(c.StorageURL)

	if raw == "" {
		if c.ConnectionString != "" {
			c.Storage = StorageBackendConfig{Name: "azure", Type: "azure", Config: map[string]interface{}{}}
			return nil
		}
		raw = "memory://"
	}

	if raw == "memory" || raw == "memory://" {
		c.Storage = StorageBackendConfig{Name: "memory", Type: "memory", Config: map[string]interface{}{}}
		return nil
	}

	if path, ok := strings.CutPrefix(raw, "file://"); ok {
		c.Storage = StorageBackendConfig{
			Name:   "fs",
			Type:   "fs",
			Config: map[string]interface{}{"base_dir": path},
		}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "s3":
		q := u.Query()
		c.Storage = StorageBackendConfig{
			Name: "s3",
			Type: "s3",
			Config: map[string]interface{}{
				"region":                     q.Get("region"),
				"endpoint":                   q.Get("endpoint"),
				"use_path_style":             q.Get("path_style"),
				"public_base_url":            q.Get("public_base_url"),
				"create_bucket_if_not_exist": q.Get("create_bucket"),
			},
		}
	case "azure":
		c.Storage = StorageBackendConfig{Name: "azure", Type: "azure", Config: map[string]interface{}{}}
	default:
		return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', 's3://...' or 'azure://...')", raw)
	}

	if u.Host != "" && !c.containerSet {
		c.Container = u.Host
	}
	return nil
}
