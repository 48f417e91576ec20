package config_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ganachan/agentic-retrieval/pkg/videometa/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_URL", "BLOB_CONNECTION_STRING", "VIDEOMETA_CONTAINER", "VIDEOMETA_CDN_BASE_URL",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(config.WithEnv())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultContainer, cfg.Container)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "memory", cfg.Storage.Type)
}

func TestEnvStorageURL(t *testing.T) {
	tests := []struct {
		name          string
		storageURL    string
		connString    string
		wantType      string
		wantContainer string
		wantError     bool
	}{
		{"empty defaults to memory", "", "", "memory", "training-videos", false},
		{"memory keyword", "memory", "", "memory", "training-videos", false},
		{"memory URL", "memory://", "", "memory", "training-videos", false},
		{"filesystem URL", "file:///var/videos", "", "fs", "training-videos", false},
		{"S3 URL", "s3://course-bucket?region=eu-west-1", "", "s3", "course-bucket", false},
		{"S3 URL without bucket", "s3://", "", "s3", "training-videos", false},
		{"azure URL", "azure://lectures", "AccountName=acct;AccountKey=a2V5", "azure", "lectures", false},
		{"connection string selects azure", "", "AccountName=acct;AccountKey=a2V5", "azure", "training-videos", false},
		{"azure without connection string", "azure://lectures", "", "", "", true},
		{"empty filesystem path", "file://", "", "", "", true},
		{"invalid URL", "ftp://example.com", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.storageURL != "" {
				t.Setenv("STORAGE_URL", tt.storageURL)
			}
			if tt.connString != "" {
				t.Setenv("BLOB_CONNECTION_STRING", tt.connString)
			}

			cfg, err := config.Load(config.WithEnv())
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cfg.Storage.Type)
			assert.Equal(t, tt.wantContainer, cfg.Container)
		})
	}
}

func TestWithContainerWinsOverStorageURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_URL", "s3://course-bucket")

	cfg, err := config.Load(config.WithEnv(), config.WithContainer("archive"))
	require.NoError(t, err)
	assert.Equal(t, "archive", cfg.Container)

	_, err = config.Load(config.WithContainer(""))
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(config.WithStorageURL("file:///srv/videos"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/videos", cfg.Location())

	cfg, err = config.Load(config.WithStorageURL("s3://course-bucket"))
	require.NoError(t, err)
	assert.Equal(t, "course-bucket", cfg.Location())
}

func TestContainerFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDEOMETA_CONTAINER", "onboarding")

	cfg, err := config.Load(config.WithEnv())
	require.NoError(t, err)
	assert.Equal(t, "onboarding", cfg.Container)
}

func TestWithEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VIDEOMETA_CONTAINER=from-dotenv\nVIDEOMETA_CDN_BASE_URL=https://cdn.example.com/videos\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("VIDEOMETA_CONTAINER")
		os.Unsetenv("VIDEOMETA_CDN_BASE_URL")
	})

	cfg, err := config.Load(config.WithEnvFile(envFile), config.WithEnv())
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Container)
	assert.Equal(t, "https://cdn.example.com/videos", cfg.CDNBaseURL)

	_, err = config.Load(config.WithEnvFile(filepath.Join(dir, "missing.env")))
	assert.NoError(t, err)
}

func TestInvalidCDNBaseURL(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(config.WithCDNBaseURL("not a url"))
	assert.Error(t, err)
}

func TestBuildGenerator(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "beginner"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beginner", "intro.mp4"), []byte(strings.Repeat("x", 16)), 0644))

	t.Run("storage delegated URLs", func(t *testing.T) {
		cfg, err := config.Load(config.WithStorageURL("file://" + dir))
		require.NoError(t, err)

		gen, err := cfg.BuildGenerator(slog.Default())
		require.NoError(t, err)

		videos, err := gen.ListVideos(context.Background())
		require.NoError(t, err)
		require.Len(t, videos, 1)
		assert.Equal(t, "beginner/intro.mp4", videos[0].Path)
		assert.True(t, strings.HasPrefix(videos[0].URL, "file://"))
	})

	t.Run("CDN URLs", func(t *testing.T) {
		cfg, err := config.Load(
			config.WithStorageURL("file://"+dir),
			config.WithCDNBaseURL("https://cdn.example.com/videos"),
		)
		require.NoError(t, err)

		gen, err := cfg.BuildGenerator(slog.Default())
		require.NoError(t, err)

		videos, err := gen.ListVideos(context.Background())
		require.NoError(t, err)
		require.Len(t, videos, 1)
		assert.Equal(t, "https://cdn.example.com/videos/beginner/intro.mp4", videos[0].URL)
	})
}

func TestBuildStoreMemory(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	store, name, err := cfg.BuildStore()
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Equal(t, "memory", name)
}
