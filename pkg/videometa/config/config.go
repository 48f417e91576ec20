package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
	azurestorage "github.com/ganachan/agentic-retrieval/pkg/videometa/storage/azure"
	fsstorage "github.com/ganachan/agentic-retrieval/pkg/videometa/storage/fs"
	memorystorage "github.com/ganachan/agentic-retrieval/pkg/videometa/storage/memory"
	s3storage "github.com/ganachan/agentic-retrieval/pkg/videometa/storage/s3"
	"github.com/ganachan/agentic-retrieval/pkg/videometa/urlstrategy"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of defaults
// and resolving the storage backend.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.resolveStorage(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Container: DefaultContainer,
		AWSRegion: "us-east-1",
	}
}

// DefaultContainer is the container scanned when none is configured.
const DefaultContainer = "training-videos"

// Config represents configuration for the metadata generator
type Config struct {
	// Storage
	StorageURL       string `env:"STORAGE_URL"`
	ConnectionString string `env:"BLOB_CONNECTION_STRING"`
	Container        string `env:"VIDEOMETA_CONTAINER" env-default:"training-videos" validate:"required"`

	// Video URLs; empty means the storage backend's public URL
	CDNBaseURL string `env:"VIDEOMETA_CDN_BASE_URL" validate:"omitempty,url"`

	// S3
	AWSRegion          string `env:"AWS_REGION" env-default:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	// Storage is resolved from StorageURL by Load
	Storage StorageBackendConfig

	containerSet bool
}

// StorageBackendConfig represents configuration for a storage backend
type StorageBackendConfig struct {
	Name   string
	Type   string `validate:"oneof=memory fs s3 azure"` // "memory", "fs", "s3", "azure"
	Config map[string]interface{}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Storage.Type {
	case "fs":
		if getString(c.Storage.Config, "base_dir", "") == "" {
			return errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
	case "azure":
		if c.ConnectionString == "" {
			return errors.New("BLOB_CONNECTION_STRING is required for azure storage")
		}
	}

	return nil
}

// BuildStore creates the BlobStore described by the configuration. The
// returned name identifies the backend in errors and logs.
func (c *Config) BuildStore() (videometa.BlobStore, string, error) {
	store, err := c.buildStorageBackend(c.Storage)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build storage backend %s: %w", c.Storage.Name, err)
	}
	return store, c.Storage.Name, nil
}

// Location names what is being scanned: the base directory for the
// filesystem backend and the container for every other backend.
func (c *Config) Location() string {
	if c.Storage.Type == "fs" {
		return getString(c.Storage.Config, "base_dir", c.Container)
	}
	return c.Container
}

// BuildURLStrategy picks the CDN strategy when a CDN base URL is configured
// and otherwise delegates to the store.
func (c *Config) BuildURLStrategy(store videometa.BlobStore) (urlstrategy.URLStrategy, error) {
	if c.CDNBaseURL != "" {
		return urlstrategy.NewURLStrategy(urlstrategy.Config{
			Type:       urlstrategy.StrategyTypeCDN,
			CDNBaseURL: c.CDNBaseURL,
		})
	}
	return urlstrategy.NewURLStrategy(urlstrategy.Config{
		Type:  urlstrategy.StrategyTypeStorageDelegated,
		Store: store,
	})
}

// BuildGenerator wires the store, the URL strategy and logger into a Generator.
func (c *Config) BuildGenerator(logger *slog.Logger) (*videometa.Generator, error) {
	store, name, err := c.BuildStore()
	if err != nil {
		return nil, err
	}

	urls, err := c.BuildURLStrategy(store)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL strategy: %w", err)
	}

	return videometa.New(
		videometa.WithBlobStore(name, store),
		videometa.WithURLStrategy(urls),
		videometa.WithLogger(logger),
	)
}

// buildStorageBackend creates a BlobStore based on the backend configuration
func (c *Config) buildStorageBackend(config StorageBackendConfig) (videometa.BlobStore, error) {
	switch config.Type {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   getString(config.Config, "base_dir", ""),
			URLPrefix: getString(config.Config, "url_prefix", ""),
		})

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 getString(config.Config, "region", c.AWSRegion),
			Bucket:                 c.Container,
			AccessKeyID:            c.AWSAccessKeyID,
			SecretAccessKey:        c.AWSSecretAccessKey,
			Endpoint:               getString(config.Config, "endpoint", ""),
			UsePathStyle:           getBool(config.Config, "use_path_style", false),
			PublicBaseURL:          getString(config.Config, "public_base_url", ""),
			CreateBucketIfNotExist: getBool(config.Config, "create_bucket_if_not_exist", false),
		})

	case "azure":
		return azurestorage.New(azurestorage.Config{
			ConnectionString: c.ConnectionString,
			Container:        c.Container,
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", config.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok && str != "" {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}
