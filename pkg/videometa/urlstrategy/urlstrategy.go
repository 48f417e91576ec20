package urlstrategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
)

// URLStrategyType represents the type of URL strategy
type URLStrategyType string

const (
	// CDN strategy writes URLs rooted at a CDN base URL
	StrategyTypeCDN URLStrategyType = "cdn"

	// Storage-delegated strategy asks the blob store for the object's public URL
	StrategyTypeStorageDelegated URLStrategyType = "storage-delegated"
)

// URLStrategy defines how video URLs are generated. It satisfies
// videometa.URLStrategy.
type URLStrategy interface {
	VideoURL(ctx context.Context, objectKey string) (string, error)
}

// PublicURLProvider is the part of a blob store the storage-delegated strategy needs
type PublicURLProvider interface {
	GetPublicURL(ctx context.Context, objectKey string) (string, error)
}

// Config holds configuration for URL strategy creation
type Config struct {
	Type       URLStrategyType
	CDNBaseURL string            // For CDN strategy
	Store      PublicURLProvider // For storage-delegated strategy
}

// NewURLStrategy creates a URL strategy based on the configuration
func NewURLStrategy(config Config) (URLStrategy, error) {
	switch config.Type {
	case StrategyTypeCDN:
		if config.CDNBaseURL == "" {
			return nil, fmt.Errorf("CDN base URL is required for CDN strategy")
		}
		return NewCDNStrategy(config.CDNBaseURL), nil

	case StrategyTypeStorageDelegated, "":
		if config.Store == nil {
			return nil, fmt.Errorf("blob store is required for storage-delegated strategy")
		}
		return NewStorageDelegatedStrategy(config.Store), nil

	default:
		return nil, fmt.Errorf("unknown URL strategy type: %s", config.Type)
	}
}

// CDNStrategy generates URLs that point directly to a CDN
type CDNStrategy struct {
	CDNBaseURL string // e.g., "https://cdn.example.com/videos"
}

// NewCDNStrategy creates a new CDN URL strategy
func NewCDNStrategy(cdnBaseURL string) *CDNStrategy {
	return &CDNStrategy{CDNBaseURL: strings.TrimSuffix(cdnBaseURL, "/")}
}

// VideoURL returns <CDNBaseURL>/<escaped key>
func (s *CDNStrategy) VideoURL(ctx context.Context, objectKey string) (string, error) {
	if s.CDNBaseURL == "" {
		return "", fmt.Errorf("CDN base URL not configured")
	}
	return fmt.Sprintf("%s/%s", s.CDNBaseURL, videometa.EscapeKey(objectKey)), nil
}

// StorageDelegatedStrategy delegates URL generation to the blob store
type StorageDelegatedStrategy struct {
	Store PublicURLProvider
}

// NewStorageDelegatedStrategy creates a new storage-delegated URL strategy
func NewStorageDelegatedStrategy(store PublicURLProvider) *StorageDelegatedStrategy {
	return &StorageDelegatedStrategy{Store: store}
}

// VideoURL returns the store's public URL for the key
func (s *StorageDelegatedStrategy) VideoURL(ctx context.Context, objectKey string) (string, error) {
	return s.Store.GetPublicURL(ctx, objectKey)
}
