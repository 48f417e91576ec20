package config

import (
	"fmt"
)

// WithContainer sets the container (or bucket) to scan. It takes precedence
// over a container named in STORAGE_URL.
func WithContainer(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("container cannot be empty")
		}
		c.Container = name
		c.containerSet = true
		return nil
	}
}

// WithStorageURL sets the storage connection string
func WithStorageURL(storageURL string) Option {
	return func(c *Config) error {
		c.StorageURL = storageURL
		return nil
	}
}

// WithConnectionString sets the Azure storage account connection string
func WithConnectionString(conn string) Option {
	return func(c *Config) error {
		c.ConnectionString = conn
		return nil
	}
}

// WithCDNBaseURL writes video URLs rooted at a CDN instead of the store's public URL
func WithCDNBaseURL(baseURL string) Option {
	return func(c *Config) error {
		c.CDNBaseURL = baseURL
		return nil
	}
}
