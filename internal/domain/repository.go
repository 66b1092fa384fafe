package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PageFetcher performs a GET request following redirects and returns the final page
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL, userAgent string) (*Page, error)
}

// MetadataExtractor turns a product URL into a MetadataRecord
type MetadataExtractor interface {
	ExtractWithOptions(ctx context.Context, rawURL string, opts ExtractOptions) (*MetadataRecord, error)
}
