package domain

import "errors"

var (
	// ErrUnsupportedSite is returned alongside a partial record when the URL matches
	// no known site and Open Graph metadata yields nothing useful
	ErrUnsupportedSite = errors.New("unsupported site")

	// ErrTransientFetch is returned when a fetch fails in a way that may succeed on retry
	ErrTransientFetch = errors.New("transient fetch failure")

	// ErrRetriesExhausted is returned when every fetch attempt failed
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrFormat is returned when a price string cannot be normalized
	ErrFormat = errors.New("invalid price format")

	// ErrParse is returned when a required element is missing from a document
	ErrParse = errors.New("element not found")

	// ErrInvalidURL is returned when the product URL is malformed or not http(s)
	ErrInvalidURL = errors.New("invalid product URL")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
