package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tomepromo/backend/internal/domain"
)

const (
	defaultCacheTTL = 6 * time.Hour
	maxRetriesLimit = 10
)

// Observer receives extraction and cache events. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveExtraction(website, outcome string, d time.Duration)
	ObserveCacheLookup(result string)
}

// MetadataServiceConfig holds configuration for the metadata service
type MetadataServiceConfig struct {
	CacheTTL time.Duration
	// DefaultAffiliate is used for every identifier the request leaves empty
	DefaultAffiliate domain.AffiliateParams
}

// MetadataService resolves product URLs to metadata records with caching
type MetadataService struct {
	cache     domain.CacheRepository
	extractor domain.MetadataExtractor
	observer  Observer
	logger    *zap.Logger
	config    MetadataServiceConfig
}

// NewMetadataService creates a new metadata service. cache and observer may be nil.
func NewMetadataService(
	cache domain.CacheRepository,
	extractor domain.MetadataExtractor,
	observer Observer,
	logger *zap.Logger,
	config MetadataServiceConfig,
) *MetadataService {
	if config.CacheTTL == 0 {
		config.CacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MetadataService{
		cache:     cache,
		extractor: extractor,
		observer:  observer,
		logger:    logger.Named("metadata"),
		config:    config,
	}
}

// ExtractMetadata returns the metadata record for the requested product URL.
// Flow: validate -> check cache -> extract -> cache -> return
//
// When the site is unsupported the partial record is returned together with
// domain.ErrUnsupportedSite and is not cached.
func (s *MetadataService) ExtractMetadata(ctx context.Context, request *domain.ExtractRequest) (*domain.MetadataRecord, error) {
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	rawURL := strings.TrimSpace(request.URL)
	opts := domain.ExtractOptions{
		Affiliate:  s.affiliateFor(request),
		MaxRetries: request.MaxRetries,
	}
	cacheKey := generateCacheKey(rawURL, opts.Affiliate)

	if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	start := time.Now()
	record, err := s.extractor.ExtractWithOptions(ctx, rawURL, opts)
	s.observeExtraction(record, err, time.Since(start))

	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedSite) && record != nil {
			s.logger.Info("unsupported site", zap.String("url", rawURL))
			return record, err
		}
		s.logger.Warn("extraction failed", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	s.setInCache(ctx, cacheKey, record)

	return record, nil
}

func validateRequest(request *domain.ExtractRequest) error {
	if request == nil || strings.TrimSpace(request.URL) == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}
	if request.MaxRetries < 0 || request.MaxRetries > maxRetriesLimit {
		return fmt.Errorf("%w: maxRetries must be between 0 and %d", domain.ErrInvalidRequest, maxRetriesLimit)
	}
	return nil
}

func (s *MetadataService) affiliateFor(request *domain.ExtractRequest) domain.AffiliateParams {
	params := domain.AffiliateParams{
		AmazonTag:        strings.TrimSpace(request.AmazonTag),
		MagazineVoceSlug: strings.TrimSpace(request.MagazineVoceSlug),
	}
	if params.AmazonTag == "" {
		params.AmazonTag = s.config.DefaultAffiliate.AmazonTag
	}
	if params.MagazineVoceSlug == "" {
		params.MagazineVoceSlug = s.config.DefaultAffiliate.MagazineVoceSlug
	}
	return params
}

// generateCacheKey hashes the URL together with the affiliate identifiers,
// since they change the buy link.
// Format: "metadata:{sha256 hex}"
func generateCacheKey(rawURL string, params domain.AffiliateParams) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	h.Write([]byte{0})
	h.Write([]byte(params.AmazonTag))
	h.Write([]byte{0})
	h.Write([]byte(params.MagazineVoceSlug))
	return "metadata:" + hex.EncodeToString(h.Sum(nil))
}

func (s *MetadataService) getFromCache(ctx context.Context, key string) (*domain.MetadataRecord, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			s.observeCache("miss")
		} else {
			s.observeCache("error")
			s.logger.Warn("cache lookup failed", zap.Error(err))
		}
		return nil, false
	}

	var record domain.MetadataRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.observeCache("error")
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	s.observeCache("hit")
	return &record, true
}

// setInCache logs but never fails the request
func (s *MetadataService) setInCache(ctx context.Context, key string, record *domain.MetadataRecord) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn("encoding record for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *MetadataService) observeExtraction(record *domain.MetadataRecord, err error, d time.Duration) {
	if s.observer == nil {
		return
	}
	website := "none"
	if record != nil {
		website = string(record.Website)
	}
	s.observer.ObserveExtraction(website, outcome(err), d)
}

func (s *MetadataService) observeCache(result string) {
	if s.observer != nil {
		s.observer.ObserveCacheLookup(result)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUnsupportedSite):
		return "unsupported"
	case errors.Is(err, domain.ErrRetriesExhausted):
		return "exhausted"
	case errors.Is(err, domain.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
