// Package extractor turns product URLs from supported Brazilian e-commerce
// sites into metadata records: it fetches the page with retries, classifies
// the site, runs the site's extraction strategy, normalizes prices, computes
// the affiliate buy link and backfills fields from Open Graph tags.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/tomepromo/backend/internal/domain"
)

const (
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
	DefaultCrawlerUserAgent = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
)

// Config holds the extractor settings
type Config struct {
	UserAgent        string
	CrawlerUserAgent string
	AttemptTimeout   time.Duration
	Retry            RetryPolicy
}

// Extractor fetches product pages and extracts their metadata.
// It keeps no per-call state and is safe for concurrent use.
type Extractor struct {
	fetcher domain.PageFetcher
	config  Config
	logger  *zap.Logger
}

// New creates an extractor. Zero config values fall back to the defaults.
// A zero Retry gets DefaultRetryPolicy; a partially set one keeps its Delay
// and gets the default attempt count and soft error detector where unset.
func New(fetcher domain.PageFetcher, config Config, logger *zap.Logger) *Extractor {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.CrawlerUserAgent == "" {
		config.CrawlerUserAgent = DefaultCrawlerUserAgent
	}
	if config.AttemptTimeout == 0 {
		config.AttemptTimeout = DefaultAttemptTimeout
	}
	if config.Retry.MaxAttempts == 0 && config.Retry.Delay == 0 && config.Retry.IsSoftFailure == nil {
		config.Retry = DefaultRetryPolicy()
	}
	if config.Retry.MaxAttempts <= 0 {
		config.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if config.Retry.IsSoftFailure == nil {
		config.Retry.IsSoftFailure = SoftErrorDetector(DefaultSoftErrorMarkers...)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		fetcher: fetcher,
		config:  config,
		logger:  logger.Named("extractor"),
	}
}

// Extract extracts a product page without affiliate rewriting
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.MetadataRecord, error) {
	return e.ExtractWithOptions(ctx, rawURL, domain.ExtractOptions{})
}

// ExtractWithOptions extracts a product page, injecting the given affiliate
// identifiers into the buy link.
//
// Per-field problems never fail the call. Errors are:
//   - domain.ErrInvalidURL for malformed input
//   - domain.ErrRetriesExhausted when every fetch attempt failed
//   - the context error when ctx is done
//   - domain.ErrUnsupportedSite, returned together with the partial record,
//     when the site is unknown and Open Graph provided nothing
func (e *Extractor) ExtractWithOptions(ctx context.Context, rawURL string, opts domain.ExtractOptions) (*domain.MetadataRecord, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	policy := e.config.Retry
	if opts.MaxRetries > 0 {
		policy.MaxAttempts = opts.MaxRetries
	}

	page, err := e.fetchWithRetry(ctx, rawURL, policy)
	if err != nil {
		return nil, err
	}

	pageURL := page.URL
	if pageURL == "" {
		pageURL = rawURL
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrParse, pageURL, err)
	}

	site := siteFor(pageURL)
	if site == nil {
		site = siteFor(rawURL)
	}

	var record *domain.MetadataRecord
	if site != nil {
		record = site.Extract(doc, pageURL)
		e.normalizePrices(record)
		record.BuyLink = RewriteBuyLink(site.Website(), pageURL, opts.Affiliate)
	} else {
		record = &domain.MetadataRecord{Website: domain.WebsiteUnknown, BuyLink: pageURL}
	}

	e.enrich(ctx, rawURL, pageURL, doc, record)

	if record.Website == domain.WebsiteUnknown && record.Title == "" && record.ImagePath == "" {
		return record, fmt.Errorf("%w: %s", domain.ErrUnsupportedSite, pageURL)
	}

	e.logger.Debug("extracted product metadata",
		zap.String("url", pageURL),
		zap.String("website", string(record.Website)),
		zap.Bool("has_price", record.CurrentPrice != ""),
		zap.Strings("breadcrumbs", record.Breadcrumbs.Labels()),
	)
	return record, nil
}

// fetchWithRetry fetches rawURL until a page that is not a soft error comes
// back. Every failed attempt, whatever the cause, consumes one attempt.
func (e *Extractor) fetchWithRetry(ctx context.Context, rawURL string, policy RetryPolicy) (*domain.Page, error) {
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := wait(ctx, policy.Delay); err != nil {
				return nil, err
			}
		}

		page, err := e.fetchOnce(ctx, rawURL, e.config.UserAgent)
		if err == nil && policy.softFailure(page) {
			err = fmt.Errorf("%w: error page with status %d", domain.ErrTransientFetch, page.StatusCode)
		}
		if err == nil {
			return page, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		e.logger.Warn("fetch attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts),
			zap.Error(err),
		)
		lastErr = err
	}

	e.logger.Error("all fetch attempts failed", zap.String("url", rawURL), zap.Int("attempts", policy.MaxAttempts))
	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrRetriesExhausted, policy.MaxAttempts, lastErr)
}

func (e *Extractor) fetchOnce(ctx context.Context, rawURL, userAgent string) (*domain.Page, error) {
	if e.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.AttemptTimeout)
		defer cancel()
	}
	return e.fetcher.Fetch(ctx, rawURL, userAgent)
}

// normalizePrices rewrites every scraped price in canonical form. Prices that
// cannot be normalized are dropped.
func (e *Extractor) normalizePrices(record *domain.MetadataRecord) {
	for _, field := range []*string{&record.CurrentPrice, &record.OriginalPrice, &record.RecurrencePrice} {
		if *field == "" {
			continue
		}
		normalized, err := NormalizePrice(*field)
		if err != nil {
			e.logger.Debug("dropping unparseable price", zap.String("raw", *field), zap.Error(err))
			*field = ""
			continue
		}
		*field = normalized
	}
}

// enrich backfills the record from Open Graph tags. Unknown sites take their
// title from og:title; every site except Mercado Livre takes its image from
// og:image. Failures are never fatal.
func (e *Extractor) enrich(ctx context.Context, rawURL, pageURL string, doc *goquery.Document, record *domain.MetadataRecord) {
	if record.Website == domain.WebsiteMercadoLivre {
		return
	}
	unknown := record.Website == domain.WebsiteUnknown

	og, err := e.fetchOpenGraph(ctx, rawURL)
	if err != nil {
		e.logger.Debug("open graph enrichment failed, using product page tags",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		og = ParseOpenGraph(doc, pageURL)
	}

	if unknown && og.Title != "" {
		record.Title = og.Title
		record.ProductName = og.Title
		if record.Description == "" {
			record.Description = og.Description
		}
	}
	if img := og.FirstImage(); img != "" {
		record.ImagePath = img
	}
}

// fetchOpenGraph fetches rawURL once with the crawler user agent, which
// sites answer with their Open Graph tags
func (e *Extractor) fetchOpenGraph(ctx context.Context, rawURL string) (OpenGraph, error) {
	page, err := e.fetchOnce(ctx, rawURL, e.config.CrawlerUserAgent)
	if err != nil {
		return OpenGraph{}, err
	}
	if e.config.Retry.softFailure(page) {
		return OpenGraph{}, fmt.Errorf("%w: error page with status %d", domain.ErrTransientFetch, page.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return OpenGraph{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	pageURL := page.URL
	if pageURL == "" {
		pageURL = rawURL
	}
	og := ParseOpenGraph(doc, pageURL)
	if og.IsEmpty() {
		return og, fmt.Errorf("%w: no open graph tags", domain.ErrParse)
	}
	return og, nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty URL", domain.ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, rawURL)
	}
	return nil
}
