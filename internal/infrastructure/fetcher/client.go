package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/tomepromo/backend/internal/domain"
)

const (
	DefaultMaxRedirects = 5
	DefaultMaxBodyBytes = 8 << 20
	DefaultTimeout      = 30 * time.Second
)

// ErrTooManyRedirects is returned when a page redirects more than MaxRedirects times
var ErrTooManyRedirects = errors.New("too many redirects")

// Observer receives one event per fetch
type Observer interface {
	ObserveFetch(outcome string, d time.Duration)
}

// Config holds the client settings
type Config struct {
	MaxRedirects int
	MaxBodyBytes int64
	Timeout      time.Duration
	// RequestsPerSecond throttles outbound requests; zero disables throttling
	RequestsPerSecond float64
	Burst             int
}

// Client fetches product pages over HTTP
type Client struct {
	transport   http.RoundTripper
	config      Config
	rateLimiter *rate.Limiter
	observer    Observer
	logger      *zap.Logger
}

// NewClient creates a new page fetching client
func NewClient(config Config, observer Observer, logger *zap.Logger) *Client {
	if config.MaxRedirects <= 0 {
		config.MaxRedirects = DefaultMaxRedirects
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10

	return &Client{
		transport:   transport,
		config:      config,
		rateLimiter: limiter,
		observer:    observer,
		logger:      logger.Named("fetcher"),
	}
}

// newHTTPClient builds a client with its own cookie jar so cookies set during
// a redirect chain never leak into another fetch
func (c *Client) newHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	maxRedirects := c.config.MaxRedirects

	return &http.Client{
		Transport: c.transport,
		Timeout:   c.config.Timeout,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
			}
			return nil
		},
	}
}

// Fetch performs a GET request following redirects and returns the final URL,
// status code and body decoded to UTF-8. Any status code is returned as a page;
// only transport failures are errors, wrapped with domain.ErrTransientFetch.
func (c *Client) Fetch(ctx context.Context, rawURL, userAgent string) (*domain.Page, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	start := time.Now()
	resp, err := c.newHTTPClient().Do(req)
	if err != nil {
		c.observe(outcomeFor(err), start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientFetch, err)
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		c.observe("read_error", start)
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrTransientFetch, err)
	}
	c.observe(statusClass(resp.StatusCode), start)

	c.logger.Debug("page fetched",
		zap.String("url", rawURL),
		zap.String("final_url", resp.Request.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	return &domain.Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, c.config.MaxBodyBytes)

	// NewReader only fails when reading its preview fails; unknown
	// encodings fall back to sniffing
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveFetch(outcome, time.Since(start))
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

func outcomeFor(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return "redirects"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	default:
		return "error"
	}
}
