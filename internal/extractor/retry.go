package extractor

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/tomepromo/backend/internal/domain"
)

const (
	DefaultMaxAttempts    = 5
	DefaultRetryDelay     = time.Second
	DefaultAttemptTimeout = 15 * time.Second
)

// DefaultSoftErrorMarkers appear in the body of error pages served with status 200
var DefaultSoftErrorMarkers = []string{"errors/500", "errors/validateCaptcha"}

// RetryPolicy controls how many times a product page is fetched and what
// counts as a failed fetch
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// IsSoftFailure reports whether a fetched page is an error page that
	// should be retried. New fills in the default detector when nil.
	IsSoftFailure func(page *domain.Page) bool
}

// DefaultRetryPolicy makes 5 attempts one second apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   DefaultMaxAttempts,
		Delay:         DefaultRetryDelay,
		IsSoftFailure: SoftErrorDetector(DefaultSoftErrorMarkers...),
	}
}

// SoftErrorDetector treats 5xx and 429 responses, and 200 responses whose
// body contains one of the markers, as failures
func SoftErrorDetector(markers ...string) func(page *domain.Page) bool {
	needles := make([][]byte, 0, len(markers))
	for _, m := range markers {
		if m != "" {
			needles = append(needles, []byte(m))
		}
	}

	return func(page *domain.Page) bool {
		if page == nil {
			return true
		}
		if page.StatusCode >= http.StatusInternalServerError || page.StatusCode == http.StatusTooManyRequests {
			return true
		}
		if page.StatusCode != http.StatusOK {
			return false
		}
		for _, needle := range needles {
			if bytes.Contains(page.Body, needle) {
				return true
			}
		}
		return false
	}
}

func (p RetryPolicy) softFailure(page *domain.Page) bool {
	return p.IsSoftFailure != nil && p.IsSoftFailure(page)
}

// wait sleeps for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
