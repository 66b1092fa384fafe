package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tomepromo/backend/internal/domain"
)

var (
	currencyPrefixRegex = regexp.MustCompile(`^[^\d.,-]+`)
	canonicalPriceRegex = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// NormalizePrice converts a locale-formatted price such as "R$ 1.234,56" into
// a canonical decimal string ("1234.56").
//
// Blank input is returned unchanged. A string that does not reduce to a
// non-negative decimal yields an error wrapping domain.ErrFormat.
func NormalizePrice(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return raw, nil
	}

	s := strings.ReplaceAll(raw, "\u00a0", " ")
	s = strings.TrimSpace(s)
	s = currencyPrefixRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}

	// "1.234" carries a thousands separator, not a decimal point
	if i := strings.LastIndex(s, "."); i >= 0 && len(s)-i-1 == 3 {
		s = strings.ReplaceAll(s, ".", "")
	}

	if !canonicalPriceRegex.MatchString(s) {
		return "", fmt.Errorf("%w: %q", domain.ErrFormat, raw)
	}
	return s, nil
}
