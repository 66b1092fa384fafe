package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tomepromo/backend/internal/domain"
)

// Site is the extraction strategy for one supported e-commerce site
type Site interface {
	// Website identifies the site
	Website() domain.Website
	// Match reports whether a lower-cased URL belongs to the site
	Match(lowerURL string) bool
	// Extract pulls the site's fields out of a parsed product page.
	// Prices are returned as scraped; normalization happens afterwards.
	Extract(doc *goquery.Document, pageURL string) *domain.MetadataRecord
	// AffiliateLink rewrites pageURL into a buy link. ok is false when the site
	// has no rewrite rule or params carry nothing for it.
	AffiliateLink(pageURL string, params domain.AffiliateParams) (link string, ok bool)
}

// sites is ordered: the first match wins
var sites = []Site{
	mercadoLivre{},
	amazon{},
	magazineLuiza{},
}

// urlPatterns matches a URL against a fixed set of substrings
type urlPatterns []string

func (p urlPatterns) Match(lowerURL string) bool {
	for _, pattern := range p {
		if strings.Contains(lowerURL, pattern) {
			return true
		}
	}
	return false
}

// Classify returns the website a URL belongs to, or domain.WebsiteUnknown
func Classify(rawURL string) domain.Website {
	if site := siteFor(rawURL); site != nil {
		return site.Website()
	}
	return domain.WebsiteUnknown
}

// siteFor returns the site strategy for a URL, or nil for unknown sites
func siteFor(rawURL string) Site {
	lower := strings.ToLower(rawURL)
	for _, site := range sites {
		if site.Match(lower) {
			return site
		}
	}
	return nil
}

// siteByWebsite returns the strategy registered for a website, or nil
func siteByWebsite(website domain.Website) Site {
	for _, site := range sites {
		if site.Website() == website {
			return site
		}
	}
	return nil
}
