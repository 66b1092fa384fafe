package extractor

import "github.com/tomepromo/backend/internal/domain"

// RewriteBuyLink returns the affiliate buy link for a product page. Sites
// without a rewrite rule, missing affiliate params, and unparseable URLs all
// fall back to pageURL unchanged.
func RewriteBuyLink(website domain.Website, pageURL string, params domain.AffiliateParams) string {
	site := siteByWebsite(website)
	if site == nil || params.IsZero() {
		return pageURL
	}
	if link, ok := site.AffiliateLink(pageURL, params); ok {
		return link
	}
	return pageURL
}
