package domain

// Website identifies which e-commerce site a product URL belongs to
type Website string

const (
	WebsiteAmazon        Website = "Amazon"
	WebsiteMercadoLivre  Website = "MercadoLivre"
	WebsiteMagazineLuiza Website = "MagazineLuiza"
	WebsiteUnknown       Website = "Unknown"
)

// Breadcrumbs is the category path of a product page. Every label but the
// last maps to the next level; the last label maps to the product title.
type Breadcrumbs map[string]interface{}

// Labels walks the path from the outermost category to the innermost one
func (b Breadcrumbs) Labels() []string {
	var labels []string
	level := map[string]interface{}(b)
	for len(level) == 1 {
		var next interface{}
		for label, value := range level {
			labels = append(labels, label)
			next = value
		}
		switch v := next.(type) {
		case Breadcrumbs:
			level = v
		case map[string]interface{}:
			level = v
		default:
			return labels
		}
	}
	return labels
}

// MetadataRecord is the result of extracting a product page.
// Optional fields are left empty when the page does not provide them and are
// omitted from the JSON representation.
type MetadataRecord struct {
	Website          Website     `json:"website"`
	Title            string      `json:"title,omitempty"`
	ProductName      string      `json:"productName,omitempty"`
	CurrentPrice     string      `json:"currentPrice,omitempty"`
	OriginalPrice    string      `json:"originalPrice,omitempty"`
	RecurrencePrice  string      `json:"recurrencePrice,omitempty"`
	Description      string      `json:"description,omitempty"`
	ConditionPayment string      `json:"conditionPayment,omitempty"`
	ImagePath        string      `json:"imagePath,omitempty"`
	ProductCode      string      `json:"productCode,omitempty"`
	Breadcrumbs      Breadcrumbs `json:"breadcrumbs,omitempty"`
	BuyLink          string      `json:"buyLink"`
}

// AffiliateParams carries the referral identifiers injected into buy links
type AffiliateParams struct {
	AmazonTag        string `json:"amazonTag,omitempty"`
	MagazineVoceSlug string `json:"magazineVoceSlug,omitempty"`
}

// IsZero reports whether no affiliate identifier was supplied
func (p AffiliateParams) IsZero() bool {
	return p.AmazonTag == "" && p.MagazineVoceSlug == ""
}

// ExtractOptions tunes a single extraction call
type ExtractOptions struct {
	Affiliate AffiliateParams
	// MaxRetries overrides the configured attempt count when positive
	MaxRetries int
}

// ExtractRequest represents a metadata extraction request
type ExtractRequest struct {
	URL              string `json:"url" binding:"required"`
	AmazonTag        string `json:"amazonTag,omitempty"`
	MagazineVoceSlug string `json:"magazineVoceSlug,omitempty"`
	MaxRetries       int    `json:"maxRetries,omitempty"`
}

// ErrorResponse is the failure body returned to callers
type ErrorResponse struct {
	Error string `json:"error"`
}

// Page is a fetched HTML document after redirects were followed
type Page struct {
	URL        string // final URL after redirects
	StatusCode int
	Body       []byte
}
