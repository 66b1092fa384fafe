package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tomepromo/backend/internal/domain"
)

// cleanText trims and collapses runs of whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// text returns the cleaned text of the first element matching any of the
// selectors, in order. Missing elements yield "".
func text(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if t := cleanText(doc.Find(selector).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// attr returns an attribute of the first element matching selector
func attr(doc *goquery.Document, selector, name string) string {
	value, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(value)
}

// texts returns the non-empty cleaned texts of every element matching selector
func texts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := cleanText(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// absoluteURL resolves ref against the page URL. Unresolvable references are
// dropped so that image paths are always absolute.
func absoluteURL(pageURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	resolved, err := base.Parse(ref)
	if err != nil || resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// recordBuilder assembles a MetadataRecord, ignoring empty values
type recordBuilder struct {
	record *domain.MetadataRecord
}

func newRecord(website domain.Website) *recordBuilder {
	return &recordBuilder{record: &domain.MetadataRecord{Website: website}}
}

func (b *recordBuilder) set(field *string, value string) *recordBuilder {
	if value = cleanText(value); value != "" {
		*field = value
	}
	return b
}

func (b *recordBuilder) title(v string) *recordBuilder {
	return b.set(&b.record.Title, v)
}

func (b *recordBuilder) currentPrice(v string) *recordBuilder {
	return b.set(&b.record.CurrentPrice, v)
}

func (b *recordBuilder) originalPrice(v string) *recordBuilder {
	return b.set(&b.record.OriginalPrice, v)
}

func (b *recordBuilder) recurrencePrice(v string) *recordBuilder {
	return b.set(&b.record.RecurrencePrice, v)
}

func (b *recordBuilder) description(v string) *recordBuilder {
	return b.set(&b.record.Description, v)
}

func (b *recordBuilder) conditionPayment(v string) *recordBuilder {
	return b.set(&b.record.ConditionPayment, v)
}

func (b *recordBuilder) productCode(v string) *recordBuilder {
	return b.set(&b.record.ProductCode, v)
}

func (b *recordBuilder) image(pageURL, ref string) *recordBuilder {
	return b.set(&b.record.ImagePath, absoluteURL(pageURL, ref))
}

// breadcrumbs must be called after title
func (b *recordBuilder) breadcrumbs(labels []string) *recordBuilder {
	b.record.Breadcrumbs = BuildBreadcrumbs(labels, b.record.Title)
	return b
}

func (b *recordBuilder) build() *domain.MetadataRecord {
	return b.record
}
