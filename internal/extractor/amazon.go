package extractor

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tomepromo/backend/internal/domain"
)

const currencySymbol = "R$"

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Za-z0-9]`)

var amazonSelectors = struct {
	title           []string
	strikePrice     string
	strikeContainer string
	offscreenPrice  string
	recurrencePrice []string
	detailRows      string
	detailBullets   string
	image           string
	breadcrumbs     string
	description     string
	condition       string
}{
	title:           []string{"#productTitle", "h1#title"},
	strikePrice:     `span.a-price[data-a-strike="true"] span.a-offscreen`,
	strikeContainer: `[data-a-strike="true"]`,
	offscreenPrice:  "span.a-offscreen",
	recurrencePrice: []string{"#sns-base-price", "#subscriptionPrice"},
	detailRows:      "table tr",
	detailBullets:   "#detailBullets_feature_div li",
	image:           "#landingImage, #imgTagWrapperId img, #imgBlkFront",
	breadcrumbs:     "#wayfinding-breadcrumbs_feature_div ul li a",
	description:     "#feature-bullets .a-list-item",
	condition:       "span.best-offer-name",
}

var amazonPatterns = urlPatterns{"amzn", "amazon"}

type amazon struct{}

func (amazon) Website() domain.Website { return domain.WebsiteAmazon }

func (amazon) Match(lowerURL string) bool {
	return amazonPatterns.Match(lowerURL)
}

func (amazon) Extract(doc *goquery.Document, pageURL string) *domain.MetadataRecord {
	sel := amazonSelectors

	b := newRecord(domain.WebsiteAmazon).
		title(text(doc, sel.title...)).
		originalPrice(text(doc, sel.strikePrice)).
		currentPrice(amazonCurrentPrice(doc)).
		recurrencePrice(amazonRecurrencePrice(doc)).
		productCode(amazonASIN(doc)).
		description(text(doc, sel.description)).
		conditionPayment(text(doc, sel.condition)).
		image(pageURL, amazonImage(doc))

	return b.breadcrumbs(texts(doc, sel.breadcrumbs)).build()
}

func (amazon) AffiliateLink(pageURL string, params domain.AffiliateParams) (string, bool) {
	if params.AmazonTag == "" {
		return "", false
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	q := u.Query()
	q.Set("tag", params.AmazonTag)
	u.RawQuery = q.Encode()
	return u.String(), true
}

// amazonCurrentPrice returns the first offscreen price that starts with the
// currency symbol, ignoring struck-through list prices
func amazonCurrentPrice(doc *goquery.Document) string {
	var price string
	doc.Find(amazonSelectors.offscreenPrice).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.ParentsFiltered(amazonSelectors.strikeContainer).Length() > 0 {
			return true
		}
		t := cleanText(s.Text())
		if strings.HasPrefix(t, currencySymbol) {
			price = t
			return false
		}
		return true
	})
	return price
}

// amazonRecurrencePrice reads the subscription price: the first amount after
// the currency symbol in the subscribe-and-save block
func amazonRecurrencePrice(doc *goquery.Document) string {
	raw := text(doc, amazonSelectors.recurrencePrice...)
	parts := strings.Split(raw, currencySymbol)
	if len(parts) < 2 {
		return ""
	}
	fields := strings.Fields(parts[1])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// amazonASIN reads the ASIN from the product details table, falling back to
// the detail bullet list
func amazonASIN(doc *goquery.Document) string {
	var asin string
	doc.Find(amazonSelectors.detailRows).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(cleanText(row.Find("th").Text()), "ASIN") {
			return true
		}
		asin = nonAlphanumericRegex.ReplaceAllString(row.Find("td").Text(), "")
		return asin == ""
	})
	if asin != "" {
		return asin
	}

	doc.Find(amazonSelectors.detailBullets).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		label := cleanText(item.Find("span.a-text-bold").Text())
		if !strings.Contains(label, "ASIN") {
			return true
		}
		value := strings.TrimPrefix(cleanText(item.Text()), label)
		asin = nonAlphanumericRegex.ReplaceAllString(value, "")
		return asin == ""
	})
	return asin
}

// amazonImage picks the widest entry of the dynamic image map, falling back
// to the plain image attributes
func amazonImage(doc *goquery.Document) string {
	img := doc.Find(amazonSelectors.image).First()
	if dynamic, ok := img.Attr("data-a-dynamic-image"); ok {
		if best := widestImage(dynamic); best != "" {
			return best
		}
	}
	if hires, ok := img.Attr("data-old-hires"); ok && strings.TrimSpace(hires) != "" {
		return hires
	}
	src, _ := img.Attr("src")
	return src
}

// widestImage decodes a {"url": [width, height], ...} map and returns the URL
// with the largest width. The first URL seen wins ties, so the object is read
// token by token to keep document order.
func widestImage(raw string) string {
	dec := json.NewDecoder(strings.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return ""
	}

	var best string
	bestWidth := -1.0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return best
		}
		key, ok := tok.(string)
		if !ok {
			return best
		}
		var dims []float64
		if err := dec.Decode(&dims); err != nil {
			return best
		}
		if len(dims) == 0 {
			continue
		}
		if dims[0] > bestWidth {
			best, bestWidth = key, dims[0]
		}
	}
	return best
}
