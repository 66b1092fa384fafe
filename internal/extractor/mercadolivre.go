package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tomepromo/backend/internal/domain"
)

var (
	mercadoLivrePatterns = urlPatterns{"mercadolivre"}

	moneyRegex       = regexp.MustCompile(`R\$\s*\d[\d.]*(?:,\d{1,2})?`)
	mercadoItemRegex = regexp.MustCompile(`(?i)\bMLB-?(\d+)`)
)

var mercadoLivreSelectors = struct {
	title         []string
	condition     []string
	image         string
	currentMoney  []string
	originalMoney []string
	breadcrumbs   string
}{
	title:         []string{"h1.ui-pdp-title"},
	condition:     []string{"p.ui-pdp-price__subtitles", "#pricing_price_subtitle", ".ui-pdp-installments"},
	image:         "figure.ui-pdp-gallery__figure img, img.ui-pdp-image",
	currentMoney:  []string{".ui-pdp-price__second-line .andes-money-amount", ".andes-money-amount:not(.andes-money-amount--previous)"},
	originalMoney: []string{"s.andes-money-amount--previous", ".andes-money-amount--previous"},
	breadcrumbs:   "ol.andes-breadcrumb li a",
}

type mercadoLivre struct{}

func (mercadoLivre) Website() domain.Website { return domain.WebsiteMercadoLivre }

func (mercadoLivre) Match(lowerURL string) bool {
	return mercadoLivrePatterns.Match(lowerURL)
}

func (mercadoLivre) Extract(doc *goquery.Document, pageURL string) *domain.MetadataRecord {
	sel := mercadoLivreSelectors

	b := newRecord(domain.WebsiteMercadoLivre).
		title(text(doc, sel.title...)).
		conditionPayment(text(doc, sel.condition...)).
		currentPrice(firstMoney(doc, sel.currentMoney...)).
		originalPrice(firstMoney(doc, sel.originalMoney...)).
		productCode(mercadoLivreItemID(pageURL)).
		image(pageURL, mercadoLivreImage(doc))

	return b.breadcrumbs(texts(doc, sel.breadcrumbs)).build()
}

// Mercado Livre has no affiliate rewrite rule
func (mercadoLivre) AffiliateLink(string, domain.AffiliateParams) (string, bool) {
	return "", false
}

// firstMoney extracts "R$ <amount>" from the first money element found by the selectors
func firstMoney(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if m := moneyRegex.FindString(moneyText(el)); m != "" {
			return m
		}
	}
	return ""
}

// moneyText reassembles a money element rendered as separate
// symbol / fraction / cents spans into "R$ 1.299,90"
func moneyText(el *goquery.Selection) string {
	fraction := cleanText(el.Find(".andes-money-amount__fraction").First().Text())
	if fraction == "" {
		return cleanText(el.Text())
	}
	symbol := cleanText(el.Find(".andes-money-amount__currency-symbol").First().Text())
	if symbol == "" {
		symbol = currencySymbol
	}
	amount := symbol + " " + fraction
	if cents := cleanText(el.Find(".andes-money-amount__cents").First().Text()); cents != "" {
		amount += "," + cents
	}
	return amount
}

func mercadoLivreImage(doc *goquery.Document) string {
	img := doc.Find(mercadoLivreSelectors.image).First()
	for _, name := range []string{"data-zoom", "src"} {
		if v, ok := img.Attr(name); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// mercadoLivreItemID reads the MLB item identifier from the product URL
func mercadoLivreItemID(pageURL string) string {
	m := mercadoItemRegex.FindStringSubmatch(pageURL)
	if m == nil {
		return ""
	}
	return "MLB" + m[1]
}
