package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tomepromo/backend/internal/domain"
)

const (
	magazineLuizaHost = "magazineluiza.com.br"
	magazineVoceHost  = "magazinevoce.com.br"
	productCodeLabel  = "Código"
)

var (
	magazineLuizaPatterns = urlPatterns{"magazineluiza", "magalu", "magazinevoce"}

	nonDigitRegex = regexp.MustCompile(`\D`)
)

var magazineLuizaSelectors = struct {
	title         string
	currentPrice  string
	originalPrice string
	image         string
	description   string
	installment   string
	breadcrumbs   []string
}{
	title:         `h1[data-testid="heading-product-title"]`,
	currentPrice:  `p[data-testid="price-value"]`,
	originalPrice: `p[data-testid="price-original"]`,
	image:         `img[data-testid="image-selected-thumbnail"]`,
	description:   `div[data-testid="rich-content-container"]`,
	installment:   `p[data-testid="installment"]`,
	breadcrumbs: []string{
		"div.sc-dhKdcB.cFngep.sc-sLsrZ.lfArPD a.sc-koXPp.bXTNdB",
		`[data-testid="breadcrumb-container"] a`,
		`[data-testid="breadcrumb-item-list"] a`,
	},
}

type magazineLuiza struct{}

func (magazineLuiza) Website() domain.Website { return domain.WebsiteMagazineLuiza }

func (magazineLuiza) Match(lowerURL string) bool {
	return magazineLuizaPatterns.Match(lowerURL)
}

func (magazineLuiza) Extract(doc *goquery.Document, pageURL string) *domain.MetadataRecord {
	sel := magazineLuizaSelectors

	b := newRecord(domain.WebsiteMagazineLuiza).
		title(text(doc, sel.title)).
		currentPrice(text(doc, sel.currentPrice)).
		originalPrice(text(doc, sel.originalPrice)).
		image(pageURL, attr(doc, sel.image, "src")).
		description(text(doc, sel.description)).
		conditionPayment(text(doc, sel.installment)).
		productCode(magazineLuizaProductCode(doc))

	var labels []string
	for _, selector := range sel.breadcrumbs {
		if labels = texts(doc, selector); len(labels) > 0 {
			break
		}
	}
	return b.breadcrumbs(labels).build()
}

// AffiliateLink moves the product under the Magazine Você storefront:
// magazineluiza.com.br/<product> becomes magazinevoce.com.br/<slug>/<product>,
// and an existing magazinevoce.com.br/magazine<old>/ storefront is replaced.
func (magazineLuiza) AffiliateLink(pageURL string, params domain.AffiliateParams) (string, bool) {
	slug := strings.Trim(params.MagazineVoceSlug, "/ ")
	if slug == "" {
		return "", false
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	switch {
	case strings.HasSuffix(host, magazineLuizaHost):
		u.Host = strings.TrimSuffix(host, magazineLuizaHost) + magazineVoceHost
		u.Path = joinPath(slug, path)
	case strings.HasSuffix(host, magazineVoceHost):
		// magazinevoce paths always start with the storefront segment
		rest := ""
		if i := strings.Index(path, "/"); i >= 0 {
			rest = path[i+1:]
		}
		u.Path = joinPath(slug, rest)
	default:
		return "", false
	}
	u.RawPath = ""
	return u.String(), true
}

func joinPath(slug, rest string) string {
	if rest == "" {
		return "/" + slug
	}
	return "/" + slug + "/" + rest
}

// magazineLuizaProductCode finds the text node carrying the "Código" label and
// keeps its digits. When the number lives in a sibling node the parent's text
// is used instead.
func magazineLuizaProductCode(doc *goquery.Document) string {
	for _, root := range doc.Nodes {
		node := findTextNode(root, productCodeLabel)
		if node == nil {
			continue
		}
		code := nonDigitRegex.ReplaceAllString(strings.Replace(node.Data, productCodeLabel, "", 1), "")
		if code == "" && node.Parent != nil {
			parentText := goquery.NewDocumentFromNode(node.Parent).Text()
			code = nonDigitRegex.ReplaceAllString(strings.Replace(parentText, productCodeLabel, "", 1), "")
		}
		return code
	}
	return ""
}

// findTextNode returns the first text node under n containing needle,
// skipping script and style contents
func findTextNode(n *html.Node, needle string) *html.Node {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return nil
	}
	if n.Type == html.TextNode && strings.Contains(n.Data, needle) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTextNode(c, needle); found != nil {
			return found
		}
	}
	return nil
}
