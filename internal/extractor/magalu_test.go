package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomepromo/backend/internal/domain"
)

const magazineLuizaProductPage = `<html><body>
<div class="sc-dhKdcB cFngep sc-sLsrZ lfArPD">
  <a class="sc-koXPp bXTNdB" href="/eletrodomesticos/l/ed/">Eletrodomésticos</a>
  <a class="sc-koXPp bXTNdB" href="/geladeira/l/ed/gela/">Geladeira / Refrigerador</a>
</div>
<h1 data-testid="heading-product-title">Geladeira Frost Free 450L</h1>
<span class="sc-code">Código 237185600</span>
<p data-testid="price-original">R$ 3.999,00</p>
<p data-testid="price-value">R$ 3.499,00</p>
<p data-testid="installment">ou 10x de R$ 349,90 sem juros</p>
<img data-testid="image-selected-thumbnail" src="//a-static.mlcdn.com.br/800x560/geladeira.jpg">
<div data-testid="rich-content-container"><p>Geladeira   com
  freezer</p>
<p>Classe A</p></div>
<script>var t = "Código 999";</script>
</body></html>`

func TestMagazineLuizaExtract(t *testing.T) {
	doc := mustDoc(t, magazineLuizaProductPage)

	record := magazineLuiza{}.Extract(doc, "https://www.magazineluiza.com.br/geladeira/p/237185600/ed/ref2/")

	assert.Equal(t, domain.WebsiteMagazineLuiza, record.Website)
	assert.Equal(t, "Geladeira Frost Free 450L", record.Title)
	assert.Equal(t, "R$ 3.499,00", record.CurrentPrice)
	assert.Equal(t, "R$ 3.999,00", record.OriginalPrice)
	assert.Equal(t, "ou 10x de R$ 349,90 sem juros", record.ConditionPayment)
	assert.Equal(t, "Geladeira com freezer Classe A", record.Description)
	assert.Equal(t, "https://a-static.mlcdn.com.br/800x560/geladeira.jpg", record.ImagePath)
	assert.Equal(t, "237185600", record.ProductCode)
	assert.Equal(t, domain.Breadcrumbs{
		"Eletrodomésticos": domain.Breadcrumbs{
			"Geladeira / Refrigerador": "Geladeira Frost Free 450L",
		},
	}, record.Breadcrumbs)
}

func TestMagazineLuizaExtract_BreadcrumbFallback(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h1 data-testid="heading-product-title">Panela</h1>
		<nav data-testid="breadcrumb-container"><a>Casa</a><a>Cozinha</a></nav>
	</body></html>`)

	record := magazineLuiza{}.Extract(doc, "https://www.magazineluiza.com.br/panela/p/1/")

	assert.Equal(t, domain.Breadcrumbs{"Casa": domain.Breadcrumbs{"Cozinha": "Panela"}}, record.Breadcrumbs)
}

func TestMagazineLuizaProductCode(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"label and number in one node", `<span>Código 237185600</span>`, "237185600"},
		{"number in sibling element", `<div>Código: <strong>ab-12345</strong></div>`, "12345"},
		{"label only in script", `<script>"Código 1"</script><p>nada</p>`, ""},
		{"no label", `<p>Produto</p>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, magazineLuizaProductCode(mustDoc(t, tt.html)))
		})
	}
}

func TestMagazineLuizaAffiliateLink(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		slug   string
		want   string
		wantOK bool
	}{
		{
			name:   "magazine luiza to storefront",
			url:    "https://www.magazineluiza.com.br/p/123",
			slug:   "storeA",
			want:   "https://www.magazinevoce.com.br/storeA/p/123",
			wantOK: true,
		},
		{
			name:   "keeps query",
			url:    "https://www.magazineluiza.com.br/geladeira/p/237185600/ed/ref2/?seller_id=magazineluiza",
			slug:   "magazinetomepromo",
			want:   "https://www.magazinevoce.com.br/magazinetomepromo/geladeira/p/237185600/ed/ref2/?seller_id=magazineluiza",
			wantOK: true,
		},
		{
			name:   "replaces existing storefront",
			url:    "https://www.magazinevoce.com.br/magazineoutraloja/p/123",
			slug:   "storeA",
			want:   "https://www.magazinevoce.com.br/storeA/p/123",
			wantOK: true,
		},
		{
			name:   "replaces storefront without magazine prefix",
			url:    "https://www.magazinevoce.com.br/storeA/p/123",
			slug:   "storeB",
			want:   "https://www.magazinevoce.com.br/storeB/p/123",
			wantOK: true,
		},
		{
			name:   "storefront home page",
			url:    "https://www.magazinevoce.com.br/storeA",
			slug:   "storeB",
			want:   "https://www.magazinevoce.com.br/storeB",
			wantOK: true,
		},
		{
			name:   "storefront root",
			url:    "https://www.magazinevoce.com.br/",
			slug:   "storeA",
			want:   "https://www.magazinevoce.com.br/storeA",
			wantOK: true,
		},
		{
			name:   "no slug",
			url:    "https://www.magazineluiza.com.br/p/123",
			slug:   "",
			wantOK: false,
		},
		{
			name:   "short host has no rule",
			url:    "https://magalu.com/p/123",
			slug:   "storeA",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := magazineLuiza{}.AffiliateLink(tt.url, domain.AffiliateParams{MagazineVoceSlug: tt.slug})
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMagazineLuizaAffiliateLinkIsStable(t *testing.T) {
	const productURL = "https://www.magazineluiza.com.br/geladeira/p/237185600/"
	params := domain.AffiliateParams{MagazineVoceSlug: "storeA"}

	first, ok := magazineLuiza{}.AffiliateLink(productURL, params)
	require.True(t, ok)
	second, ok := magazineLuiza{}.AffiliateLink(first, params)
	require.True(t, ok)

	assert.Equal(t, "https://www.magazinevoce.com.br/storeA/geladeira/p/237185600/", first)
	assert.Equal(t, first, second)
}
