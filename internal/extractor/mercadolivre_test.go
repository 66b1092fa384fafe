package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomepromo/backend/internal/domain"
)

const mercadoLivreProductPage = `<html><body>
<ol class="andes-breadcrumb">
  <li class="andes-breadcrumb__item"><a href="/c/celulares">Celulares e Telefones</a></li>
  <li class="andes-breadcrumb__item"><a href="/c/smartphones">Celulares e Smartphones</a></li>
</ol>
<h1 class="ui-pdp-title">Smartphone Y 256GB</h1>
<div class="ui-pdp-price">
  <s class="andes-money-amount andes-money-amount--previous" aria-label="Antes: 1599 reais">
    <span class="andes-money-amount__currency-symbol">R$</span><span class="andes-money-amount__fraction">1.599</span>
  </s>
  <div class="ui-pdp-price__second-line">
    <span class="andes-money-amount" aria-label="1299 reais com 90 centavos">
      <span class="andes-money-amount__currency-symbol">R$</span><span class="andes-money-amount__fraction">1.299</span><span class="andes-money-amount__cents">90</span>
    </span>
  </div>
  <p class="ui-pdp-price__subtitles">em 10x R$ 129,99 sem juros</p>
</div>
<figure class="ui-pdp-gallery__figure">
  <img class="ui-pdp-image" src="https://http2.mlstatic.com/D_small.jpg" data-zoom="https://http2.mlstatic.com/D_zoom.jpg">
</figure>
</body></html>`

func TestMercadoLivreExtract(t *testing.T) {
	doc := mustDoc(t, mercadoLivreProductPage)

	record := mercadoLivre{}.Extract(doc, "https://produto.mercadolivre.com.br/MLB-3456789012-smartphone-y-_JM")

	assert.Equal(t, domain.WebsiteMercadoLivre, record.Website)
	assert.Equal(t, "Smartphone Y 256GB", record.Title)
	assert.Equal(t, "R$ 1.299,90", record.CurrentPrice)
	assert.Equal(t, "R$ 1.599", record.OriginalPrice)
	assert.Equal(t, "em 10x R$ 129,99 sem juros", record.ConditionPayment)
	assert.Equal(t, "https://http2.mlstatic.com/D_zoom.jpg", record.ImagePath)
	assert.Equal(t, "MLB3456789012", record.ProductCode)
	assert.Equal(t, domain.Breadcrumbs{
		"Celulares e Telefones": domain.Breadcrumbs{
			"Celulares e Smartphones": "Smartphone Y 256GB",
		},
	}, record.Breadcrumbs)
}

func TestFirstMoney(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "plain text amount",
			html: `<span class="andes-money-amount">R$ 49,90</span>`,
			want: "R$ 49,90",
		},
		{
			name: "split spans without cents",
			html: `<span class="andes-money-amount"><span class="andes-money-amount__currency-symbol">R$</span><span class="andes-money-amount__fraction">89</span></span>`,
			want: "R$ 89",
		},
		{
			name: "no currency in text",
			html: `<span class="andes-money-amount">Grátis</span>`,
			want: "",
		},
		{
			name: "missing element",
			html: `<div></div>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.html)
			assert.Equal(t, tt.want, firstMoney(doc, ".andes-money-amount"))
		})
	}
}

func TestMercadoLivreItemID(t *testing.T) {
	assert.Equal(t, "MLB123456", mercadoLivreItemID("https://produto.mercadolivre.com.br/MLB-123456-tenis-_JM"))
	assert.Equal(t, "MLB987", mercadoLivreItemID("https://www.mercadolivre.com.br/p/MLB987"))
	assert.Empty(t, mercadoLivreItemID("https://www.mercadolivre.com.br/ofertas"))
}

func TestMercadoLivreAffiliateLink(t *testing.T) {
	_, ok := mercadoLivre{}.AffiliateLink("https://www.mercadolivre.com.br/p/MLB1", domain.AffiliateParams{AmazonTag: "foo-20", MagazineVoceSlug: "loja"})
	assert.False(t, ok)
}
