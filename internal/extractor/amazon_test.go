package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomepromo/backend/internal/domain"
)

const amazonProductPage = `<html><head>
<meta property="og:image" content="https://m.media-amazon.com/images/og.jpg">
</head><body>
<div id="wayfinding-breadcrumbs_feature_div"><ul>
  <li><span class="a-list-item"><a href="/eletronicos"> Eletrônicos </a></span></li>
  <li><span class="a-list-item a-color-tertiary">›</span></li>
  <li><span class="a-list-item"><a href="/celulares">Celulares</a></span></li>
  <li><span class="a-list-item a-color-tertiary">›</span></li>
  <li><span class="a-list-item"><a href="/smartphones">Smartphones</a></span></li>
</ul></div>
<h1 id="title"><span id="productTitle">   Smartphone X 128GB
   Preto  </span></h1>
<div id="corePrice_feature_div">
  <span class="a-price a-text-price" data-a-strike="true"><span class="a-offscreen">R$ 1.999,00</span></span>
  <span class="a-price"><span class="a-offscreen">R$ 1.234,56</span><span aria-hidden="true">R$1.234,56</span></span>
</div>
<div id="sns-base-price">R$ 1.172,33 R$ 1.234,56</div>
<div id="feature-bullets"><ul>
  <li><span class="a-list-item"> Tela de 6,1 polegadas </span></li>
  <li><span class="a-list-item">Câmera dupla</span></li>
</ul></div>
<div id="imgTagWrapperId"><img id="landingImage" src="https://m.media-amazon.com/images/small.jpg"
  data-a-dynamic-image='{"https://m.media-amazon.com/images/500.jpg":[500,500],"https://m.media-amazon.com/images/1000.jpg":[1000,1000]}'></div>
<table id="productDetails_detailBullets_sections1">
  <tr><th class="prodDetSectionEntry"> Fabricante </th><td> ACME </td></tr>
  <tr><th class="prodDetSectionEntry"> ASIN </th><td> B0C-1234X </td></tr>
</table>
</body></html>`

func TestAmazonExtract(t *testing.T) {
	doc := mustDoc(t, amazonProductPage)

	record := amazon{}.Extract(doc, "https://www.amazon.com.br/dp/B0C1234X")

	assert.Equal(t, domain.WebsiteAmazon, record.Website)
	assert.Equal(t, "Smartphone X 128GB Preto", record.Title)
	assert.Equal(t, "R$ 1.234,56", record.CurrentPrice)
	assert.Equal(t, "R$ 1.999,00", record.OriginalPrice)
	assert.Equal(t, "1.172,33", record.RecurrencePrice)
	assert.Equal(t, "B0C1234X", record.ProductCode)
	assert.Equal(t, "Tela de 6,1 polegadas", record.Description)
	assert.Equal(t, "https://m.media-amazon.com/images/1000.jpg", record.ImagePath)
	assert.Equal(t, domain.Breadcrumbs{
		"Eletrônicos": domain.Breadcrumbs{
			"Celulares": domain.Breadcrumbs{
				"Smartphones": "Smartphone X 128GB Preto",
			},
		},
	}, record.Breadcrumbs)
	assert.Empty(t, record.ConditionPayment)
}

func TestAmazonExtract_MissingFieldsStayEmpty(t *testing.T) {
	doc := mustDoc(t, `<html><body><h1 id="title"><span id="productTitle">Livro</span></h1></body></html>`)

	record := amazon{}.Extract(doc, "https://www.amazon.com.br/dp/X")

	assert.Equal(t, "Livro", record.Title)
	assert.Empty(t, record.CurrentPrice)
	assert.Empty(t, record.OriginalPrice)
	assert.Empty(t, record.RecurrencePrice)
	assert.Empty(t, record.ProductCode)
	assert.Empty(t, record.ImagePath)
	assert.Nil(t, record.Breadcrumbs)
}

func TestAmazonExtract_ASINFromDetailBullets(t *testing.T) {
	doc := mustDoc(t, `<html><body><div id="detailBullets_feature_div"><ul>
		<li><span class="a-list-item"><span class="a-text-bold">Editora ‏ : ‎ </span><span>Companhia</span></span></li>
		<li><span class="a-list-item"><span class="a-text-bold">ASIN ‏ : ‎ </span><span>B08XYZ1234</span></span></li>
	</ul></div></body></html>`)

	assert.Equal(t, "B08XYZ1234", amazonASIN(doc))
}

func TestAmazonImage_Fallbacks(t *testing.T) {
	t.Run("old hires attribute", func(t *testing.T) {
		doc := mustDoc(t, `<img id="landingImage" src="https://img/small.jpg" data-old-hires="https://img/large.jpg">`)
		assert.Equal(t, "https://img/large.jpg", amazonImage(doc))
	})

	t.Run("src attribute", func(t *testing.T) {
		doc := mustDoc(t, `<img id="landingImage" src="https://img/small.jpg" data-a-dynamic-image="not json">`)
		assert.Equal(t, "https://img/small.jpg", amazonImage(doc))
	})
}

func TestWidestImage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "max width wins",
			raw:  `{"url1":[500,500],"url2":[1000,1000]}`,
			want: "url2",
		},
		{
			name: "max width wins regardless of position",
			raw:  `{"big":[1500,1500],"small":[300,300]}`,
			want: "big",
		},
		{
			name: "first seen breaks ties",
			raw:  `{"first":[800,600],"second":[800,1200],"third":[400,400]}`,
			want: "first",
		},
		{
			name: "empty map",
			raw:  `{}`,
			want: "",
		},
		{
			name: "not an object",
			raw:  `["url1"]`,
			want: "",
		},
		{
			name: "invalid json",
			raw:  `{"url1":`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, widestImage(tt.raw))
		})
	}
}

func TestAmazonAffiliateLink(t *testing.T) {
	t.Run("sets tag", func(t *testing.T) {
		link, ok := amazon{}.AffiliateLink("https://amazon.com/dp/X", domain.AffiliateParams{AmazonTag: "foo-20"})
		assert.True(t, ok)
		assert.Equal(t, "https://amazon.com/dp/X?tag=foo-20", link)
	})

	t.Run("overwrites existing tag", func(t *testing.T) {
		link, ok := amazon{}.AffiliateLink("https://www.amazon.com.br/dp/X?tag=old-20&th=1", domain.AffiliateParams{AmazonTag: "new-20"})
		assert.True(t, ok)
		assert.Equal(t, "https://www.amazon.com.br/dp/X?tag=new-20&th=1", link)
	})

	t.Run("no tag supplied", func(t *testing.T) {
		_, ok := amazon{}.AffiliateLink("https://amazon.com/dp/X", domain.AffiliateParams{MagazineVoceSlug: "loja"})
		assert.False(t, ok)
	})
}
