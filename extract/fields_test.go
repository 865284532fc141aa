package extract

import (
	"net/url"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFields(t *testing.T) *FieldExtractor {
	t.Helper()
	f, err := NewFieldExtractor(DefaultTitleSelector, DefaultPriceSelector, DefaultDiscountSelector, DefaultImageSelector)
	require.NoError(t, err)
	return f
}

func container(t *testing.T, inner string) *goquery.Selection {
	t.Helper()
	return parse(t, `<div id="c">`+inner+`</div>`).Find("#c")
}

func TestExtract_PricePair(t *testing.T) {
	tests := []struct {
		name      string
		inner     string
		salePrice string
		price     string
	}{
		{
			name:      "two prices",
			inner:     `<h3>TV</h3><span class="sale-price">₹499</span><span class="mrp">₹699</span>`,
			salePrice: "₹499",
			price:     "₹699",
		},
		{
			name:      "one price",
			inner:     `<h3>TV</h3><span class="amount">₹499</span>`,
			salePrice: "₹499",
		},
		{
			name:  "no prices",
			inner: `<h3>TV</h3>`,
		},
		{
			name:      "blank price elements are dropped",
			inner:     `<h3>TV</h3><span class="price-tag">  </span><span class="sale-price"> ₹499 </span>`,
			salePrice: "₹499",
		},
	}

	f := defaultFields(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := f.Extract(container(t, tt.inner), nil)
			require.True(t, ok)
			assert.Equal(t, tt.salePrice, c.SalePrice)
			assert.Equal(t, tt.price, c.Price)
		})
	}
}

func TestExtract_MissingTitle(t *testing.T) {
	f := defaultFields(t)
	_, ok := f.Extract(container(t, `<span class="sale-price">₹499</span>`), nil)
	assert.False(t, ok)
}

func TestExtract_TitleInDocumentOrder(t *testing.T) {
	f := defaultFields(t)
	c, ok := f.Extract(container(t, `<a class="product-title">  Bravia
   X80L </a><h3>Specs</h3>`), nil)
	require.True(t, ok)
	assert.Equal(t, "Bravia X80L", c.Title)
}

func TestExtract_Discount(t *testing.T) {
	f := defaultFields(t)

	c, _ := f.Extract(container(t, `<h3>TV</h3><p class="you-save">Save ₹200</p>`), nil)
	assert.Equal(t, "Save ₹200", c.DiscountMessage)

	c, _ = f.Extract(container(t, `<h3>TV</h3>`), nil)
	assert.Empty(t, c.DiscountMessage)
}

func TestExtract_ImageURL(t *testing.T) {
	base, err := url.Parse("https://shop.example.com/tv/c/1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		inner string
		base  *url.URL
		want  string
	}{
		{"absolute", `<img src="https://cdn.example.com/a.png">`, base, "https://cdn.example.com/a.png"},
		{"relative", `<img src="/img/a.png">`, base, "https://shop.example.com/img/a.png"},
		{"protocol relative", `<img src="//cdn.example.com/a.png">`, base, "https://cdn.example.com/a.png"},
		{"lazy placeholder", `<img src="data:image/gif;base64,R0lGOD" data-src="/img/lazy.png">`, base, "https://shop.example.com/img/lazy.png"},
		{"missing src", `<img data-src="/img/lazy.png">`, base, "https://shop.example.com/img/lazy.png"},
		{"no base", `<img src="/img/a.png">`, nil, "/img/a.png"},
		{"no image", ``, base, ""},
	}

	f := defaultFields(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := f.Extract(container(t, `<h3>TV</h3>`+tt.inner), tt.base)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.ImageURL)
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", cleanText("  a\n\tb   c "))
	assert.Empty(t, cleanText(" \n "))
}
