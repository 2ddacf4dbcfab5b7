package fixtures_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestProducts(t *testing.T) {
	products, err := fixtures.Products()
	require.NoError(t, err)
	require.NotEmpty(t, products)

	first := products[0]
	assert.Equal(t, domain.ProductID("665f1c2a9b1e8a0001a1b001"), first.ID)
	assert.Equal(t, "99.99", first.Price.Amount.StringFixed(2))
	assert.Equal(t, currency.USD, first.Price.Currency)
	assert.Len(t, first.Images, 2)

	var outOfStock int
	for _, p := range products {
		assert.NotEmpty(t, p.Images, p.ID)
		if !p.InStock() {
			outOfStock++
		}
	}
	assert.Equal(t, 1, outOfStock)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError string
	}{
		{
			name: "minimal: ok",
			doc: `
currency: EUR
products:
  - id: 665f1c2a9b1e8a0001a1c001
    name: Mug
    description: Ceramic mug
    price: "7.25"
    category: Home
    imageUrl: https://images.example.com/mug.jpg
    stock: 3
`,
		},
		{
			name: "unknown field: error",
			doc: `
currency: EUR
products:
  - id: 665f1c2a9b1e8a0001a1c001
    colour: red
`,
			wantError: "decoder.Decode",
		},
		{
			name: "bad id: error",
			doc: `
currency: EUR
products:
  - id: "42"
`,
			wantError: "products[0]: invalid id format",
		},
		{
			name: "bad category: error",
			doc: `
currency: EUR
products:
  - id: 665f1c2a9b1e8a0001a1c001
    name: Mug
    description: Ceramic mug
    price: "7.25"
    category: Garden
    imageUrl: https://images.example.com/mug.jpg
`,
			wantError: "products[0]: validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := fixtures.Parse([]byte(tt.doc))
			if tt.wantError != "" {
				require.ErrorContains(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, currency.EUR, products[0].Price.Currency)
		})
	}
}
