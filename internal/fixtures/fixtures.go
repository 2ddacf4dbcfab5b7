// Package fixtures embeds the sample catalog.
package fixtures

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

type catalogFile struct {
	Currency string        `yaml:"currency"`
	Products []productYAML `yaml:"products"`
}

type productYAML struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	Price          string            `yaml:"price"`
	Category       string            `yaml:"category"`
	ImageURL       string            `yaml:"imageUrl"`
	Images         []string          `yaml:"images,omitempty"`
	Stock          int               `yaml:"stock"`
	Rating         float64           `yaml:"rating"`
	Specifications map[string]string `yaml:"specifications,omitempty"`
}

// Products returns the embedded catalog, validated.
func Products() ([]domain.Product, error) {
	return Parse(productsYAML)
}

// Load reads a catalog file in the same format as the embedded one.
func Load(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. Unknown fields are rejected.
func Parse(data []byte) ([]domain.Product, error) {
	var file catalogFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoder.Decode: %w", err)
	}

	cur, err := domain.ParseCurrency(file.Currency)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(file.Products))
	seen := make(map[domain.ProductID]struct{}, len(file.Products))

	for i, raw := range file.Products {
		id, err := domain.ParseProductID(raw.ID)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("products[%d]: duplicate id %s", i, id)
		}
		seen[id] = struct{}{}

		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			return nil, fmt.Errorf("products[%d].price: %w", i, err)
		}

		p := domain.Product{
			ID:             id,
			Name:           raw.Name,
			Description:    raw.Description,
			Price:          domain.NewMoney(price, cur),
			Category:       domain.Category(raw.Category),
			ImageURL:       raw.ImageURL,
			Images:         raw.Images,
			Stock:          raw.Stock,
			Rating:         raw.Rating,
			Specifications: raw.Specifications,
		}
		if len(p.Images) == 0 {
			p.Images = []string{p.ImageURL}
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}

		products = append(products, p)
	}

	return products, nil
}
