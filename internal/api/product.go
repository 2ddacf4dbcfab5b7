package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type ProductDTO struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	Currency       string            `json:"currency"`
	Category       string            `json:"category"`
	ImageURL       string            `json:"imageUrl"`
	Images         []string          `json:"images"`
	Stock          int               `json:"stock"`
	InStock        bool              `json:"inStock"`
	Rating         float64           `json:"rating"`
	Specifications map[string]string `json:"specifications"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// CreateProductRequest is the body of POST /api/products. Price accepts a JSON number or
// a decimal string.
type CreateProductRequest struct {
	Name           string            `json:"name" binding:"required"`
	Description    string            `json:"description" binding:"required"`
	Price          *decimal.Decimal  `json:"price" binding:"required"`
	Currency       string            `json:"currency"`
	Category       string            `json:"category" binding:"required"`
	ImageURL       string            `json:"imageUrl" binding:"required"`
	Images         []string          `json:"images"`
	Stock          *int              `json:"stock" binding:"required"`
	Rating         float64           `json:"rating"`
	Specifications map[string]string `json:"specifications"`
}

// UpdateProductRequest is the body of PUT /api/products/:id. Absent fields are kept.
type UpdateProductRequest struct {
	Name           *string           `json:"name"`
	Description    *string           `json:"description"`
	Price          *decimal.Decimal  `json:"price"`
	Currency       *string           `json:"currency"`
	Category       *string           `json:"category"`
	ImageURL       *string           `json:"imageUrl"`
	Images         []string          `json:"images"`
	Stock          *int              `json:"stock"`
	Rating         *float64          `json:"rating"`
	Specifications map[string]string `json:"specifications"`
}

func FromProduct(p domain.Product) ProductDTO {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	specs := p.Specifications
	if specs == nil {
		specs = map[string]string{}
	}

	return ProductDTO{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.Amount.InexactFloat64(),
		Currency:       p.Price.Currency.String(),
		Category:       string(p.Category),
		ImageURL:       p.ImageURL,
		Images:         images,
		Stock:          p.Stock,
		InStock:        p.InStock(),
		Rating:         p.Rating,
		Specifications: specs,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromProducts(products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, FromProduct(p))
	}
	return dtos
}

func (dto ProductDTO) ToDomain() (domain.Product, error) {
	id, err := domain.ParseProductID(dto.ID)
	if err != nil {
		return domain.Product{}, err
	}

	cur, err := domain.ParseCurrency(dto.Currency)
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:             id,
		Name:           dto.Name,
		Description:    dto.Description,
		Price:          domain.NewMoney(domain.RoundCents(decimal.NewFromFloat(dto.Price)), cur),
		Category:       domain.Category(dto.Category),
		ImageURL:       dto.ImageURL,
		Images:         dto.Images,
		Stock:          dto.Stock,
		Rating:         dto.Rating,
		Specifications: dto.Specifications,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}, nil
}

// ToDomain builds an unsaved product priced in the store currency. A request naming any
// other currency is rejected.
func (r CreateProductRequest) ToDomain(store currency.Unit) (domain.Product, error) {
	cur, err := storeCurrency(r.Currency, store)
	if err != nil {
		return domain.Product{}, err
	}

	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		Name:           strings.TrimSpace(r.Name),
		Description:    strings.TrimSpace(r.Description),
		Price:          domain.NewMoney(*r.Price, cur),
		Category:       category,
		ImageURL:       strings.TrimSpace(r.ImageURL),
		Images:         r.Images,
		Stock:          *r.Stock,
		Rating:         r.Rating,
		Specifications: r.Specifications,
	}, nil
}

// ToPatch converts the request into a patch. Prices stay in the store currency, so carts
// never mix currencies.
func (r UpdateProductRequest) ToPatch(store currency.Unit) (domain.ProductPatch, error) {
	patch := domain.ProductPatch{
		Name:           r.Name,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		Images:         r.Images,
		Stock:          r.Stock,
		Rating:         r.Rating,
		Specifications: r.Specifications,
	}

	if r.Category != nil {
		category, err := domain.ParseCategory(*r.Category)
		if err != nil {
			return domain.ProductPatch{}, err
		}
		patch.Category = &category
	}

	if r.Price != nil || r.Currency != nil {
		code := ""
		if r.Currency != nil {
			code = *r.Currency
		}
		cur, err := storeCurrency(code, store)
		if err != nil {
			return domain.ProductPatch{}, err
		}
		if r.Price == nil {
			return domain.ProductPatch{}, fmt.Errorf("%w: currency cannot change without a price", domain.ErrValidation)
		}
		price := domain.NewMoney(*r.Price, cur)
		patch.Price = &price
	}

	return patch, nil
}

func storeCurrency(code string, store currency.Unit) (currency.Unit, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return store, nil
	}
	cur, err := domain.ParseCurrency(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if cur != store {
		return currency.Unit{}, fmt.Errorf("%w: currency must be %s", domain.ErrValidation, store)
	}
	return cur, nil
}
