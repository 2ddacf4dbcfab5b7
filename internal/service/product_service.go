package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
)

type ProductService struct {
	products port.ProductRepository
	logger   zerolog.Logger
}

func NewProduct(products port.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		logger:   logging.For(logger, "product_service"),
	}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	page, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("products.ListProducts: %w", err)
	}
	return page, nil
}

func (s *ProductService) Get(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}
	return p, nil
}

// Create assigns a fresh id unless the caller supplied one.
func (s *ProductService) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = domain.NewProductID()
	}

	created, err := s.products.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.CreateProduct: %w", err)
	}

	s.logger.Info().Str(logging.ProductID, created.ID.String()).Msg("product created")
	return created, nil
}

// Update applies a partial patch. An empty patch returns the product unchanged.
func (s *ProductService) Update(ctx context.Context, id domain.ProductID, patch domain.ProductPatch) (domain.Product, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	updated, err := s.products.UpdateProduct(ctx, id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.UpdateProduct: %w", err)
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id domain.ProductID) error {
	deleted, err := s.products.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("products.DeleteProduct: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	s.logger.Info().Str(logging.ProductID, id.String()).Msg("product deleted")
	return nil
}

// Seed loads a catalog. With reset the existing products are deleted first, which also
// drops them from every cart.
func (s *ProductService) Seed(ctx context.Context, products []domain.Product, reset bool) (int, error) {
	if reset {
		removed, err := s.products.DeleteAllProducts(ctx)
		if err != nil {
			return 0, fmt.Errorf("products.DeleteAllProducts: %w", err)
		}
		s.logger.Info().Int64("removed", removed).Msg("catalog cleared")
	}

	for i, p := range products {
		if _, err := s.products.CreateProduct(ctx, p); err != nil {
			return i, fmt.Errorf("products.CreateProduct[%s]: %w", p.ID, err)
		}
	}

	s.logger.Info().Int("inserted", len(products)).Msg("catalog seeded")
	return len(products), nil
}
