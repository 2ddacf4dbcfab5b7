package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/fixtures"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/rs/zerolog"
)

// Catalog reads products from the API and falls back to the embedded sample catalog
// when the API cannot be reached or fails. Rejections such as 404 are returned as is.
type Catalog struct {
	client   *Client
	fallback port.ProductRepository
	logger   zerolog.Logger
}

func NewCatalog(ctx context.Context, client *Client, logger zerolog.Logger) (*Catalog, error) {
	products, err := fixtures.Products()
	if err != nil {
		return nil, fmt.Errorf("fixtures.Products: %w", err)
	}

	fallback := memory.NewStore().Products()
	for _, p := range products {
		if _, err := fallback.CreateProduct(ctx, p); err != nil {
			return nil, fmt.Errorf("fallback.CreateProduct: %w", err)
		}
	}

	return &Catalog{
		client:   client,
		fallback: fallback,
		logger:   logger,
	}, nil
}

func (c *Catalog) List(ctx context.Context, params ListParams) (domain.ProductPage, error) {
	if c.client != nil {
		page, err := c.client.ListProducts(ctx, params)
		if err == nil || !shouldFallBack(err) {
			return page, err
		}
		c.logger.Warn().Err(err).Msg("product list unavailable, using fallback catalog")
	}

	filter := domain.NewProductFilter(params.Page, params.Limit, params.Category, params.Sort, params.Order)
	return c.fallback.ListProducts(ctx, filter)
}

func (c *Catalog) Get(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	if c.client != nil {
		p, err := c.client.GetProduct(ctx, id)
		if err == nil || !shouldFallBack(err) {
			return p, err
		}
		c.logger.Warn().Err(err).Str(logging.ProductID, id.String()).Msg("product unavailable, using fallback catalog")
	}

	return c.fallback.GetProduct(ctx, id)
}

func shouldFallBack(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
