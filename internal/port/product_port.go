package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
	GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id domain.ProductID, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id domain.ProductID) (bool, error)
	// DeleteAllProducts empties the catalog and returns how many products were removed.
	DeleteAllProducts(ctx context.Context) (int64, error)
}
