package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// CartRepository persists carts. Item reads carry the live catalog name, price, image
// and stock of each product.
type CartRepository interface {
	GetCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error)
	GetOrCreateCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error)

	// AddItem merges qty into the item in one conditional write that only succeeds while
	// the merged quantity stays within the product stock. It returns the new quantity.
	AddItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (int, error)
	// SetItemQuantity is the conditional counterpart of AddItem for an existing item.
	SetItemQuantity(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) error
	DeleteItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID) (bool, error)
	// ClearCart empties the items and reports whether the cart exists.
	ClearCart(ctx context.Context, cartID domain.CartID) (bool, error)
}
