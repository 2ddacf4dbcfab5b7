package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
)

// CartService is the server side of the cart: every mutation re-reads the authoritative
// product, previews the change with RejectOverStock and then commits it with the
// repository's conditional write.
type CartService struct {
	carts    port.CartRepository
	products port.ProductRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewCart(carts port.CartRepository, products port.ProductRepository, m *metrics.Metrics, logger zerolog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		metrics:  m,
		logger:   logging.For(logger, "cart_service"),
	}
}

// Get returns the cart, creating an empty one on first access.
func (s *CartService) Get(ctx context.Context, cartID domain.CartID) (domain.Cart, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetOrCreateCart: %w", err)
	}
	return cart, nil
}

func (s *CartService) Add(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (_ domain.Cart, err error) {
	defer func() { s.record("add", cartID, productID, err) }()

	if qty < 1 {
		return domain.Cart{}, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	cart, err := s.carts.GetOrCreateCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetOrCreateCart: %w", err)
	}

	preview := cart.Clone()
	if err := preview.Add(p, qty, domain.RejectOverStock); err != nil {
		return domain.Cart{}, err
	}

	if _, err := s.carts.AddItem(ctx, cartID, productID, qty); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return domain.Cart{}, s.stockError(ctx, cartID, productID, err)
		}
		return domain.Cart{}, fmt.Errorf("carts.AddItem: %w", err)
	}

	return s.reload(ctx, cartID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (_ domain.Cart, err error) {
	defer func() { s.record("update", cartID, productID, err) }()

	if qty < 1 {
		return domain.Cart{}, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}
	if _, ok := cart.Item(productID); !ok {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrCartItemNotFound, productID)
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	preview := cart.Clone()
	preview.Refresh(p)
	if err := preview.UpdateQuantity(productID, qty, domain.RejectOverStock); err != nil {
		return domain.Cart{}, err
	}

	if err := s.carts.SetItemQuantity(ctx, cartID, productID, qty); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return domain.Cart{}, s.stockError(ctx, cartID, productID, err)
		}
		return domain.Cart{}, fmt.Errorf("carts.SetItemQuantity: %w", err)
	}

	return s.reload(ctx, cartID)
}

// Remove fails with ErrCartItemNotFound when the product is not in the cart.
func (s *CartService) Remove(ctx context.Context, cartID domain.CartID, productID domain.ProductID) (_ domain.Cart, err error) {
	defer func() { s.record("remove", cartID, productID, err) }()

	if _, err := s.carts.GetCart(ctx, cartID); err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	deleted, err := s.carts.DeleteItem(ctx, cartID, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.DeleteItem: %w", err)
	}
	if !deleted {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrCartItemNotFound, productID)
	}

	return s.reload(ctx, cartID)
}

// Clear empties the items and keeps the cart record.
func (s *CartService) Clear(ctx context.Context, cartID domain.CartID) (_ domain.Cart, err error) {
	defer func() { s.record("clear", cartID, "", err) }()

	existed, err := s.carts.ClearCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.ClearCart: %w", err)
	}
	if !existed {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}

	return s.reload(ctx, cartID)
}

func (s *CartService) reload(ctx context.Context, cartID domain.CartID) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}
	return cart, nil
}

// stockError turns a rejected conditional write into a *StockError with the stock and
// in-cart quantity as they are now. A concurrent writer won the race in this case.
func (s *CartService) stockError(ctx context.Context, cartID domain.CartID, productID domain.ProductID, cause error) error {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("products.GetProduct: %w", err))
	}

	inCart := 0
	if cart, err := s.carts.GetCart(ctx, cartID); err == nil {
		if item, ok := cart.Item(productID); ok {
			inCart = item.Quantity
		}
	}

	s.logger.Warn().
		Str(logging.CartID, cartID.String()).
		Str(logging.ProductID, productID.String()).
		Int("stock", p.Stock).
		Int("in_cart", inCart).
		Msg("conditional cart write rejected")

	return &domain.StockError{ProductID: productID, Available: p.Stock, InCart: inCart}
}

func (s *CartService) record(op string, cartID domain.CartID, productID domain.ProductID, err error) {
	result := resultOf(err)
	s.metrics.CartOp(op, result)

	event := s.logger.Debug()
	if result == metrics.ResultError {
		event = s.logger.Error().Err(err)
	}
	event.
		Str(logging.Op, op).
		Str(logging.CartID, cartID.String()).
		Str(logging.ProductID, productID.String()).
		Str("result", result).
		Msg("cart operation")
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ResultInsufficient
	case domain.IsNotFound(err):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidID):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
