package api

import (
	"bytes"
	"fmt"
	"math"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type CartDTO struct {
	CartID     string        `json:"cartId"`
	Items      []CartItemDTO `json:"items"`
	TotalItems int           `json:"totalItems"`
	Subtotal   float64       `json:"subtotal"`
	Currency   string        `json:"currency"`
}

// CartItemDTO carries the live catalog fields of the product. Subtotal is the line total.
type CartItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
	Subtotal  float64 `json:"subtotal"`
	InStock   bool    `json:"inStock"`
}

type AddToCartRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	Quantity  Quantity `json:"quantity" binding:"required"`
}

type UpdateCartItemRequest struct {
	Quantity Quantity `json:"quantity" binding:"required"`
}

// Quantity decodes any integral JSON number, so 2 and 2.0 are the same quantity.
type Quantity int

var maxQuantity = decimal.NewFromInt(math.MaxInt32)

func (q *Quantity) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	d, err := decimal.NewFromString(string(b))
	if err != nil || !d.IsInteger() || d.Abs().GreaterThan(maxQuantity) {
		return fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	*q = Quantity(d.IntPart())
	return nil
}

// FromCart computes the totals from the items; they are never stored.
func FromCart(c domain.Cart, fallback currency.Unit) CartDTO {
	items := make([]CartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemDTO{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Price:     item.Price.Amount.InexactFloat64(),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
			Subtotal:  domain.RoundCents(item.LineTotal()).InexactFloat64(),
			InStock:   item.InStock(),
		})
	}

	return CartDTO{
		CartID:     c.ID.String(),
		Items:      items,
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal().InexactFloat64(),
		Currency:   c.Currency(fallback).String(),
	}
}

// ToDomain rebuilds the cart the server returned, preserving item order.
func (dto CartDTO) ToDomain() (domain.Cart, error) {
	cartID, err := domain.ParseCartID(dto.CartID)
	if err != nil {
		return domain.Cart{}, err
	}

	cur, err := domain.ParseCurrency(dto.Currency)
	if err != nil {
		return domain.Cart{}, err
	}

	cart := domain.NewCart(cartID)
	for _, item := range dto.Items {
		productID, err := domain.ParseProductID(item.ProductID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("item %q: %w", item.ProductID, err)
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Name:      item.Name,
			Price:     domain.NewMoney(domain.RoundCents(decimal.NewFromFloat(item.Price)), cur),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
		})
	}

	if err := cart.Validate(); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}
