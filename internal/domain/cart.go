package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// StockPolicy decides what a cart mutation does when the requested quantity exceeds
// the stock ceiling.
type StockPolicy int

const (
	// RejectOverStock fails the mutation with a *StockError.
	RejectOverStock StockPolicy = iota
	// ClampToStock lowers the quantity to the ceiling. A ceiling of zero still fails,
	// since an item cannot hold a quantity below one.
	ClampToStock
)

type Cart struct {
	ID    CartID
	Items []CartItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem holds the product fields captured when the item was added or last refreshed.
// Stock is the ceiling the quantity was checked against.
type CartItem struct {
	ProductID ProductID
	Name      string
	Price     Money
	ImageURL  string
	Quantity  int
	Stock     int
}

func NewCart(id CartID) Cart {
	return Cart{ID: id, Items: []CartItem{}}
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Times(i.Quantity).Amount
}

func (i CartItem) InStock() bool {
	return i.Stock >= i.Quantity
}

func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal is recomputed from the items on every call and rounded to cents.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return RoundCents(sum)
}

// Currency returns the currency of the cart items, or fallback for an empty cart.
func (c Cart) Currency(fallback currency.Unit) currency.Unit {
	if len(c.Items) == 0 {
		return fallback
	}
	return c.Items[0].Price.Currency
}

func (c Cart) Item(productID ProductID) (CartItem, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return CartItem{}, false
	}
	return c.Items[idx], true
}

func (c Cart) Clone() Cart {
	clone := c
	clone.Items = append(make([]CartItem, 0, len(c.Items)), c.Items...)
	return clone
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Validate checks the structural invariants: unique products and positive quantities.
func (c Cart) Validate() error {
	seen := make(map[ProductID]struct{}, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			return validationError("cart cannot contain duplicate products: %s", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}

		if item.Quantity < 1 {
			return validationError("quantity of %s must be at least 1", item.ProductID)
		}
	}
	return nil
}

// Add merges qty units of p into the cart. An existing item keeps its position, takes the
// summed quantity and picks up the current name, price, image and stock of p.
func (c *Cart) Add(p Product, qty int, policy StockPolicy) error {
	if qty < 1 {
		return validationError("quantity must be a positive integer")
	}
	if p.ID == "" {
		return validationError("product id is empty")
	}
	if err := c.checkCurrency(p); err != nil {
		return err
	}

	idx := c.indexOf(p.ID)

	inCart := 0
	if idx >= 0 {
		inCart = c.Items[idx].Quantity
	}

	if qty > p.Stock && (policy == RejectOverStock || p.Stock < 1) {
		return &StockError{ProductID: p.ID, Available: p.Stock}
	}

	want := inCart + qty
	if want > p.Stock {
		if policy == RejectOverStock {
			return &StockError{ProductID: p.ID, Available: p.Stock, InCart: inCart}
		}
		want = p.Stock
	}

	item := CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  want,
		Stock:     p.Stock,
	}

	if idx >= 0 {
		c.Items[idx] = item
	} else {
		c.Items = append(c.Items, item)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing item, checked against the item's
// stock ceiling. Callers that need a live ceiling Refresh the item first.
func (c *Cart) UpdateQuantity(productID ProductID, qty int, policy StockPolicy) error {
	if qty < 1 {
		return validationError("quantity must be a positive integer")
	}

	idx := c.indexOf(productID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrCartItemNotFound, productID)
	}

	ceiling := c.Items[idx].Stock
	if qty > ceiling {
		if policy == RejectOverStock || ceiling < 1 {
			return &StockError{ProductID: productID, Available: ceiling}
		}
		qty = ceiling
	}

	c.Items[idx].Quantity = qty
	return nil
}

// Refresh copies the current catalog state of p onto its item, if p is in the cart.
func (c *Cart) Refresh(p Product) bool {
	idx := c.indexOf(p.ID)
	if idx < 0 {
		return false
	}

	item := &c.Items[idx]
	item.Name = p.Name
	item.Price = p.Price
	item.ImageURL = p.ImageURL
	item.Stock = p.Stock
	return true
}

// Remove drops the item for productID and reports whether it was present.
func (c *Cart) Remove(productID ProductID) bool {
	idx := c.indexOf(productID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx:idx], c.Items[idx+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

func (c Cart) indexOf(productID ProductID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) checkCurrency(p Product) error {
	for _, item := range c.Items {
		if item.ProductID == p.ID {
			continue
		}
		if item.Price.Currency != p.Price.Currency {
			return validationError("cart currency %s does not match product currency %s",
				item.Price.Currency, p.Price.Currency)
		}
	}
	return nil
}
