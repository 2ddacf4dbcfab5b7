package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/nikolayk812/storefront/internal/domain"
)

type cartRepository struct {
	s *Store
}

func (r *cartRepository) GetCart(_ context.Context, cartID domain.CartID) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cart, ok := r.s.carts[cartID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}
	return r.s.toDomain(cartID, cart), nil
}

func (r *cartRepository) GetOrCreateCart(_ context.Context, cartID domain.CartID) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.toDomain(cartID, r.s.upsertCart(cartID)), nil
}

func (r *cartRepository) AddItem(_ context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (int, error) {
	if cartID == "" {
		return 0, fmt.Errorf("cartID is empty")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}

	cart, exists := r.s.carts[cartID]
	inCart := 0
	idx := -1
	if exists {
		idx = indexOf(cart.items, productID)
		if idx >= 0 {
			inCart = cart.items[idx].quantity
		}
	}

	merged := inCart + qty
	if qty > p.Stock || merged > p.Stock {
		return 0, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, productID)
	}

	cart = r.s.upsertCart(cartID)
	if idx >= 0 {
		cart.items[idx].quantity = merged
	} else {
		cart.items = append(cart.items, itemRecord{productID: productID, quantity: merged})
	}
	cart.updatedAt = r.s.now()

	return merged, nil
}

func (r *cartRepository) SetItemQuantity(_ context.Context, cartID domain.CartID, productID domain.ProductID, qty int) error {
	if cartID == "" {
		return fmt.Errorf("cartID is empty")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.carts[cartID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCartItemNotFound, productID)
	}
	idx := indexOf(cart.items, productID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrCartItemNotFound, productID)
	}

	p, ok := r.s.products[productID]
	if !ok || p.Stock < qty {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, productID)
	}

	cart.items[idx].quantity = qty
	cart.updatedAt = r.s.now()
	return nil
}

func (r *cartRepository) DeleteItem(_ context.Context, cartID domain.CartID, productID domain.ProductID) (bool, error) {
	if cartID == "" {
		return false, fmt.Errorf("cartID is empty")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.carts[cartID]
	if !ok {
		return false, nil
	}
	idx := indexOf(cart.items, productID)
	if idx < 0 {
		return false, nil
	}

	cart.items = slices.Delete(cart.items, idx, idx+1)
	cart.updatedAt = r.s.now()
	return true, nil
}

func (r *cartRepository) ClearCart(_ context.Context, cartID domain.CartID) (bool, error) {
	if cartID == "" {
		return false, fmt.Errorf("cartID is empty")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.carts[cartID]
	if !ok {
		return false, nil
	}
	cart.items = nil
	cart.updatedAt = r.s.now()
	return true, nil
}

func (s *Store) upsertCart(cartID domain.CartID) *cartRecord {
	cart, ok := s.carts[cartID]
	if !ok {
		now := s.now()
		cart = &cartRecord{createdAt: now, updatedAt: now}
		s.carts[cartID] = cart
	}
	return cart
}

// toDomain joins the stored quantities with the live product fields.
func (s *Store) toDomain(cartID domain.CartID, cart *cartRecord) domain.Cart {
	items := make([]domain.CartItem, 0, len(cart.items))
	for _, rec := range cart.items {
		p, ok := s.products[rec.productID]
		if !ok {
			continue
		}
		items = append(items, domain.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  rec.quantity,
			Stock:     p.Stock,
		})
	}

	return domain.Cart{
		ID:        cartID,
		Items:     items,
		CreatedAt: cart.createdAt,
		UpdatedAt: cart.updatedAt,
	}
}

func indexOf(items []itemRecord, productID domain.ProductID) int {
	return slices.IndexFunc(items, func(item itemRecord) bool {
		return item.productID == productID
	})
}
