// Package memory keeps products and carts in process memory. It backs STORE_DRIVER=memory
// and the service and HTTP tests.
package memory

import (
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type cartRecord struct {
	items     []itemRecord
	createdAt time.Time
	updatedAt time.Time
}

type itemRecord struct {
	productID domain.ProductID
	quantity  int
}

// Store holds both collections behind one lock so that a cart write can check the
// product stock it depends on without another writer interleaving.
type Store struct {
	mu       sync.RWMutex
	products map[domain.ProductID]domain.Product
	carts    map[domain.CartID]*cartRecord
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		products: make(map[domain.ProductID]domain.Product),
		carts:    make(map[domain.CartID]*cartRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Products() port.ProductRepository {
	return &productRepository{s: s}
}

func (s *Store) Carts() port.CartRepository {
	return &cartRepository{s: s}
}
