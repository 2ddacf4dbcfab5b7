package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
)

type productRepository struct {
	s *Store
}

func (r *productRepository) ListProducts(_ context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if filter.Category != "" && string(p.Category) != filter.Category {
			continue
		}
		matched = append(matched, p)
	}

	slices.SortStableFunc(matched, func(a, b domain.Product) int {
		c := compareBy(filter.Sort, a, b)
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		if !filter.Ascending {
			c = -c
		}
		return c
	})

	page := domain.ProductPage{
		Products:   []domain.Product{},
		TotalItems: len(matched),
		Page:       filter.Page,
		Limit:      filter.Limit,
	}

	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	for _, p := range matched[start:end] {
		page.Products = append(page.Products, cloneProduct(p))
	}

	return page, nil
}

func (r *productRepository) GetProduct(_ context.Context, id domain.ProductID) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, fmt.Errorf("productID is empty")
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return cloneProduct(p), nil
}

func (r *productRepository) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; ok {
		return domain.Product{}, fmt.Errorf("product %s already exists", p.ID)
	}

	now := r.s.now()
	p = cloneProduct(p)
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.products[p.ID] = p

	return cloneProduct(p), nil
}

func (r *productRepository) UpdateProduct(_ context.Context, id domain.ProductID, patch domain.ProductPatch) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, fmt.Errorf("productID is empty")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	updated, err := patch.Apply(cloneProduct(current))
	if err != nil {
		return domain.Product{}, err
	}
	updated.UpdatedAt = r.s.now()
	r.s.products[id] = updated

	return cloneProduct(updated), nil
}

func (r *productRepository) DeleteProduct(_ context.Context, id domain.ProductID) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("productID is empty")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	r.s.dropItemsOf(id)

	return true, nil
}

func (r *productRepository) DeleteAllProducts(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.products))
	for id := range r.s.products {
		r.s.dropItemsOf(id)
	}
	clear(r.s.products)

	return n, nil
}

// dropItemsOf mirrors the cascading foreign key of the SQL schema.
func (s *Store) dropItemsOf(id domain.ProductID) {
	for _, cart := range s.carts {
		cart.items = slices.DeleteFunc(cart.items, func(item itemRecord) bool {
			return item.productID == id
		})
	}
}

func compareBy(sort domain.ProductSort, a, b domain.Product) int {
	switch sort {
	case domain.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case domain.SortPrice:
		return a.Price.Amount.Cmp(b.Price.Amount)
	case domain.SortName:
		return strings.Compare(a.Name, b.Name)
	case domain.SortStock:
		return cmp.Compare(a.Stock, b.Stock)
	case domain.SortRating:
		return cmp.Compare(a.Rating, b.Rating)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = append([]string{}, p.Images...)
	if p.Specifications == nil {
		p.Specifications = map[string]string{}
	} else {
		p.Specifications = maps.Clone(p.Specifications)
	}
	return p
}
