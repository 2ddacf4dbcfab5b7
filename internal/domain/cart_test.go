package domain_test

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCart_Add(t *testing.T) {
	p := product("10.00", 5)

	tests := []struct {
		name      string
		adds      []int
		policy    domain.StockPolicy
		wantQty   int
		wantError error
		wantMsg   string
	}{
		{
			name:    "single add within stock: ok",
			adds:    []int{3},
			policy:  domain.RejectOverStock,
			wantQty: 3,
		},
		{
			name:    "merge within stock: ok",
			adds:    []int{2, 3},
			policy:  domain.RejectOverStock,
			wantQty: 5,
		},
		{
			name:      "merge over stock, reject: error",
			adds:      []int{3, 4},
			policy:    domain.RejectOverStock,
			wantQty:   3,
			wantError: domain.ErrInsufficientStock,
			wantMsg:   "Only 5 items available. You already have 3 in cart.",
		},
		{
			name:    "merge over stock, clamp: ok",
			adds:    []int{3, 4},
			policy:  domain.ClampToStock,
			wantQty: 5,
		},
		{
			name:      "first add over stock, reject: error",
			adds:      []int{6},
			policy:    domain.RejectOverStock,
			wantError: domain.ErrInsufficientStock,
			wantMsg:   "Only 5 items available in stock",
		},
		{
			name:    "first add over stock, clamp: ok",
			adds:    []int{6},
			policy:  domain.ClampToStock,
			wantQty: 5,
		},
		{
			name:      "zero quantity: error",
			adds:      []int{0},
			policy:    domain.ClampToStock,
			wantError: domain.ErrValidation,
		},
		{
			name:      "negative quantity: error",
			adds:      []int{-2},
			policy:    domain.RejectOverStock,
			wantError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart("session-1")

			var err error
			for _, qty := range tt.adds {
				err = cart.Add(p, qty, tt.policy)
			}

			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}
			} else {
				require.NoError(t, err)
			}

			if tt.wantQty == 0 {
				assert.Empty(t, cart.Items)
				return
			}
			require.Len(t, cart.Items, 1)
			assert.Equal(t, tt.wantQty, cart.Items[0].Quantity)
			assert.Equal(t, tt.wantQty, cart.TotalItems())
		})
	}
}

func TestCart_Add_StockErrorDetail(t *testing.T) {
	p := product("1.00", 4)
	cart := domain.NewCart("session-1")
	require.NoError(t, cart.Add(p, 3, domain.RejectOverStock))

	err := cart.Add(p, 2, domain.RejectOverStock)

	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 3, stockErr.InCart)
}

func TestCart_Add_ClampWithoutStock(t *testing.T) {
	cart := domain.NewCart("session-1")

	err := cart.Add(product("3.50", 0), 1, domain.ClampToStock)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, cart.Items)
}

func TestCart_Add_RefreshesSnapshot(t *testing.T) {
	p := product("2.00", 10)
	cart := domain.NewCart("session-1")
	require.NoError(t, cart.Add(p, 1, domain.RejectOverStock))

	p.Price.Amount = decimal.RequireFromString("2.50")
	p.Name = "renamed"
	p.Stock = 7
	require.NoError(t, cart.Add(p, 1, domain.RejectOverStock))

	item, ok := cart.Item(p.ID)
	require.True(t, ok)
	assert.Equal(t, "renamed", item.Name)
	assert.Equal(t, 7, item.Stock)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "5", cart.Subtotal().String())
}

func TestCart_Add_CurrencyMismatch(t *testing.T) {
	usd := product("1.00", 5)
	eur := product("1.00", 5)
	eur.Price.Currency = currency.EUR

	cart := domain.NewCart("session-1")
	require.NoError(t, cart.Add(usd, 1, domain.RejectOverStock))

	err := cart.Add(eur, 1, domain.RejectOverStock)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, cart.Items, 1)
}

func TestCart_Add_DistinctProducts(t *testing.T) {
	cart := domain.NewCart("session-1")

	n := gofakeit.IntRange(1, 20)
	wantTotal := 0
	for i := 0; i < n; i++ {
		qty := gofakeit.IntRange(1, 10)
		wantTotal += qty
		require.NoError(t, cart.Add(product("1.99", 10), qty, domain.RejectOverStock))
	}

	assert.Len(t, cart.Items, n)
	assert.Equal(t, wantTotal, cart.TotalItems())
	assert.NoError(t, cart.Validate())
}

func TestCart_Add_KeepsInsertionOrder(t *testing.T) {
	a, b, c := product("1.00", 9), product("2.00", 9), product("3.00", 9)
	cart := domain.NewCart("session-1")

	require.NoError(t, cart.Add(a, 1, domain.RejectOverStock))
	require.NoError(t, cart.Add(b, 1, domain.RejectOverStock))
	require.NoError(t, cart.Add(c, 1, domain.RejectOverStock))
	require.NoError(t, cart.Add(a, 1, domain.RejectOverStock))

	require.Len(t, cart.Items, 3)
	assert.Equal(t, []domain.ProductID{a.ID, b.ID, c.ID}, productIDs(cart))
}

func TestCart_UpdateQuantity(t *testing.T) {
	p := product("4.00", 5)

	tests := []struct {
		name      string
		productID domain.ProductID
		qty       int
		policy    domain.StockPolicy
		wantQty   int
		wantError error
	}{
		{
			name:      "within stock: ok",
			productID: p.ID,
			qty:       4,
			policy:    domain.RejectOverStock,
			wantQty:   4,
		},
		{
			name:      "over stock, reject: error",
			productID: p.ID,
			qty:       6,
			policy:    domain.RejectOverStock,
			wantQty:   2,
			wantError: domain.ErrInsufficientStock,
		},
		{
			name:      "over stock, clamp: ok",
			productID: p.ID,
			qty:       60,
			policy:    domain.ClampToStock,
			wantQty:   5,
		},
		{
			name:      "zero quantity: error",
			productID: p.ID,
			qty:       0,
			policy:    domain.RejectOverStock,
			wantQty:   2,
			wantError: domain.ErrValidation,
		},
		{
			name:      "absent item: not found",
			productID: domain.NewProductID(),
			qty:       1,
			policy:    domain.RejectOverStock,
			wantQty:   2,
			wantError: domain.ErrCartItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart("session-1")
			require.NoError(t, cart.Add(p, 2, domain.RejectOverStock))

			err := cart.UpdateQuantity(tt.productID, tt.qty, tt.policy)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
			}

			item, ok := cart.Item(p.ID)
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, item.Quantity)
		})
	}
}

func TestCart_UpdateQuantity_AfterRefresh(t *testing.T) {
	p := product("4.00", 5)
	cart := domain.NewCart("session-1")
	require.NoError(t, cart.Add(p, 2, domain.RejectOverStock))

	p.Stock = 3
	require.True(t, cart.Refresh(p))

	err := cart.UpdateQuantity(p.ID, 4, domain.RejectOverStock)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualError(t, err, "Only 3 items available in stock")
}

func TestCart_Remove(t *testing.T) {
	a, b := product("1.00", 3), product("2.00", 3)
	cart := domain.NewCart("session-1")
	require.NoError(t, cart.Add(a, 1, domain.RejectOverStock))
	require.NoError(t, cart.Add(b, 2, domain.RejectOverStock))

	clone := cart.Clone()

	assert.True(t, cart.Remove(a.ID))
	assert.False(t, cart.Remove(a.ID))
	assert.Equal(t, []domain.ProductID{b.ID}, productIDs(cart))
	assert.Equal(t, 2, cart.TotalItems())

	// the clone taken before the removal is untouched
	assert.Equal(t, []domain.ProductID{a.ID, b.ID}, productIDs(clone))
}

func TestCart_Clear(t *testing.T) {
	cart := domain.NewCart("session-1")
	n := gofakeit.IntRange(0, 5)
	for i := 0; i < n; i++ {
		require.NoError(t, cart.Add(product("9.99", 10), 2, domain.RejectOverStock))
	}

	cart.Clear()

	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems())
	assert.True(t, cart.Subtotal().IsZero())
}

func TestCart_Subtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.CartItem
		want  string
	}{
		{
			name: "mixed prices: ok",
			items: []domain.CartItem{
				item("9.99", 2),
				item("0.02", 1),
			},
			want: "20.00",
		},
		{
			name:  "empty cart: ok",
			items: nil,
			want:  "0.00",
		},
		{
			name: "many items: ok",
			items: []domain.CartItem{
				item("0.01", 100),
				item("19.95", 3),
				item("1.10", 7),
			},
			want: "68.55",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.Cart{Items: tt.items}
			assert.Equal(t, tt.want, cart.Subtotal().StringFixed(2))
		})
	}
}

func TestCart_Validate(t *testing.T) {
	dup := item("1.00", 1)

	err := domain.Cart{Items: []domain.CartItem{dup, dup}}.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)

	err = domain.Cart{Items: []domain.CartItem{item("1.00", 0)}}.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, domain.Cart{Items: []domain.CartItem{item("1.00", 1)}}.Validate())
}

// product A {price 10.00, stock 2}: add, add, add, remove under both policies.
func TestCart_Scenario(t *testing.T) {
	a := product("10.00", 2)

	for _, policy := range []domain.StockPolicy{domain.RejectOverStock, domain.ClampToStock} {
		cart := domain.NewCart("session-1")

		require.NoError(t, cart.Add(a, 1, policy))
		assert.Equal(t, 1, cart.TotalItems())
		assert.Equal(t, "10.00", cart.Subtotal().StringFixed(2))

		require.NoError(t, cart.Add(a, 1, policy))
		assert.Equal(t, 2, cart.TotalItems())
		assert.Equal(t, "20.00", cart.Subtotal().StringFixed(2))

		err := cart.Add(a, 1, policy)
		if policy == domain.RejectOverStock {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		} else {
			require.NoError(t, err)
		}
		assert.Equal(t, 2, cart.TotalItems())

		assert.True(t, cart.Remove(a.ID))
		assert.True(t, cart.IsEmpty())
		assert.True(t, cart.Subtotal().IsZero())
	}
}

func product(price string, stock int) domain.Product {
	return domain.Product{
		ID:          domain.NewProductID(),
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		Category:    domain.CategoryOther,
		ImageURL:    gofakeit.URL(),
		Stock:       stock,
	}
}

func item(price string, qty int) domain.CartItem {
	return domain.CartItem{
		ProductID: domain.NewProductID(),
		Name:      gofakeit.ProductName(),
		Price:     domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		Quantity:  qty,
		Stock:     qty,
	}
}

func productIDs(cart domain.Cart) []domain.ProductID {
	ids := make([]domain.ProductID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
