package memory_test

import (
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func newProduct(stock int, price string) domain.Product {
	return domain.Product{
		ID:          domain.NewProductID(),
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		Category:    domain.CategoryHome,
		ImageURL:    "https://images.example.com/" + gofakeit.UUID() + ".jpg",
		Stock:       stock,
	}
}

func TestCartRepository_AddItem(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	products, carts := store.Products(), store.Carts()

	p, err := products.CreateProduct(ctx, newProduct(5, "2.50"))
	require.NoError(t, err)

	cartID := domain.CartID(gofakeit.UUID())

	qty, err := carts.AddItem(ctx, cartID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	_, err = carts.AddItem(ctx, cartID, p.ID, 3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	qty, err = carts.AddItem(ctx, cartID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	_, err = carts.AddItem(ctx, cartID, domain.NewProductID(), 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	cart, err := carts.GetCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "12.50", cart.Subtotal().StringFixed(2))
}

func TestCartRepository_AddItem_Concurrent(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()

	p, err := store.Products().CreateProduct(ctx, newProduct(3, "1.00"))
	require.NoError(t, err)

	cartID := domain.CartID(gofakeit.UUID())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Carts().AddItem(ctx, cartID, p.ID, 1)
		}()
	}
	wg.Wait()

	cart, err := store.Carts().GetCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartRepository_Mutations(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	products, carts := store.Products(), store.Carts()

	a, err := products.CreateProduct(ctx, newProduct(4, "1.00"))
	require.NoError(t, err)
	b, err := products.CreateProduct(ctx, newProduct(4, "2.00"))
	require.NoError(t, err)

	cartID := domain.CartID(gofakeit.UUID())

	_, err = carts.GetCart(ctx, cartID)
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	existed, err := carts.ClearCart(ctx, cartID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = carts.AddItem(ctx, cartID, a.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, cartID, b.ID, 1)
	require.NoError(t, err)

	require.NoError(t, carts.SetItemQuantity(ctx, cartID, a.ID, 4))
	require.ErrorIs(t, carts.SetItemQuantity(ctx, cartID, a.ID, 5), domain.ErrInsufficientStock)
	require.ErrorIs(t, carts.SetItemQuantity(ctx, cartID, domain.NewProductID(), 1), domain.ErrCartItemNotFound)

	deleted, err := carts.DeleteItem(ctx, cartID, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = carts.DeleteItem(ctx, cartID, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// deleting a product drops it from carts
	removed, err := products.DeleteProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	cart, err := carts.GetCart(ctx, cartID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	existed, err = carts.ClearCart(ctx, cartID)
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestProductRepository_List(t *testing.T) {
	ctx := t.Context()
	products := memory.NewStore().Products()

	for _, price := range []string{"3.00", "1.00", "2.00"} {
		_, err := products.CreateProduct(ctx, newProduct(1, price))
		require.NoError(t, err)
	}

	page, err := products.ListProducts(ctx, domain.NewProductFilter(1, 2, "", "price", "asc"))
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages())
	assert.Equal(t, "1.00", page.Products[0].Price.Amount.StringFixed(2))
	assert.Equal(t, "2.00", page.Products[1].Price.Amount.StringFixed(2))

	page, err = products.ListProducts(ctx, domain.NewProductFilter(1, 10, "Books", "", ""))
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Zero(t, page.TotalItems)
}
