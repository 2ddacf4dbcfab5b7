package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type productRepositorySuite struct {
	suite.Suite

	repo port.ProductRepository
	pool *pgxpool.Pool
}

func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

func (suite *productRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewProduct(suite.pool)
}

func (suite *productRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *productRepositorySuite) TestCreateProduct() {
	defer suite.deleteAll()

	invalid := randomProduct(1)
	invalid.ImageURL = "ftp://images.example.com/x.jpg"

	noID := randomProduct(1)
	noID.ID = ""

	tests := []struct {
		name      string
		product   domain.Product
		wantError error
	}{
		{
			name:    "create product: ok",
			product: randomProduct(gofakeit.IntRange(0, 50)),
		},
		{
			name: "create product without specifications: ok",
			product: func() domain.Product {
				p := randomProduct(3)
				p.Specifications = nil
				p.Images = nil
				return p
			}(),
		},
		{
			name:      "invalid image url: error",
			product:   invalid,
			wantError: domain.ErrValidation,
		},
		{
			name:      "missing id: error",
			product:   noID,
			wantError: domain.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			created, err := suite.repo.CreateProduct(ctx, tt.product)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.False(t, created.CreatedAt.IsZero())

			actual, err := suite.repo.GetProduct(ctx, tt.product.ID)
			require.NoError(t, err)

			expected := tt.product
			if expected.Specifications == nil {
				expected.Specifications = map[string]string{}
			}
			if expected.Images == nil {
				expected.Images = []string{}
			}
			assertProduct(t, expected, actual)
		})
	}
}

func (suite *productRepositorySuite) TestGetProduct() {
	t := suite.T()
	ctx := t.Context()

	_, err := suite.repo.GetProduct(ctx, domain.NewProductID())
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = suite.repo.GetProduct(ctx, "")
	require.EqualError(t, err, "productID is empty")
}

func (suite *productRepositorySuite) TestUpdateProduct() {
	defer suite.deleteAll()

	name := gofakeit.ProductName()
	stock := 42
	price := domain.NewMoney(decimal.RequireFromString("19.99"), currency.USD)
	badRating := 7.5

	tests := []struct {
		name      string
		patch     domain.ProductPatch
		check     func(t *testing.T, original, updated domain.Product)
		wantError error
	}{
		{
			name:  "update name and stock: ok",
			patch: domain.ProductPatch{Name: &name, Stock: &stock},
			check: func(t *testing.T, original, updated domain.Product) {
				assert.Equal(t, name, updated.Name)
				assert.Equal(t, stock, updated.Stock)
				assert.Equal(t, original.Description, updated.Description)
				assert.True(t, original.Price.Amount.Equal(updated.Price.Amount))
			},
		},
		{
			name:  "update price and specifications: ok",
			patch: domain.ProductPatch{Price: &price, Specifications: map[string]string{"size": "XL"}},
			check: func(t *testing.T, original, updated domain.Product) {
				assert.Equal(t, "19.99", updated.Price.Amount.StringFixed(2))
				assert.Equal(t, map[string]string{"size": "XL"}, updated.Specifications)
				assert.Equal(t, original.Name, updated.Name)
				assert.False(t, updated.UpdatedAt.Before(original.UpdatedAt))
			},
		},
		{
			name:      "rating out of range: error",
			patch:     domain.ProductPatch{Rating: &badRating},
			wantError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			original, err := suite.repo.CreateProduct(ctx, randomProduct(5))
			require.NoError(t, err)

			updated, err := suite.repo.UpdateProduct(ctx, original.ID, tt.patch)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)

				stored, err := suite.repo.GetProduct(ctx, original.ID)
				require.NoError(t, err)
				assertProduct(t, original, stored)
				return
			}
			require.NoError(t, err)
			tt.check(t, original, updated)

			stored, err := suite.repo.GetProduct(ctx, original.ID)
			require.NoError(t, err)
			assertProduct(t, updated, stored)
		})
	}

	suite.Run("unknown product: not found", func() {
		_, err := suite.repo.UpdateProduct(suite.T().Context(), domain.NewProductID(), domain.ProductPatch{Stock: &stock})
		suite.ErrorIs(err, domain.ErrProductNotFound)
	})
}

func (suite *productRepositorySuite) TestDeleteProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p, err := suite.repo.CreateProduct(ctx, randomProduct(1))
	require.NoError(t, err)

	deleted, err := suite.repo.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = suite.repo.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = suite.repo.GetProduct(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func (suite *productRepositorySuite) TestListProducts() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	const total = 7
	var books int
	for i := 0; i < total; i++ {
		p := randomProduct(i)
		p.Price = domain.NewMoney(decimal.NewFromInt(int64(10+i)), currency.USD)
		p.Category = domain.CategoryElectronics
		if i%3 == 0 {
			p.Category = domain.CategoryBooks
			books++
		}
		_, err := suite.repo.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		filter     domain.ProductFilter
		wantLen    int
		wantTotal  int
		wantPages  int
		wantPrices []string
	}{
		{
			name:       "first page by price asc: ok",
			filter:     domain.NewProductFilter(1, 3, "", "price", "asc"),
			wantLen:    3,
			wantTotal:  total,
			wantPages:  3,
			wantPrices: []string{"10.00", "11.00", "12.00"},
		},
		{
			name:       "last page by price asc: ok",
			filter:     domain.NewProductFilter(3, 3, "", "price", "asc"),
			wantLen:    1,
			wantTotal:  total,
			wantPages:  3,
			wantPrices: []string{"16.00"},
		},
		{
			name:       "by price desc: ok",
			filter:     domain.NewProductFilter(1, 2, "", "price", "desc"),
			wantLen:    2,
			wantTotal:  total,
			wantPages:  4,
			wantPrices: []string{"16.00", "15.00"},
		},
		{
			name:      "category filter: ok",
			filter:    domain.NewProductFilter(1, 20, "Books", "", ""),
			wantLen:   books,
			wantTotal: books,
			wantPages: 1,
		},
		{
			name:      "page past the end: ok",
			filter:    domain.NewProductFilter(9, 20, "", "", ""),
			wantLen:   0,
			wantTotal: total,
			wantPages: 1,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			page, err := suite.repo.ListProducts(t.Context(), tt.filter)
			require.NoError(t, err)

			require.Len(t, page.Products, tt.wantLen)
			assert.Equal(t, tt.wantTotal, page.TotalItems)
			assert.Equal(t, tt.wantPages, page.TotalPages())

			if tt.wantPrices != nil {
				var prices []string
				for _, p := range page.Products {
					prices = append(prices, p.Price.Amount.StringFixed(2))
				}
				assert.Equal(t, tt.wantPrices, prices)
			}
		})
	}
}

func (suite *productRepositorySuite) TestDeleteAllProducts() {
	t := suite.T()
	ctx := t.Context()

	n := gofakeit.IntRange(1, 5)
	for i := 0; i < n; i++ {
		_, err := suite.repo.CreateProduct(ctx, randomProduct(1))
		require.NoError(t, err)
	}

	deleted, err := suite.repo.DeleteAllProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, n, deleted)

	page, err := suite.repo.ListProducts(ctx, domain.NewProductFilter(1, 10, "", "", ""))
	require.NoError(t, err)
	assert.Zero(t, page.TotalItems)
}

func (suite *productRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_items, carts, products CASCADE")
	suite.NoError(err)
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})
	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})
	approxTime := cmpopts.EquateApproxTime(time.Millisecond)

	opts := []cmp.Option{currencyComparer, decimalComparer}
	if expected.CreatedAt.IsZero() {
		opts = append(opts, cmpopts.IgnoreFields(domain.Product{}, "CreatedAt", "UpdatedAt"))
	} else {
		opts = append(opts, approxTime)
	}

	diff := cmp.Diff(expected, actual, opts...)
	assert.Empty(t, diff)
}
