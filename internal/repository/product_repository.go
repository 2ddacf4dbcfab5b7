package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// sortColumns maps list sort keys onto columns; ORDER BY cannot be parameterized.
var sortColumns = map[domain.ProductSort]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
	domain.SortPrice:     "price_amount",
	domain.SortName:      "name",
	domain.SortStock:     "stock",
	domain.SortRating:    "rating",
}

const listProductsQuery = `SELECT id, name, description, price_amount, price_currency, category, image_url, images, stock, rating, specifications, created_at, updated_at
FROM products
WHERE ($1::text = '' OR category = $1::text)
ORDER BY %s %s, id %[2]s
LIMIT $2 OFFSET $3`

type productRepository struct {
	q    *db.Queries
	conn db.DBTX
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q:    db.New(pool),
		conn: pool,
		pool: pool,
	}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q:    db.New(tx),
		conn: tx,
		pool: nil, // use provided transaction instead
	}
}

func (r *productRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	column, ok := sortColumns[filter.Sort]
	if !ok {
		column = sortColumns[domain.SortCreatedAt]
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	rows, err := r.conn.Query(ctx, fmt.Sprintf(listProductsQuery, column, direction),
		filter.Category, filter.Limit, filter.Offset())
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("conn.Query: %w", err)
	}

	dbProducts, err := pgx.CollectRows(rows, pgx.RowToStructByPos[db.Product])
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	total, err := r.q.CountProducts(ctx, filter.Category)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("q.CountProducts: %w", err)
	}

	products, err := mapProductsToDomain(dbProducts)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("mapProductsToDomain: %w", err)
	}

	return domain.ProductPage{
		Products:   products,
		TotalItems: int(total),
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (r *productRepository) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, fmt.Errorf("productID is empty")
	}

	dbProduct, err := r.q.GetProduct(ctx, id.String())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	return mapProductToDomain(dbProduct)
}

func (r *productRepository) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}

	specs, err := marshalSpecifications(p.Specifications)
	if err != nil {
		return domain.Product{}, err
	}

	dbProduct, err := r.q.CreateProduct(ctx, db.CreateProductParams{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		PriceAmount:    p.Price.Amount,
		PriceCurrency:  p.Price.Currency.String(),
		Category:       string(p.Category),
		ImageUrl:       p.ImageURL,
		Images:         nonNilStrings(p.Images),
		Stock:          int32(p.Stock),
		Rating:         p.Rating,
		Specifications: specs,
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.CreateProduct: %w", err)
	}

	return mapProductToDomain(dbProduct)
}

func (r *productRepository) UpdateProduct(ctx context.Context, id domain.ProductID, patch domain.ProductPatch) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, fmt.Errorf("productID is empty")
	}

	return withTx(ctx, r.pool, r.q, writeTx, func(q *db.Queries) (domain.Product, error) {
		dbProduct, err := q.GetProductForUpdate(ctx, id.String())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
			}
			return domain.Product{}, fmt.Errorf("q.GetProductForUpdate: %w", err)
		}

		current, err := mapProductToDomain(dbProduct)
		if err != nil {
			return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
		}

		updated, err := patch.Apply(current)
		if err != nil {
			return domain.Product{}, err
		}

		specs, err := marshalSpecifications(updated.Specifications)
		if err != nil {
			return domain.Product{}, err
		}

		dbProduct, err = q.UpdateProduct(ctx, db.UpdateProductParams{
			ID:             id.String(),
			Name:           updated.Name,
			Description:    updated.Description,
			PriceAmount:    updated.Price.Amount,
			PriceCurrency:  updated.Price.Currency.String(),
			Category:       string(updated.Category),
			ImageUrl:       updated.ImageURL,
			Images:         nonNilStrings(updated.Images),
			Stock:          int32(updated.Stock),
			Rating:         updated.Rating,
			Specifications: specs,
		})
		if err != nil {
			return domain.Product{}, fmt.Errorf("q.UpdateProduct: %w", err)
		}

		return mapProductToDomain(dbProduct)
	})
}

func (r *productRepository) DeleteProduct(ctx context.Context, id domain.ProductID) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("productID is empty")
	}

	rowsAffected, err := r.q.DeleteProduct(ctx, id.String())
	if err != nil {
		return false, fmt.Errorf("q.DeleteProduct: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *productRepository) DeleteAllProducts(ctx context.Context) (int64, error) {
	rowsAffected, err := r.q.DeleteAllProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("q.DeleteAllProducts: %w", err)
	}
	return rowsAffected, nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := domain.ParseCurrency(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, err
	}

	specs := map[string]string{}
	if len(row.Specifications) > 0 {
		if err := json.Unmarshal(row.Specifications, &specs); err != nil {
			return domain.Product{}, fmt.Errorf("specifications[%s]: %w", row.ID, err)
		}
	}

	return domain.Product{
		ID:             domain.ProductID(row.ID),
		Name:           row.Name,
		Description:    row.Description,
		Price:          domain.NewMoney(row.PriceAmount, parsedCurrency),
		Category:       domain.Category(row.Category),
		ImageURL:       row.ImageUrl,
		Images:         nonNilStrings(row.Images),
		Stock:          int(row.Stock),
		Rating:         row.Rating,
		Specifications: specs,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func mapProductsToDomain(rows []db.Product) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))

	for _, row := range rows {
		p, err := mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		products = append(products, p)
	}

	return products, nil
}

func marshalSpecifications(specs map[string]string) ([]byte, error) {
	if specs == nil {
		specs = map[string]string{}
	}
	b, err := json.Marshal(specs)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return b, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
