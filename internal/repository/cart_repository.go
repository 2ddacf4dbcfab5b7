package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	dbCart, err := r.q.GetCart(ctx, cartID.String())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
		}
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	return r.loadItems(ctx, r.q, dbCart)
}

func (r *cartRepository) GetOrCreateCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	dbCart, err := r.q.UpsertCart(ctx, cartID.String())
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.UpsertCart: %w", err)
	}

	return r.loadItems(ctx, r.q, dbCart)
}

func (r *cartRepository) AddItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (int, error) {
	if cartID == "" {
		return 0, fmt.Errorf("cartID is empty")
	}
	if qty > domain.MaxStock {
		return 0, quantityOverflow(qty)
	}

	return withTx(ctx, r.pool, r.q, writeTx, func(q *db.Queries) (int, error) {
		if _, err := q.UpsertCart(ctx, cartID.String()); err != nil {
			return 0, fmt.Errorf("q.UpsertCart: %w", err)
		}

		quantity, err := q.AddCartItem(ctx, db.AddCartItemParams{
			CartID:    cartID.String(),
			Quantity:  int32(qty),
			ProductID: productID.String(),
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, r.addItemRejection(ctx, q, productID)
			}
			return 0, fmt.Errorf("q.AddCartItem: %w", err)
		}

		if err := q.TouchCart(ctx, cartID.String()); err != nil {
			return 0, fmt.Errorf("q.TouchCart: %w", err)
		}

		return int(quantity), nil
	})
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) error {
	if cartID == "" {
		return fmt.Errorf("cartID is empty")
	}
	if qty > domain.MaxStock {
		return quantityOverflow(qty)
	}

	_, err := withTx(ctx, r.pool, r.q, writeTx, func(q *db.Queries) (struct{}, error) {
		_, err := q.SetCartItemQuantity(ctx, db.SetCartItemQuantityParams{
			Quantity:  int32(qty),
			CartID:    cartID.String(),
			ProductID: productID.String(),
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return struct{}{}, r.setQuantityRejection(ctx, q, cartID, productID)
			}
			return struct{}{}, fmt.Errorf("q.SetCartItemQuantity: %w", err)
		}

		if err := q.TouchCart(ctx, cartID.String()); err != nil {
			return struct{}{}, fmt.Errorf("q.TouchCart: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID) (bool, error) {
	if cartID == "" {
		return false, fmt.Errorf("cartID is empty")
	}

	rowsAffected, err := r.q.DeleteCartItem(ctx, db.DeleteCartItemParams{
		CartID:    cartID.String(),
		ProductID: productID.String(),
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteCartItem: %w", err)
	}

	if rowsAffected > 0 {
		if err := r.q.TouchCart(ctx, cartID.String()); err != nil {
			return true, fmt.Errorf("q.TouchCart: %w", err)
		}
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, cartID domain.CartID) (bool, error) {
	if cartID == "" {
		return false, fmt.Errorf("cartID is empty")
	}

	return withTx(ctx, r.pool, r.q, writeTx, func(q *db.Queries) (bool, error) {
		if _, err := q.GetCart(ctx, cartID.String()); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, nil
			}
			return false, fmt.Errorf("q.GetCart: %w", err)
		}

		if _, err := q.ClearCartItems(ctx, cartID.String()); err != nil {
			return false, fmt.Errorf("q.ClearCartItems: %w", err)
		}

		if err := q.TouchCart(ctx, cartID.String()); err != nil {
			return false, fmt.Errorf("q.TouchCart: %w", err)
		}

		return true, nil
	})
}

func (r *cartRepository) loadItems(ctx context.Context, q *db.Queries, dbCart db.Cart) (domain.Cart, error) {
	rows, err := q.GetCartItems(ctx, dbCart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartItems: %w", err)
	}

	items, err := mapGetCartItemsRowsToDomain(rows)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartItemsRowsToDomain: %w", err)
	}

	return domain.Cart{
		ID:        domain.CartID(dbCart.ID),
		Items:     items,
		CreatedAt: dbCart.CreatedAt,
		UpdatedAt: dbCart.UpdatedAt,
	}, nil
}

// addItemRejection explains why the conditional insert wrote nothing.
func (r *cartRepository) addItemRejection(ctx context.Context, q *db.Queries, productID domain.ProductID) error {
	if _, err := q.GetProduct(ctx, productID.String()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return fmt.Errorf("q.GetProduct: %w", err)
	}
	return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, productID)
}

// setQuantityRejection explains why the conditional update wrote nothing.
func (r *cartRepository) setQuantityRejection(ctx context.Context, q *db.Queries, cartID domain.CartID, productID domain.ProductID) error {
	exists, err := q.CartItemExists(ctx, db.CartItemExistsParams{
		CartID:    cartID.String(),
		ProductID: productID.String(),
	})
	if err != nil {
		return fmt.Errorf("q.CartItemExists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrCartItemNotFound, productID)
	}
	return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, productID)
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) (domain.CartItem, error) {
	parsedCurrency, err := domain.ParseCurrency(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, err
	}

	return domain.CartItem{
		ProductID: domain.ProductID(row.ProductID),
		Name:      row.Name,
		Price:     domain.NewMoney(row.PriceAmount, parsedCurrency),
		ImageURL:  row.ImageUrl,
		Quantity:  int(row.Quantity),
		Stock:     int(row.Stock),
	}, nil
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(rows))

	for _, row := range rows {
		item, err := mapGetCartItemsRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartItemsRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

// quantityOverflow rejects a quantity the int4 column cannot hold. No product stocks that many.
func quantityOverflow(qty int) error {
	return fmt.Errorf("%w: quantity %d exceeds %d", domain.ErrInsufficientStock, qty, domain.MaxStock)
}
