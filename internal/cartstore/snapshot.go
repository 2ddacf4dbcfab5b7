package cartstore

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type snapshot struct {
	ID        string         `json:"id"`
	Items     []snapshotItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type snapshotItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
}

func encodeCart(c domain.Cart) ([]byte, error) {
	s := snapshot{
		ID:        c.ID.String(),
		Items:     make([]snapshotItem, 0, len(c.Items)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, item := range c.Items {
		s.Items = append(s.Items, snapshotItem{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Price:     item.Price.Amount,
			Currency:  item.Price.Currency.String(),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
		})
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return data, nil
}

func decodeCart(data []byte) (domain.Cart, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	id, err := domain.ParseCartID(s.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("domain.ParseCartID: %w", err)
	}

	cart := domain.NewCart(id)
	cart.CreatedAt = s.CreatedAt
	cart.UpdatedAt = s.UpdatedAt

	for _, item := range s.Items {
		productID, err := domain.ParseProductID(item.ProductID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("domain.ParseProductID: %w", err)
		}
		cur, err := domain.ParseCurrency(item.Currency)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("domain.ParseCurrency: %w", err)
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Name:      item.Name,
			Price:     domain.NewMoney(item.Price, cur),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
		})
	}

	if err := cart.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("cart.Validate: %w", err)
	}
	return cart, nil
}
