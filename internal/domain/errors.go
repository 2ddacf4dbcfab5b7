package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidID         = errors.New("invalid id format")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("product not found in cart")
	ErrInsufficientStock = errors.New("insufficient stock available")
)

// StockError carries the remaining-capacity detail of a rejected add or update.
type StockError struct {
	ProductID ProductID
	Available int
	InCart    int
}

func (e *StockError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("Only %d items available. You already have %d in cart.", e.Available, e.InCart)
	}
	return fmt.Sprintf("Only %d items available in stock", e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// IsNotFound reports whether err names a missing product, cart or cart item.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrCartItemNotFound)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
