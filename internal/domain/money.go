package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// priceScale is the number of decimal places a price or subtotal may carry.
const priceScale = 2

// maxPrice is the exclusive upper bound of a unit price, twelve digits at two decimal places.
var maxPrice = decimal.New(1, 12-priceScale)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

// Times multiplies the amount by a quantity without rounding.
func (m Money) Times(qty int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(qty))), Currency: m.Currency}
}

// Validate reports whether m is a usable unit price.
func (m Money) Validate() error {
	if m.Amount.IsNegative() {
		return validationError("price cannot be negative")
	}
	if m.Amount.GreaterThanOrEqual(maxPrice) {
		return validationError("price must be less than %s", maxPrice)
	}
	if !HasAtMostCents(m.Amount) {
		return validationError("price must have at most 2 decimal places")
	}
	if m.Currency == (currency.Unit{}) {
		return validationError("price currency is empty")
	}
	return nil
}

func (m Money) String() string {
	return m.Currency.String() + " " + m.Amount.StringFixed(priceScale)
}

// RoundCents rounds half-up to two decimal places. Amounts here are never negative,
// so decimal's half-away-from-zero rounding is half-up.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(priceScale)
}

func HasAtMostCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(priceScale))
}

func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	return unit, nil
}
