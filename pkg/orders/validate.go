package orders

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tradedeck/tradedeck/pkg/catalog"
)

// Rejection messages are part of the HTTP API contract: the dashboard
// matches on them verbatim.
var (
	ErrInvalidSymbol    = errors.New("Invalid symbol")
	ErrNonPositiveQty   = errors.New("Quantity must be > 0")
	ErrNonPositivePrice = errors.New("Price must be > 0")
)

var (
	bandLow  = decimal.NewFromFloat(0.8)
	bandHigh = decimal.NewFromFloat(1.2)
)

// Validator checks order requests against the symbol catalog before they
// reach the store. Pure: no state beyond the immutable catalog.
type Validator struct {
	catalog *catalog.Catalog
}

func NewValidator(c *catalog.Catalog) *Validator {
	return &Validator{catalog: c}
}

// Validate runs the checks in order and reports the first failure:
// symbol existence, positive quantity, positive price, then price within
// ±20% of the symbol's close price (both band edges inclusive).
func (v *Validator) Validate(symbol string, qty, price float64) error {
	sym, ok := v.catalog.Find(symbol)
	if !ok {
		return ErrInvalidSymbol
	}
	if qty <= 0 {
		return ErrNonPositiveQty
	}
	if price <= 0 {
		return ErrNonPositivePrice
	}

	ref := decimal.NewFromFloat(sym.ClosePrice)
	min := ref.Mul(bandLow)
	max := ref.Mul(bandHigh)
	p := decimal.NewFromFloat(price)
	if p.Cmp(min) < 0 || p.Cmp(max) > 0 {
		return fmt.Errorf("Price must be within ±20%% of %s closePrice (allowed: %s to %s)",
			sym.Symbol, min.StringFixed(2), max.StringFixed(2))
	}

	return nil
}
