package orders

import (
	"errors"
	"strings"
	"testing"

	"github.com/tradedeck/tradedeck/pkg/catalog"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	c, err := catalog.New([]catalog.Symbol{
		{Symbol: "AAPL", Name: "Apple Inc.", ClosePrice: 180.12},
		{Symbol: "RND", Name: "Round Corp.", ClosePrice: 100},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return NewValidator(c)
}

func TestValidate(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		symbol  string
		qty     float64
		price   float64
		wantErr error
	}{
		{name: "valid order", symbol: "AAPL", qty: 10, price: 180.5, wantErr: nil},
		{name: "unknown symbol", symbol: "NOPE", qty: 10, price: 180.5, wantErr: ErrInvalidSymbol},
		{name: "zero qty", symbol: "AAPL", qty: 0, price: 180.5, wantErr: ErrNonPositiveQty},
		{name: "negative qty", symbol: "AAPL", qty: -1, price: 180.5, wantErr: ErrNonPositiveQty},
		{name: "zero price", symbol: "AAPL", qty: 10, price: 0, wantErr: ErrNonPositivePrice},
		{name: "negative price", symbol: "AAPL", qty: 10, price: -5, wantErr: ErrNonPositivePrice},
		// band edges are inclusive (RND close 100 keeps the bounds exact)
		{name: "lower band edge", symbol: "RND", qty: 1, price: 80, wantErr: nil},
		{name: "upper band edge", symbol: "RND", qty: 1, price: 120, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.symbol, tt.qty, tt.price)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%s, %v, %v) = %v, want %v", tt.symbol, tt.qty, tt.price, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_OutsideBand(t *testing.T) {
	v := newTestValidator(t)

	for _, price := range []float64{79.99, 120.01, 50, 500} {
		err := v.Validate("RND", 1, price)
		if err == nil {
			t.Errorf("Validate(RND, 1, %v) accepted, want band rejection", price)
			continue
		}
		if !strings.Contains(err.Error(), "Price must be within ±20%") {
			t.Errorf("Validate(RND, 1, %v) = %q, want band message", price, err)
		}
	}
}

func TestValidate_BandMessageBounds(t *testing.T) {
	v := newTestValidator(t)

	err := v.Validate("AAPL", 10, 50)
	if err == nil {
		t.Fatal("Validate() accepted out-of-band price")
	}
	// 180.12 * 0.8 = 144.096 and 180.12 * 1.2 = 216.144, shown to 2 decimals
	want := "Price must be within ±20% of AAPL closePrice (allowed: 144.10 to 216.14)"
	if err.Error() != want {
		t.Errorf("band message = %q, want %q", err, want)
	}
}

func TestValidate_CheckOrdering(t *testing.T) {
	v := newTestValidator(t)

	// qty and price both invalid: the quantity error wins
	if err := v.Validate("AAPL", 0, -1); !errors.Is(err, ErrNonPositiveQty) {
		t.Errorf("Validate(AAPL, 0, -1) = %v, want quantity error first", err)
	}

	// unknown symbol beats everything else
	if err := v.Validate("NOPE", 0, -1); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("Validate(NOPE, 0, -1) = %v, want symbol error first", err)
	}
}
