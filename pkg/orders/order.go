package orders

// Order sides as sent by the dashboard frontend.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Order is a client-submitted buy/sell intent, immutable once recorded.
// IDs are assigned by the store and are strictly increasing within one
// symbol's sequence; sequences of different symbols never share ID space.
type Order struct {
	ID        int64   `json:"id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"` // unix seconds, assigned at creation
}
