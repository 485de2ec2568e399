package api

// Request/response types for REST endpoints and WebSocket commands

// CreateOrderRequest is the payload for POST /api/orders
type CreateOrderRequest struct {
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`  // "buy" or "sell"
	Qty    float64 `json:"qty"`
	Price  float64 `json:"price"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// TickCommand is sent by a feed client to change its subscription.
// No acknowledgement is sent either way; ticks simply start or stop.
type TickCommand struct {
	Action string `json:"action"` // "subscribe" or "unsubscribe"
	Symbol string `json:"symbol"`
}
