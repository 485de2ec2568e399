package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tradedeck/tradedeck/params"
	"github.com/tradedeck/tradedeck/pkg/catalog"
	"github.com/tradedeck/tradedeck/pkg/orders"
	"github.com/tradedeck/tradedeck/pkg/ticks"
)

// Server handles REST API and WebSocket connections
type Server struct {
	catalog   *catalog.Catalog
	store     *orders.Store
	validator *orders.Validator
	ticks     *ticks.Generator
	router    *mux.Router
	logger    *zap.SugaredLogger

	tickInterval   time.Duration
	allowedOrigins []string
}

// NewServer wires the catalog, order store and tick generator behind the
// HTTP routes and the tick feed.
func NewServer(cat *catalog.Catalog, store *orders.Store, cfg params.Config, logger *zap.SugaredLogger) *Server {
	s := &Server{
		catalog:        cat,
		store:          store,
		validator:      orders.NewValidator(cat),
		ticks:          ticks.NewGenerator(),
		router:         mux.NewRouter(),
		logger:         logger,
		tickInterval:   cfg.Feed.TickInterval,
		allowedOrigins: cfg.HTTP.AllowedOrigins,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/symbols", s.handleListSymbols).Methods("GET")
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders", s.handleCreateOrder).Methods("POST")

	// WebSocket tick feed
	s.router.HandleFunc("/ws/ticks", s.handleTickFeed)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the CORS-wrapped root handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleListSymbols(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.catalog.List())
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	seq, err := s.store.List(symbol)
	if err != nil {
		s.logger.Errorw("list_orders_failed", "symbol", symbol, "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to read orders")
		return
	}

	respondJSON(w, seq)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Validate(req.Symbol, req.Qty, req.Price); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := s.store.Append(req.Symbol, req.Side, req.Qty, req.Price)
	if err != nil {
		// Losing an order silently is worse than surfacing the failure.
		s.logger.Errorw("append_order_failed", "symbol", req.Symbol, "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to persist order")
		return
	}

	s.logger.Infow("order_created",
		"symbol", order.Symbol, "id", order.ID, "side", order.Side,
		"qty", order.Qty, "price", order.Price)

	respondJSON(w, order)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok"})
}

// ==============================
// Helper Functions
// ==============================

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
