package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"swapd/pkg/order"
	"swapd/pkg/storage"
	"swapd/pkg/trader"
)

// defaultSlippagePercent applies when a market request omits maxSlippage.
const defaultSlippagePercent = 0.5

const tokenDecimals = 18

// Server exposes the trading agent over REST and WebSocket. Each trade
// route maps one-to-one onto an order.Service method.
type Server struct {
	svc    *order.Service
	trades *storage.TradeLog // nil disables the /trades routes
	hub    *Hub
	router *mux.Router
	start  time.Time
}

func NewServer(svc *order.Service, trades *storage.TradeLog, hub *Hub) *Server {
	s := &Server{
		svc:    svc,
		trades: trades,
		hub:    hub,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Immediate market operations
	api.HandleFunc("/trade/market-buy", s.handleMarketBuy).Methods("POST")
	api.HandleFunc("/trade/market-sell", s.handleMarketSell).Methods("POST")
	api.HandleFunc("/trade/price/{token}", s.handleGetPrice).Methods("GET")

	// Conditional orders
	api.HandleFunc("/trade/limit-buy", s.handleLimitBuy).Methods("POST")
	api.HandleFunc("/trade/limit-sell", s.handleLimitSell).Methods("POST")
	api.HandleFunc("/trade/stop-loss", s.handleStopLoss).Methods("POST")
	api.HandleFunc("/trade/orders", s.handleGetOrders).Methods("GET")
	api.HandleFunc("/trade/orders/{id}", s.handleCancelOrder).Methods("DELETE")

	// Executed-trade log
	api.HandleFunc("/trades", s.handleListTrades).Methods("GET")
	api.HandleFunc("/trades/{id}", s.handleGetTrade).Methods("GET")

	// WebSocket event stream
	s.router.HandleFunc("/ws", s.hub.handleWebSocket)

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the CORS-wrapped root handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start runs the WebSocket hub and serves until the listener fails.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.hub.Run(ctx)

	log.Printf("[api] server starting on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// ==============================
// Market operations
// ==============================

func (s *Server) handleMarketBuy(w http.ResponseWriter, r *http.Request) {
	var req MarketBuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, ok := parseToken(w, req.TokenAddress)
	if !ok {
		return
	}
	amount, err := trader.ParseEther(req.EthAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := s.svc.MarketBuy(r.Context(), token, amount, slippageOrDefault(req.MaxSlippage))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, SwapResponse{Success: true, TxHash: receipt.TxHash.Hex(), GasUsed: receipt.GasUsed})
}

func (s *Server) handleMarketSell(w http.ResponseWriter, r *http.Request) {
	var req MarketSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, ok := parseToken(w, req.TokenAddress)
	if !ok {
		return
	}
	amount, err := trader.ParseUnits(req.TokenAmount, tokenDecimals)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := s.svc.MarketSell(r.Context(), token, amount, slippageOrDefault(req.MaxSlippage))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, SwapResponse{Success: true, TxHash: receipt.TxHash.Hex(), GasUsed: receipt.GasUsed})
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	token, ok := parseToken(w, mux.Vars(r)["token"])
	if !ok {
		return
	}

	wei, err := s.svc.TokenPrice(r.Context(), token)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, PriceResponse{
		Success: true,
		Token:   token.Hex(),
		Price:   trader.FormatEther(wei),
		Wei:     wei.String(),
	})
}

// ==============================
// Conditional orders
// ==============================

func (s *Server) handleLimitBuy(w http.ResponseWriter, r *http.Request) {
	var req LimitBuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, ok := parseToken(w, req.TokenAddress)
	if !ok {
		return
	}
	amount, err := trader.ParseEther(req.EthAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := trader.ParseEther(req.LimitPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.svc.PlaceLimitBuy(token, amount, price)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, PlaceOrderResponse{Success: true, OrderID: id})
}

func (s *Server) handleLimitSell(w http.ResponseWriter, r *http.Request) {
	var req LimitSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, ok := parseToken(w, req.TokenAddress)
	if !ok {
		return
	}
	amount, err := trader.ParseUnits(req.TokenAmount, tokenDecimals)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := trader.ParseEther(req.LimitPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.svc.PlaceLimitSell(token, amount, price)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, PlaceOrderResponse{Success: true, OrderID: id})
}

func (s *Server) handleStopLoss(w http.ResponseWriter, r *http.Request) {
	var req StopLossRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, ok := parseToken(w, req.TokenAddress)
	if !ok {
		return
	}
	amount, err := trader.ParseUnits(req.TokenAmount, tokenDecimals)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := trader.ParseEther(req.StopPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.svc.SetStopLoss(token, price, amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, PlaceOrderResponse{Success: true, OrderID: id})
}

func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	active := s.svc.ActiveOrders()

	orders := make([]OrderInfo, len(active))
	for i, o := range active {
		orders[i] = OrderInfo{
			ID:          o.ID,
			Kind:        o.Kind.String(),
			Token:       o.Token.Hex(),
			Amount:      o.Amount.String(),
			TargetPrice: o.TargetPrice.String(),
			CreatedAt:   o.CreatedAt.UnixMilli(),
		}
	}
	respondJSON(w, OrdersResponse{Success: true, Orders: orders})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	respondJSON(w, CancelResponse{Success: s.svc.CancelOrder(id)})
}

// ==============================
// Trade log
// ==============================

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	if s.trades == nil {
		respondError(w, http.StatusServiceUnavailable, "trade log disabled")
		return
	}

	limit := 100
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.trades.List(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, map[string]any{"success": true, "trades": records})
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	if s.trades == nil {
		respondError(w, http.StatusServiceUnavailable, "trade log disabled")
		return
	}

	rec, found, err := s.trades.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "trade not found")
		return
	}
	respondJSON(w, map[string]any{"success": true, "trade": rec})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: time.Since(s.start).Seconds(),
	})
}

// ==============================
// Helpers
// ==============================

func parseToken(w http.ResponseWriter, addr string) (common.Address, bool) {
	if !common.IsHexAddress(addr) {
		respondError(w, http.StatusBadRequest, "invalid token address")
		return common.Address{}, false
	}
	return common.HexToAddress(addr), true
}

func slippageOrDefault(pct float64) float64 {
	if pct <= 0 {
		return defaultSlippagePercent
	}
	return pct
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: msg})
}

var _ order.EventSink = (*Hub)(nil)
