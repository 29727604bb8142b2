package api

// Request/response types for the REST surface. Response envelopes keep
// the {"success": ...} shape the frontend already speaks.

// ==============================
// Requests
// ==============================

// MarketBuyRequest spends EthAmount (decimal ETH string) on TokenAddress.
type MarketBuyRequest struct {
	TokenAddress string  `json:"tokenAddress"`
	EthAmount    string  `json:"ethAmount"`
	MaxSlippage  float64 `json:"maxSlippage,omitempty"` // percent, default 0.5
}

type MarketSellRequest struct {
	TokenAddress string  `json:"tokenAddress"`
	TokenAmount  string  `json:"tokenAmount"` // decimal token amount
	MaxSlippage  float64 `json:"maxSlippage,omitempty"`
}

type LimitBuyRequest struct {
	TokenAddress string `json:"tokenAddress"`
	EthAmount    string `json:"ethAmount"`
	LimitPrice   string `json:"limitPrice"` // decimal ETH per token
}

type LimitSellRequest struct {
	TokenAddress string `json:"tokenAddress"`
	TokenAmount  string `json:"tokenAmount"`
	LimitPrice   string `json:"limitPrice"`
}

type StopLossRequest struct {
	TokenAddress string `json:"tokenAddress"`
	TokenAmount  string `json:"tokenAmount"`
	StopPrice    string `json:"stopPrice"`
}

// ==============================
// Responses
// ==============================

type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type SwapResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	GasUsed uint64 `json:"gasUsed"`
}

type PriceResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Price   string `json:"price"` // decimal ETH per token
	Wei     string `json:"wei"`
}

type OrderInfo struct {
	ID          string `json:"id"`
	Kind        string `json:"type"`
	Token       string `json:"tokenAddress"`
	Amount      string `json:"amount"`
	TargetPrice string `json:"price"`
	CreatedAt   int64  `json:"createdAt"` // unix milliseconds
}

type OrdersResponse struct {
	Success bool        `json:"success"`
	Orders  []OrderInfo `json:"orders"`
}

type CancelResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type HealthResponse struct {
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	UptimeSeconds float64 `json:"uptime"`
}

// ==============================
// WebSocket
// ==============================

// WSEvent is the envelope for every broadcast order lifecycle event:
// order_placed, order_triggered, order_cancelled.
type WSEvent struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}
