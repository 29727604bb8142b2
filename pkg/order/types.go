package order

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Kind classifies a conditional order by its trigger direction.
type Kind int

const (
	KindLimitBuy Kind = iota
	KindLimitSell
	KindStopLoss
)

func (k Kind) String() string {
	switch k {
	case KindLimitBuy:
		return "LIMIT_BUY"
	case KindLimitSell:
		return "LIMIT_SELL"
	case KindStopLoss:
		return "STOP_LOSS"
	default:
		return "UNKNOWN"
	}
}

// sellSide reports whether execution disposes of the token (token -> WETH).
func (k Kind) sellSide() bool {
	return k == KindLimitSell || k == KindStopLoss
}

// Status is the order lifecycle state. ACTIVE is the only non-terminal
// state; the only legal transitions are ACTIVE -> TRIGGERED and
// ACTIVE -> CANCELLED.
type Status int

const (
	StatusActive Status = iota
	StatusTriggered
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusTriggered:
		return "TRIGGERED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Order is the immutable description of a conditional order. Amount is
// wei of the base currency for buys and token base-units for sells.
// TargetPrice is wei of the base currency per 1e18 token units.
type Order struct {
	ID          string
	Kind        Kind
	Token       common.Address
	Amount      *big.Int
	TargetPrice *big.Int
	CreatedAt   time.Time
}

// Summary is the read-only listing view of an active order.
type Summary struct {
	ID          string
	Kind        Kind
	Token       common.Address
	Amount      *big.Int
	TargetPrice *big.Int
	CreatedAt   time.Time
}

// PriceOracle answers "how much tokenOut does amountIn of tokenIn buy
// right now". Failures are transient; callers retry.
type PriceOracle interface {
	Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error)
}

// SwapParams describes one swap. MinAmountOut already has SlippageBps
// applied to the live quote; SlippageBps is carried for executors that
// route by tolerance.
type SwapParams struct {
	TokenIn      common.Address
	TokenOut     common.Address
	AmountIn     *big.Int
	MinAmountOut *big.Int
	SlippageBps  int64
}

// Receipt is the result of a mined swap.
type Receipt struct {
	TxHash    common.Hash
	AmountOut *big.Int // quoted output the swap was sized against
	GasUsed   uint64
}

// TradeExecutor performs swaps on-chain. Approve grants the executor a
// one-time allowance to move amount of token; sell-side orders need it
// before their swap can succeed.
type TradeExecutor interface {
	Approve(ctx context.Context, token common.Address, amount *big.Int) error
	Swap(ctx context.Context, p SwapParams) (*Receipt, error)
}

// Execution is the record of one completed swap, conditional or market.
type Execution struct {
	OrderID      string // empty for market orders
	Side         string // LIMIT_BUY, LIMIT_SELL, STOP_LOSS, MARKET_BUY, MARKET_SELL
	Token        common.Address
	AmountIn     *big.Int
	MinAmountOut *big.Int
	Price        *big.Int // token price observed when the swap was sized
	TxHash       common.Hash
	ExecutedAt   time.Time
}

// TradeRecorder persists executions. Failures are logged, never fatal.
type TradeRecorder interface {
	RecordExecution(rec Execution) error
}

// EventSink receives order lifecycle events for broadcast.
type EventSink interface {
	Publish(event string, data any)
}
