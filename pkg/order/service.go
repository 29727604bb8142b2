package order

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapd/pkg/metrics"
	"swapd/pkg/util"
)

// oneToken is 1e18 base units: prices are quoted as WETH received for
// one whole token.
var oneToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Options tunes a Service. Zero values fall back to production defaults.
type Options struct {
	WETH            common.Address
	PollInterval    time.Duration
	ExecSlippageBps int64
	Clock           util.Clock
	Recorder        TradeRecorder // optional
	Events          EventSink     // optional
}

// Service is the conditional-order facade: placements, cancellation,
// listing, and immediate market operations. Placement-time errors
// (validation, sell-side approval) surface to the caller; everything a
// monitor hits later is contained and retried.
type Service struct {
	registry *Registry
	oracle   PriceOracle
	executor TradeExecutor
	recorder TradeRecorder
	events   EventSink
	clock    util.Clock
	log      *zap.SugaredLogger

	weth    common.Address
	poll    time.Duration
	execBps int64

	ctx    context.Context
	cancel context.CancelFunc
}

func NewService(ctx context.Context, oracle PriceOracle, executor TradeExecutor, log *zap.SugaredLogger, opts Options) *Service {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 15 * time.Second
	}
	if opts.ExecSlippageBps <= 0 {
		opts.ExecSlippageBps = 100
	}
	if opts.Clock == nil {
		opts.Clock = util.RealClock{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		registry: NewRegistry(),
		oracle:   oracle,
		executor: executor,
		recorder: opts.Recorder,
		events:   opts.Events,
		clock:    opts.Clock,
		log:      log,
		weth:     opts.WETH,
		poll:     opts.PollInterval,
		execBps:  opts.ExecSlippageBps,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close stops every monitor goroutine. Orders are in-memory only, so
// nothing survives shutdown.
func (s *Service) Close() {
	s.cancel()
}

// PlaceLimitBuy registers an order to buy token with baseAmount wei of
// WETH once its price drops to limitPrice or below.
func (s *Service) PlaceLimitBuy(token common.Address, baseAmount, limitPrice *big.Int) (string, error) {
	if err := validateParams(token, baseAmount, limitPrice); err != nil {
		return "", err
	}
	return s.place(Order{
		Kind:        KindLimitBuy,
		Token:       token,
		Amount:      baseAmount,
		TargetPrice: limitPrice,
	})
}

// PlaceLimitSell registers an order to sell tokenAmount of token once
// its price rises to limitPrice or above. The executor is granted the
// sell-side allowance up front; failure aborts placement.
func (s *Service) PlaceLimitSell(token common.Address, tokenAmount, limitPrice *big.Int) (string, error) {
	if err := validateParams(token, tokenAmount, limitPrice); err != nil {
		return "", err
	}
	if err := s.approveSell(token, tokenAmount); err != nil {
		return "", err
	}
	return s.place(Order{
		Kind:        KindLimitSell,
		Token:       token,
		Amount:      tokenAmount,
		TargetPrice: limitPrice,
	})
}

// SetStopLoss registers a protective sell of tokenAmount once the price
// drops to stopPrice or below. Allowance is obtained synchronously
// before the order exists; no order is created if it fails.
func (s *Service) SetStopLoss(token common.Address, stopPrice, tokenAmount *big.Int) (string, error) {
	if err := validateParams(token, tokenAmount, stopPrice); err != nil {
		return "", err
	}
	if err := s.approveSell(token, tokenAmount); err != nil {
		return "", err
	}
	return s.place(Order{
		Kind:        KindStopLoss,
		Token:       token,
		Amount:      tokenAmount,
		TargetPrice: stopPrice,
	})
}

func (s *Service) place(o Order) (string, error) {
	t := s.registry.insert(o)
	go (&monitor{svc: s, t: t}).run(s.ctx)

	metrics.OrdersPlaced.WithLabelValues(o.Kind.String()).Inc()
	metrics.ActiveOrders.Inc()

	sum := t.summary()
	s.log.Infow("order_placed",
		"order_id", sum.ID,
		"kind", o.Kind.String(),
		"token", o.Token.Hex(),
		"amount", o.Amount.String(),
		"target", o.TargetPrice.String())
	s.publish("order_placed", sum)
	return sum.ID, nil
}

func (s *Service) approveSell(token common.Address, amount *big.Int) error {
	if err := s.executor.Approve(s.ctx, token, amount); err != nil {
		return fmt.Errorf("sell-side approval for %s: %w", token.Hex(), err)
	}
	return nil
}

// CancelOrder stops an order's evaluation and removes it. Returns false
// for unknown, already-terminal, or trigger-committed orders; it never
// errors. A trigger whose swap is already in flight completes and the
// cancel is a no-op.
func (s *Service) CancelOrder(id string) bool {
	t, ok := s.registry.lookup(id)
	if !ok {
		return false
	}

	t.mu.Lock()
	if t.status != StatusActive || t.committed {
		t.mu.Unlock()
		return false
	}
	t.status = StatusCancelled
	close(t.stop)
	sum := t.summary()
	t.mu.Unlock()

	s.registry.remove(id)
	metrics.OrdersCancelled.Inc()
	metrics.ActiveOrders.Dec()

	s.log.Infow("order_cancelled", "order_id", id)
	s.publish("order_cancelled", sum)
	return true
}

// ActiveOrders returns a point-in-time snapshot of monitored orders.
func (s *Service) ActiveOrders() []Summary {
	return s.registry.List()
}

// GetOrder returns a single active order.
func (s *Service) GetOrder(id string) (Summary, bool) {
	return s.registry.Get(id)
}

// TokenPrice quotes one whole token in WETH.
func (s *Service) TokenPrice(ctx context.Context, token common.Address) (*big.Int, error) {
	return s.oracle.Quote(ctx, token, s.weth, oneToken)
}

// MarketBuy swaps baseAmount wei of WETH into token immediately, with
// the caller's slippage tolerance applied to the live quote.
func (s *Service) MarketBuy(ctx context.Context, token common.Address, baseAmount *big.Int, slippagePercent float64) (*Receipt, error) {
	if err := validateSwapParams(token, baseAmount); err != nil {
		return nil, err
	}
	r, err := s.swap(ctx, s.weth, token, baseAmount, BpsFromPercent(slippagePercent))
	if err != nil {
		return nil, err
	}
	metrics.SwapsExecuted.WithLabelValues("MARKET_BUY").Inc()
	s.recordMarket("MARKET_BUY", token, baseAmount, r)
	return r, nil
}

// MarketSell swaps tokenAmount of token into WETH immediately. The
// allowance is granted first, as the swap moves the caller's tokens.
func (s *Service) MarketSell(ctx context.Context, token common.Address, tokenAmount *big.Int, slippagePercent float64) (*Receipt, error) {
	if err := validateSwapParams(token, tokenAmount); err != nil {
		return nil, err
	}
	if err := s.approveSell(token, tokenAmount); err != nil {
		return nil, err
	}
	r, err := s.swap(ctx, token, s.weth, tokenAmount, BpsFromPercent(slippagePercent))
	if err != nil {
		return nil, err
	}
	metrics.SwapsExecuted.WithLabelValues("MARKET_SELL").Inc()
	s.recordMarket("MARKET_SELL", token, tokenAmount, r)
	return r, nil
}

// swap quotes, derives the minimum acceptable output, and executes.
func (s *Service) swap(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, slippageBps int64) (*Receipt, error) {
	quote, err := s.oracle.Quote(ctx, tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, fmt.Errorf("quote %s -> %s: %w", tokenIn.Hex(), tokenOut.Hex(), err)
	}
	minOut := MinAmountOut(quote, slippageBps)

	r, err := s.executor.Swap(ctx, SwapParams{
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		MinAmountOut: minOut,
		SlippageBps:  slippageBps,
	})
	if err != nil {
		return nil, err
	}
	if r.AmountOut == nil {
		r.AmountOut = quote
	}
	return r, nil
}

// execute performs the swap for a fired trigger: the order's full amount
// at the fixed execution-time slippage tolerance.
func (s *Service) execute(ctx context.Context, o Order) (*Receipt, error) {
	if o.Kind.sellSide() {
		return s.swap(ctx, o.Token, s.weth, o.Amount, s.execBps)
	}
	return s.swap(ctx, s.weth, o.Token, o.Amount, s.execBps)
}

func (s *Service) recordExecution(o Order, price *big.Int, r *Receipt) {
	if s.recorder == nil {
		return
	}
	rec := Execution{
		OrderID:      o.ID,
		Side:         o.Kind.String(),
		Token:        o.Token,
		AmountIn:     o.Amount,
		MinAmountOut: MinAmountOut(r.AmountOut, s.execBps),
		Price:        price,
		TxHash:       r.TxHash,
		ExecutedAt:   s.clock.Now(),
	}
	if err := s.recorder.RecordExecution(rec); err != nil {
		s.log.Warnw("trade_record_failed", "order_id", o.ID, "err", err)
	}
}

func (s *Service) recordMarket(side string, token common.Address, amountIn *big.Int, r *Receipt) {
	if s.recorder == nil {
		return
	}
	rec := Execution{
		Side:       side,
		Token:      token,
		AmountIn:   amountIn,
		Price:      r.AmountOut,
		TxHash:     r.TxHash,
		ExecutedAt: s.clock.Now(),
	}
	if err := s.recorder.RecordExecution(rec); err != nil {
		s.log.Warnw("trade_record_failed", "side", side, "err", err)
	}
}

func (s *Service) publish(event string, data any) {
	if s.events == nil {
		return
	}
	s.events.Publish(event, data)
}

func validateParams(token common.Address, amount, price *big.Int) error {
	if token == (common.Address{}) {
		return ErrInvalidToken
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if price == nil || price.Sign() <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func validateSwapParams(token common.Address, amount *big.Int) error {
	if token == (common.Address{}) {
		return ErrInvalidToken
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
