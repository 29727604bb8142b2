package order

import (
	"context"
	"math/big"

	"swapd/pkg/metrics"
)

// monitor runs the recurring trigger evaluation for a single order. One
// goroutine per order; ticks are serialized by construction, so a slow
// quote or swap delays the next tick instead of overlapping it.
type monitor struct {
	svc *Service
	t   *tracked
}

func (m *monitor) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.t.stop:
			return
		case <-m.svc.clock.After(m.svc.poll):
			if done := m.tick(ctx); done {
				return
			}
		}
	}
}

// tick performs one fetch/evaluate/execute cycle. Returns true when the
// order reached a terminal state and scheduling should stop.
//
// Cancellation policy: a cancel that lands strictly before the price
// fetch returns wins and the tick aborts; once the predicate has fired
// the trigger is committed and runs to completion.
func (m *monitor) tick(ctx context.Context) bool {
	t := m.t

	t.mu.Lock()
	if t.status != StatusActive {
		t.mu.Unlock()
		return true
	}
	o := t.order
	t.mu.Unlock()

	metrics.MonitorTicks.Inc()

	price, err := m.svc.TokenPrice(ctx, o.Token)
	if err != nil {
		metrics.QuoteErrors.Inc()
		m.svc.log.Warnw("quote_failed", "order_id", o.ID, "err", err)
		return false
	}

	t.mu.Lock()
	if t.status != StatusActive {
		// Cancelled while the quote was in flight: cancel wins.
		t.mu.Unlock()
		return true
	}
	if !shouldTrigger(o.Kind, price, o.TargetPrice) {
		t.mu.Unlock()
		m.svc.log.Debugw("trigger_not_met",
			"order_id", o.ID,
			"price", price.String(),
			"target", o.TargetPrice.String())
		return false
	}
	t.committed = true
	t.mu.Unlock()

	m.svc.log.Infow("order_triggered",
		"order_id", o.ID,
		"kind", o.Kind.String(),
		"price", price.String(),
		"target", o.TargetPrice.String())

	receipt, err := m.svc.execute(ctx, o)

	t.mu.Lock()
	if err != nil {
		// Stay ACTIVE; the next tick retries with the same parameters.
		t.committed = false
		t.mu.Unlock()
		metrics.ExecutionErrors.Inc()
		m.svc.log.Errorw("execution_failed", "order_id", o.ID, "err", err)
		return false
	}
	t.status = StatusTriggered
	sum := t.summary()
	t.mu.Unlock()

	m.svc.registry.remove(o.ID)
	metrics.OrdersTriggered.WithLabelValues(o.Kind.String()).Inc()
	metrics.ActiveOrders.Dec()

	m.svc.recordExecution(o, price, receipt)
	m.svc.publish("order_triggered", sum)
	m.svc.log.Infow("order_filled", "order_id", o.ID, "tx", receipt.TxHash.Hex())
	return true
}

// shouldTrigger evaluates the trigger predicate: buys and stops fire at
// or below the target, limit sells at or above it.
func shouldTrigger(k Kind, price, target *big.Int) bool {
	switch k {
	case KindLimitBuy:
		return price.Cmp(target) <= 0
	case KindLimitSell:
		return price.Cmp(target) >= 0
	case KindStopLoss:
		return price.Cmp(target) <= 0
	default:
		return false
	}
}
