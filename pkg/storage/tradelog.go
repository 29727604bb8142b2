package storage

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"swapd/pkg/order"
)

// TradeRecord is the persisted form of one executed swap.
type TradeRecord struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId,omitempty"` // empty for market swaps
	Side         string `json:"side"`
	Token        string `json:"token"`
	AmountIn     string `json:"amountIn"`
	MinAmountOut string `json:"minAmountOut,omitempty"`
	Price        string `json:"price,omitempty"`
	TxHash       string `json:"txHash"`
	ExecutedAt   int64  `json:"executedAt"` // unix milliseconds
}

// TradeLog persists executed trades to pebble so the record survives a
// restart even though active orders do not.
type TradeLog struct {
	db *pebble.DB
}

func OpenTradeLog(path string) (*TradeLog, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open trade log %s: %w", path, err)
	}
	return &TradeLog{db: db}, nil
}

func (l *TradeLog) Close() error { return l.db.Close() }

// keys: t:<20-digit-nanos>-<uuid> so iteration order is execution order
func kTrade(id string) []byte { return append([]byte("t:"), id...) }

// RecordExecution implements order.TradeRecorder.
func (l *TradeLog) RecordExecution(rec order.Execution) error {
	id := fmt.Sprintf("%020d-%s", rec.ExecutedAt.UnixNano(), uuid.NewString())

	tr := TradeRecord{
		ID:         id,
		OrderID:    rec.OrderID,
		Side:       rec.Side,
		Token:      rec.Token.Hex(),
		AmountIn:   rec.AmountIn.String(),
		TxHash:     rec.TxHash.Hex(),
		ExecutedAt: rec.ExecutedAt.UnixMilli(),
	}
	if rec.MinAmountOut != nil {
		tr.MinAmountOut = rec.MinAmountOut.String()
	}
	if rec.Price != nil {
		tr.Price = rec.Price.String()
	}

	data, err := json.Marshal(tr)
	if err != nil {
		return fmt.Errorf("marshal trade record: %w", err)
	}
	if err := l.db.Set(kTrade(id), data, pebble.Sync); err != nil {
		return fmt.Errorf("save trade record: %w", err)
	}
	return nil
}

// Get fetches a single record by id.
func (l *TradeLog) Get(id string) (TradeRecord, bool, error) {
	val, closer, err := l.db.Get(kTrade(id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return TradeRecord{}, false, nil
		}
		return TradeRecord{}, false, fmt.Errorf("get trade record: %w", err)
	}
	defer closer.Close()

	var tr TradeRecord
	if err := json.Unmarshal(val, &tr); err != nil {
		return TradeRecord{}, false, fmt.Errorf("decode trade record: %w", err)
	}
	return tr, true, nil
}

// List returns up to limit records, newest first. limit <= 0 means all.
func (l *TradeLog) List(limit int) ([]TradeRecord, error) {
	iter, err := l.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("t:"),
		UpperBound: []byte("t;"), // ';' is ':'+1
	})
	if err != nil {
		return nil, fmt.Errorf("trade log iterator: %w", err)
	}
	defer iter.Close()

	var out []TradeRecord
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var tr TradeRecord
		if err := json.Unmarshal(iter.Value(), &tr); err != nil {
			return nil, fmt.Errorf("decode trade record: %w", err)
		}
		out = append(out, tr)
	}
	return out, nil
}

var _ order.TradeRecorder = (*TradeLog)(nil)
