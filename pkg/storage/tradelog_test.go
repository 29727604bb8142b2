package storage

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swapd/pkg/order"
)

func openTestLog(t *testing.T) *TradeLog {
	t.Helper()
	l, err := OpenTradeLog(t.TempDir())
	if err != nil {
		t.Fatalf("OpenTradeLog: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func execution(orderID, side string, at time.Time) order.Execution {
	return order.Execution{
		OrderID:      orderID,
		Side:         side,
		Token:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
		AmountIn:     big.NewInt(1000),
		MinAmountOut: big.NewInt(990),
		Price:        big.NewInt(95),
		TxHash:       common.HexToHash("0xfeed"),
		ExecutedAt:   at,
	}
}

func TestRecordAndList(t *testing.T) {
	l := openTestLog(t)

	if err := l.RecordExecution(execution("ord-1", "LIMIT_BUY", time.UnixMilli(1000))); err != nil {
		t.Fatalf("RecordExecution: %v", err)
	}

	records, err := l.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("List returned %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.OrderID != "ord-1" || rec.Side != "LIMIT_BUY" {
		t.Errorf("record = %+v, want LIMIT_BUY for ord-1", rec)
	}
	if rec.AmountIn != "1000" || rec.MinAmountOut != "990" || rec.Price != "95" {
		t.Errorf("amounts = %s/%s/%s, want 1000/990/95", rec.AmountIn, rec.MinAmountOut, rec.Price)
	}
	if rec.ExecutedAt != 1000 {
		t.Errorf("ExecutedAt = %d, want 1000", rec.ExecutedAt)
	}
	if rec.ID == "" {
		t.Error("record has no id")
	}
}

func TestGet(t *testing.T) {
	l := openTestLog(t)

	if err := l.RecordExecution(execution("ord-2", "STOP_LOSS", time.UnixMilli(2000))); err != nil {
		t.Fatalf("RecordExecution: %v", err)
	}
	records, err := l.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	got, found, err := l.Get(records[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("Get did not find a recorded trade")
	}
	if got.OrderID != "ord-2" {
		t.Errorf("OrderID = %s, want ord-2", got.OrderID)
	}

	if _, found, err := l.Get("missing"); err != nil || found {
		t.Errorf("Get(missing) = found=%v err=%v, want not found, nil", found, err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	l := openTestLog(t)

	base := time.UnixMilli(10_000)
	for i := 0; i < 3; i++ {
		ex := execution("", "MARKET_BUY", base.Add(time.Duration(i)*time.Second))
		if err := l.RecordExecution(ex); err != nil {
			t.Fatalf("RecordExecution: %v", err)
		}
	}

	records, err := l.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List returned %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].ExecutedAt > records[i-1].ExecutedAt {
			t.Fatal("List not ordered newest first")
		}
	}

	limited, err := l.List(2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("List(2) returned %d records, want 2", len(limited))
	}
	if limited[0].ID != records[0].ID {
		t.Error("limited listing does not start at the newest record")
	}
}

func TestMarketRecordOmitsOrderFields(t *testing.T) {
	l := openTestLog(t)

	ex := order.Execution{
		Side:       "MARKET_SELL",
		Token:      common.HexToAddress("0x2222222222222222222222222222222222222222"),
		AmountIn:   big.NewInt(500),
		TxHash:     common.HexToHash("0xbeef"),
		ExecutedAt: time.UnixMilli(3000),
	}
	if err := l.RecordExecution(ex); err != nil {
		t.Fatalf("RecordExecution: %v", err)
	}

	records, err := l.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	rec := records[0]
	if rec.OrderID != "" || rec.MinAmountOut != "" {
		t.Errorf("market record = %+v, want empty order fields", rec)
	}
	if rec.Side != "MARKET_SELL" || rec.AmountIn != "500" {
		t.Errorf("record = %+v, want MARKET_SELL of 500", rec)
	}
}
