package order

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func testOrder(kind Kind) Order {
	return Order{
		Kind:        kind,
		Token:       common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Amount:      big.NewInt(1000),
		TargetPrice: big.NewInt(100),
	}
}

func TestRegistryInsertAssignsUniqueIDs(t *testing.T) {
	r := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tr := r.insert(testOrder(KindLimitBuy))
		if tr.order.ID == "" {
			t.Fatal("empty order id")
		}
		if seen[tr.order.ID] {
			t.Fatalf("duplicate id %s", tr.order.ID)
		}
		seen[tr.order.ID] = true
	}

	if r.Len() != 100 {
		t.Errorf("Len() = %d, want 100", r.Len())
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	tr := r.insert(testOrder(KindStopLoss))

	got, ok := r.Get(tr.order.ID)
	if !ok {
		t.Fatal("Get returned not found for registered order")
	}
	if got.Kind != KindStopLoss {
		t.Errorf("Kind = %v, want %v", got.Kind, KindStopLoss)
	}
	if got.Amount.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("Amount = %s, want 1000", got.Amount)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get returned found for unknown id")
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := NewRegistry()
	tr := r.insert(testOrder(KindLimitBuy))

	if !r.remove(tr.order.ID) {
		t.Error("first remove = false, want true")
	}
	if r.remove(tr.order.ID) {
		t.Error("second remove = true, want false")
	}
	if r.remove("missing") {
		t.Error("remove of unknown id = true, want false")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryListSnapshotOrdering(t *testing.T) {
	r := NewRegistry()

	var ids []string
	for i := 0; i < 5; i++ {
		tr := r.insert(testOrder(KindLimitSell))
		ids = append(ids, tr.order.ID)
	}

	list := r.List()
	if len(list) != 5 {
		t.Fatalf("List() returned %d orders, want 5", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.Before(list[i-1].CreatedAt) {
			t.Error("List() not ordered by creation time")
		}
	}
}

func TestRegistryListSkipsNonActive(t *testing.T) {
	r := NewRegistry()
	tr := r.insert(testOrder(KindLimitBuy))
	r.insert(testOrder(KindLimitBuy))

	tr.mu.Lock()
	tr.status = StatusCancelled
	tr.mu.Unlock()

	if got := len(r.List()); got != 1 {
		t.Errorf("List() returned %d orders, want 1", got)
	}
}

func TestRegistryConcurrentInserts(t *testing.T) {
	r := NewRegistry()

	const n = 50
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = r.insert(testOrder(KindLimitBuy)).order.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s under concurrent insert", id)
		}
		seen[id] = true
	}
	if r.Len() != n {
		t.Errorf("Len() = %d, want %d", r.Len(), n)
	}
}
