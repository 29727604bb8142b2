package order

import (
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// tracked is a registry entry: the immutable order plus the mutable
// lifecycle state its monitor and cancellation race over.
type tracked struct {
	mu     sync.Mutex
	order  Order
	status Status

	// committed is set once a tick's predicate has fired and the swap is
	// in flight. From that point a cancel is too late and becomes a
	// no-op; the trigger runs to completion.
	committed bool

	// stop is closed exactly once, on cancellation.
	stop chan struct{}
}

func (t *tracked) summary() Summary {
	return Summary{
		ID:          t.order.ID,
		Kind:        t.order.Kind,
		Token:       t.order.Token,
		Amount:      new(big.Int).Set(t.order.Amount),
		TargetPrice: new(big.Int).Set(t.order.TargetPrice),
		CreatedAt:   t.order.CreatedAt,
	}
}

// Registry is the concurrency-safe table of active orders. It is the
// only shared mutable structure in the engine; every monitor goroutine
// and the service mutate it through the mutex.
type Registry struct {
	mu     sync.RWMutex
	orders map[string]*tracked
}

func NewRegistry() *Registry {
	return &Registry{orders: make(map[string]*tracked)}
}

// insert assigns a fresh unique id and registers the order as ACTIVE.
// UUIDs keep ids collision-free even for same-instant placements.
func (r *Registry) insert(o Order) *tracked {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now()

	t := &tracked{
		order:  o,
		status: StatusActive,
		stop:   make(chan struct{}),
	}

	r.mu.Lock()
	r.orders[o.ID] = t
	r.mu.Unlock()
	return t
}

func (r *Registry) lookup(id string) (*tracked, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.orders[id]
	return t, ok
}

// Get returns a snapshot of a registered order.
func (r *Registry) Get(id string) (Summary, bool) {
	t, ok := r.lookup(id)
	if !ok {
		return Summary{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary(), true
}

// remove drops an order from the table. Idempotent: removing an unknown
// id reports false and changes nothing.
func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return false
	}
	delete(r.orders, id)
	return true
}

// List returns a consistent snapshot of ACTIVE orders, oldest first.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	out := make([]Summary, 0, len(r.orders))
	for _, t := range r.orders {
		t.mu.Lock()
		if t.status == StatusActive {
			out = append(out, t.summary())
		}
		t.mu.Unlock()
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
