package cart

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/debounce"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// AddGuard collapses bursts of add clicks into one store mutation. Rapid
// repeat clicks on the same product accumulate their quantity; the store sees
// a single AddToCart once the quiet window passes. A click on a different
// product flushes the pending one immediately so ordering is preserved.
type AddGuard struct {
	store    *Store
	debounce *debounce.Debouncer

	mu      sync.Mutex
	pending *pendingAdd
}

type pendingAdd struct {
	product  types.Product
	quantity int
}

// NewAddGuard wraps the store with a debounce window for add bursts.
func NewAddGuard(store *Store, window time.Duration) *AddGuard {
	return &AddGuard{store: store, debounce: debounce.New(window)}
}

// Add records a click. The underlying AddToCart fires after the quiet window,
// with the accumulated quantity.
func (a *AddGuard) Add(ctx context.Context, product types.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	a.mu.Lock()
	if a.pending != nil && a.pending.product.ID != product.ID {
		flush := *a.pending
		a.pending = nil
		a.mu.Unlock()
		a.debounce.Stop()
		a.store.AddToCart(ctx, flush.product, flush.quantity)
		a.mu.Lock()
	}
	if a.pending == nil {
		a.pending = &pendingAdd{product: product}
	}
	a.pending.quantity += quantity
	a.mu.Unlock()

	a.debounce.Do(func() {
		a.Flush(ctx)
	})
}

// Flush applies any pending add immediately.
func (a *AddGuard) Flush(ctx context.Context) {
	a.mu.Lock()
	flush := a.pending
	a.pending = nil
	a.mu.Unlock()

	if flush != nil {
		a.store.AddToCart(ctx, flush.product, flush.quantity)
	}
}

// Stop drops the timer without applying a pending add.
func (a *AddGuard) Stop() {
	a.debounce.Stop()
}
