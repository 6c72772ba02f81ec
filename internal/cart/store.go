// Package cart owns the durable shopping cart. It is independent of the
// session: the cart survives logout and is only wiped explicitly or when the
// persisted blob turns out to be corrupt.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
	"github.com/angelmondragon/packfinderz-storefront/pkg/storage"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/google/uuid"
)

// Listener receives every published cart snapshot in publish order. Listeners
// run inside the store's critical section and must not call back into it.
type Listener func(Cart)

// Store maintains the cart state behind a single-writer mutex.
type Store struct {
	blob    storage.Blob
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	mu          sync.Mutex
	cart        Cart
	visible     bool
	subscribers map[int]Listener
	nextSub     int

	// scrollLock mirrors cart visibility onto the host document. Optional.
	scrollLock func(locked bool)

	now   func() time.Time
	newID func() string
}

// Params wires the store's collaborators.
type Params struct {
	Blob       storage.Blob
	Logger     *logger.Logger
	Metrics    *metrics.StoreMetrics
	ScrollLock func(locked bool)
}

// New builds the store and reloads any persisted cart. Corrupt or unreadable
// state degrades to an empty cart; it is never surfaced to the caller.
func New(ctx context.Context, params Params) (*Store, error) {
	if params.Blob == nil {
		return nil, fmt.Errorf("blob storage is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	s := &Store{
		blob:        params.Blob,
		logg:        params.Logger,
		metrics:     params.Metrics,
		scrollLock:  params.ScrollLock,
		cart:        Empty(),
		subscribers: map[int]Listener{},
		now:         time.Now,
		newID:       uuid.NewString,
	}
	s.reload(ctx)
	return s, nil
}

// AddToCart merges the product into the cart; quantities below one count as
// one and the stored quantity is clamped to the product's available stock.
func (s *Store) AddToCart(ctx context.Context, product types.Product, quantity int) Cart {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if product.AvailableStock < 1 {
		s.logg.Warn(s.logg.WithProductID(ctx, product.ID), "cart.add.out_of_stock")
		return s.cart.clone()
	}

	now := s.now()
	if len(s.cart.Items) == 0 && s.cart.CreatedAt.IsZero() {
		s.cart.CreatedAt = now
	}

	found := false
	for i := range s.cart.Items {
		if s.cart.Items[i].Product.ID == product.ID {
			s.cart.Items[i].Quantity = clamp(s.cart.Items[i].Quantity+quantity, product.AvailableStock)
			found = true
			break
		}
	}
	if !found {
		s.cart.Items = append(s.cart.Items, Item{
			ID:        s.newID(),
			Product:   product,
			Quantity:  clamp(quantity, product.AvailableStock),
			UnitPrice: product.Price,
			AddedAt:   now,
		})
	}

	return s.commitLocked(ctx, "add_to_cart")
}

// UpdateQuantity sets a line's quantity; zero or below removes the line,
// anything else is clamped to the product's stock.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ID != itemID {
			continue
		}
		if quantity <= 0 {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
		} else {
			s.cart.Items[i].Quantity = clamp(quantity, s.cart.Items[i].Product.AvailableStock)
		}
		return s.commitLocked(ctx, "update_quantity")
	}

	// Unknown line: republish the unchanged state.
	snap := s.cart.clone()
	s.deliverLocked(snap)
	return snap
}

// RemoveFromCart deletes the line. Unknown ids republish the current state.
func (s *Store) RemoveFromCart(ctx context.Context, itemID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			return s.commitLocked(ctx, "remove_from_cart")
		}
	}

	snap := s.cart.clone()
	s.deliverLocked(snap)
	return snap
}

// ClearCart wipes both the in-memory and the persisted state.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Empty()
	if err := s.blob.Delete(ctx, storage.KeyCart); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "cart.clear.persist_failed")
	}
	s.metrics.IncCartMutation("clear_cart")
	s.deliverLocked(s.cart.clone())
}

// IsProductInCart reports whether a line exists for the product.
func (s *Store) IsProductInCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.cart.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// GetQuantity returns the line quantity for the product, zero when absent.
func (s *Store) GetQuantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.cart.Items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ToggleCart flips the cart drawer visibility and mirrors it onto the host
// document's scroll lock. Pure view state; cart data is untouched.
func (s *Store) ToggleCart() bool {
	s.mu.Lock()
	s.visible = !s.visible
	visible := s.visible
	lock := s.scrollLock
	s.mu.Unlock()

	if lock != nil {
		lock(visible)
	}
	return visible
}

// IsVisible reports the drawer state.
func (s *Store) IsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Snapshot returns an immutable copy of the current cart.
func (s *Store) Snapshot() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.clone()
}

// Subscribe registers a listener for future snapshots and returns its cancel
// function. The current snapshot is delivered immediately.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = listener
	listener(s.cart.clone())
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// commitLocked recomputes totals, persists, publishes, and returns the new
// snapshot. Persistence failures are logged and swallowed.
func (s *Store) commitLocked(ctx context.Context, op string) Cart {
	s.cart.recompute(s.now())
	s.persistLocked(ctx)
	s.metrics.IncCartMutation(op)
	snap := s.cart.clone()
	s.deliverLocked(snap)
	return snap
}

func (s *Store) deliverLocked(snap Cart) {
	for _, listener := range s.subscribers {
		listener(snap)
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.cart)
	if err != nil {
		s.logg.Error(ctx, "cart.persist.encode_failed", err)
		return
	}
	if err := s.blob.Store(ctx, storage.KeyCart, data); err != nil {
		s.logg.Error(ctx, "cart.persist.write_failed", err)
	}
}

// reload restores the persisted cart; corruption wipes the blob and starts
// from empty.
func (s *Store) reload(ctx context.Context) {
	data, err := s.blob.Load(ctx, storage.KeyCart)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "cart.reload.read_failed")
		}
		return
	}
	var restored Cart
	if err := json.Unmarshal(data, &restored); err != nil {
		s.logg.Warn(ctx, "cart.reload.corrupt")
		if err := s.blob.Delete(ctx, storage.KeyCart); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "cart.reload.wipe_failed")
		}
		return
	}
	s.cart = restored
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	return quantity
}
