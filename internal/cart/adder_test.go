package cart

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/storage"
	"github.com/stretchr/testify/require"
)

func TestAddGuardCollapsesClickBurst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, storage.NewMemStore())
	guard := NewAddGuard(store, 20*time.Millisecond)
	defer guard.Stop()

	for i := 0; i < 5; i++ {
		guard.Add(ctx, testProduct("p1", "10.00", 50), 1)
	}

	// Nothing lands before the quiet window passes.
	require.Empty(t, store.Snapshot().Items)

	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return len(snap.Items) == 1 && snap.Items[0].Quantity == 5
	}, time.Second, 5*time.Millisecond, "burst should land as one line with the accumulated quantity")
	checkTotals(t, store.Snapshot())
}

func TestAddGuardFlushesOnProductSwitch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, storage.NewMemStore())
	guard := NewAddGuard(store, time.Minute)
	defer guard.Stop()

	guard.Add(ctx, testProduct("p1", "10.00", 50), 2)
	guard.Add(ctx, testProduct("p2", "3.50", 10), 1)

	// Switching products applies the first add immediately.
	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	require.Equal(t, "p1", snap.Items[0].Product.ID)
	require.Equal(t, 2, snap.Items[0].Quantity)

	guard.Flush(ctx)
	snap = store.Snapshot()
	require.Len(t, snap.Items, 2)
	checkTotals(t, snap)
}

func TestAddGuardFlushWithoutPendingIsNoop(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, storage.NewMemStore())
	guard := NewAddGuard(store, time.Minute)
	guard.Flush(context.Background())
	require.Empty(t, store.Snapshot().Items)
}
