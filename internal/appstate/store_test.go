package appstate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetcart/catalog-service/internal/filter"
	"github.com/fleetcart/catalog-service/internal/pricing"
)

// memPersister is an in-memory Persister for testing the
// snapshot/restore round trip.
type memPersister struct {
	data map[string][]byte
}

func newMemPersister() *memPersister {
	return &memPersister{data: map[string][]byte{}}
}

func (m *memPersister) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *memPersister) Save(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

func testVehicle() pricing.VehicleSummary {
	return pricing.VehicleSummary{
		VehicleID: 42,
		Year:      2025,
		Make:      "Nissan",
		Model:     "Rogue",
		Trim:      "SL",
		MSRP:      38000,
		Invoice:   36000,
		DealerNet: 35000,
	}
}

func ptr(v int64) *int64 { return &v }

func TestStoreCartOperations(t *testing.T) {
	s := NewStore(nil)

	require.NoError(t, s.AddToCart(testVehicle(), pricing.Level3, pricing.IncentiveAmounts{Level3: 2000}, 2))
	assert.Equal(t, int64(66000), s.Cart().TotalEffectiveValue)

	s.SetCartQuantity(42, 1)
	assert.Equal(t, int64(33000), s.Cart().TotalEffectiveValue)

	s.RemoveFromCart(42)
	assert.Empty(t, s.Cart().Items)
}

func TestStoreAddToCartRejectsBadQuantity(t *testing.T) {
	s := NewStore(nil)

	err := s.AddToCart(testVehicle(), pricing.Level3, pricing.IncentiveAmounts{}, 0)

	assert.Error(t, err)
	assert.Empty(t, s.Cart().Items)
}

func TestStoreFilterCascade(t *testing.T) {
	s := NewStore(nil)
	s.ApplyFilter(filter.KeyYear, ptr(2024))
	s.ApplyFilter(filter.KeyMake, ptr(1))
	s.ApplyFilter(filter.KeyModel, ptr(5))
	s.ApplyFilter(filter.KeyTrim, ptr(9))

	sel := s.ApplyFilter(filter.KeyMake, ptr(2))

	assert.Equal(t, int64(2024), *sel.YearID)
	assert.Equal(t, int64(2), *sel.MakeID)
	assert.Nil(t, sel.ModelID)
	assert.Nil(t, sel.TrimID)
}

func TestStoreSavedFilters(t *testing.T) {
	s := NewStore(nil)
	sel := filter.Apply(filter.Reset(), filter.KeyYear, ptr(2024))

	s.SaveFilter("suvs", sel)

	loaded := s.LoadFilter("suvs")
	require.NotNil(t, loaded)
	assert.Equal(t, sel, *loaded)
	assert.Nil(t, s.LoadFilter("missing"), "absent filter loads as nil, not an error")
}

func TestStorePersistRestoreRoundTrip(t *testing.T) {
	p := newMemPersister()
	ctx := context.Background()

	s := NewStore(p)
	require.NoError(t, s.AddToCart(testVehicle(), pricing.Level4, pricing.IncentiveAmounts{Level4: 1500}, 1))
	s.SetViewMode(ViewModeList)
	s.SaveFilter("base", filter.Apply(filter.Reset(), filter.KeyYear, ptr(2025)))
	s.AddChatMessage(ChatMessage{ID: "m1", Role: "user", Content: "show me SUVs", Timestamp: time.Now().UTC()})
	require.NoError(t, s.Persist(ctx))

	restored := NewStore(p)
	require.NoError(t, restored.Restore(ctx))

	assert.Equal(t, s.Cart(), restored.Cart())
	assert.Equal(t, ViewModeList, restored.ViewMode())
	assert.Equal(t, s.SavedFilters(), restored.SavedFilters())
	require.Len(t, restored.ChatHistory(), 1)
	assert.Equal(t, "show me SUVs", restored.ChatHistory()[0].Content)
}

func TestStoreRestoreOnlyPersistedSubset(t *testing.T) {
	p := newMemPersister()
	ctx := context.Background()

	s := NewStore(p)
	s.ApplyFilter(filter.KeyYear, ptr(2024)) // transient, must not survive
	require.NoError(t, s.Persist(ctx))

	restored := NewStore(p)
	require.NoError(t, restored.Restore(ctx))

	assert.Equal(t, filter.Reset(), restored.Selection())
}

func TestStoreRestoreWithoutSnapshotIsNoOp(t *testing.T) {
	s := NewStore(newMemPersister())

	require.NoError(t, s.Restore(context.Background()))

	assert.Equal(t, ViewModeGrid, s.ViewMode())
	assert.Empty(t, s.Cart().Items)
}

func TestSnapshotIsDetachedFromLiveState(t *testing.T) {
	s := NewStore(nil)
	s.SaveFilter("base", filter.Apply(filter.Reset(), filter.KeyYear, ptr(2025)))
	s.AddChatMessage(ChatMessage{ID: "m1", Role: "user", Content: "hello"})

	snap := s.Snapshot()

	s.SaveFilter("extra", filter.Reset())
	s.AddChatMessage(ChatMessage{ID: "m2", Role: "assistant", Content: "hi"})

	assert.Len(t, snap.SavedFilters, 1, "snapshot must not see later filter writes")
	assert.Len(t, snap.ChatHistory, 1, "snapshot must not see later chat appends")
}

func TestPersistConcurrentWithSaveFilter(t *testing.T) {
	p := newMemPersister()
	ctx := context.Background()
	s := NewStore(p)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.SaveFilter(fmt.Sprintf("f%d", i), filter.Reset())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			assert.NoError(t, s.Persist(ctx))
		}
	}()
	wg.Wait()

	assert.Len(t, s.SavedFilters(), 1000)
}

func TestStoreReset(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.AddToCart(testVehicle(), pricing.Level3, pricing.IncentiveAmounts{}, 1))
	s.SetViewMode(ViewModeComparison)
	s.AddChatMessage(ChatMessage{ID: "m1"})

	s.Reset()

	assert.Empty(t, s.Cart().Items)
	assert.Equal(t, ViewModeGrid, s.ViewMode())
	assert.Empty(t, s.ChatHistory())
}
