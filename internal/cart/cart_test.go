package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetcart/catalog-service/internal/pricing"
)

func vehicle(id int64, dealerNet int64) pricing.VehicleSummary {
	return pricing.VehicleSummary{
		VehicleID: id,
		Year:      2025,
		Make:      "Nissan",
		Model:     "Altima",
		Trim:      "SV",
		MSRP:      dealerNet + 3000,
		Invoice:   dealerNet + 1000,
		DealerNet: dealerNet,
	}
}

func TestAddNewItem(t *testing.T) {
	c, err := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	item := c.Items[0]
	assert.Equal(t, int64(21000), item.UnitPrice)
	assert.Equal(t, int64(42000), item.TotalPrice)
	assert.Equal(t, int64(2000), item.Savings)
	assert.Equal(t, int64(50000), c.TotalValue)
	assert.Equal(t, int64(42000), c.TotalEffectiveValue)
	assert.Equal(t, int64(2000), c.TotalSavings)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()

	for _, qty := range []int{0, -1} {
		got, err := c.Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{}, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, c, got, "cart must be unchanged on rejected add")
	}
}

func TestAddMergesSameVehicleAndTier(t *testing.T) {
	v := vehicle(1, 22000)
	c, err := New().Add(v, pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)
	require.NoError(t, err)
	first := c.Items[0].Pricing

	// Second add supplies different incentives; the original snapshot
	// must win so the quoted line does not shift under the buyer.
	c, err = c.Add(v, pricing.Level3, pricing.IncentiveAmounts{Level3: 9999}, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, first, c.Items[0].Pricing)
	assert.Equal(t, int64(21000)*3, c.Items[0].TotalPrice)
}

func TestAddSameVehicleDifferentTiers(t *testing.T) {
	v := vehicle(1, 22000)
	c, err := New().Add(v, pricing.Level3, pricing.IncentiveAmounts{Level3: 1000, Level4: 1500}, 1)
	require.NoError(t, err)
	c, err = c.Add(v, pricing.Level4, pricing.IncentiveAmounts{Level3: 1000, Level4: 1500}, 1)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, int64(21000), c.Items[0].UnitPrice)
	assert.Equal(t, int64(20500), c.Items[1].UnitPrice)
}

func TestRemoveDeletesAllTiers(t *testing.T) {
	v := vehicle(1, 22000)
	c, _ := New().Add(v, pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)
	c, _ = c.Add(v, pricing.Level4, pricing.IncentiveAmounts{Level4: 1500}, 1)
	c, _ = c.Add(vehicle(2, 30000), pricing.Level3, pricing.IncentiveAmounts{}, 1)

	c = c.Remove(1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(2), c.Items[0].VehicleID)
}

func TestRemoveIsIdempotent(t *testing.T) {
	c, _ := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{}, 1)

	once := c.Remove(1)
	twice := once.Remove(1)

	assert.Equal(t, once, twice)
	assert.Empty(t, twice.Items)
	assert.Zero(t, twice.TotalEffectiveValue)
}

func TestRemoveAbsentVehicleIsNoOp(t *testing.T) {
	c, _ := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{}, 1)

	got := c.Remove(99)

	assert.Equal(t, c, got)
}

func TestRemoveAtKeepsOtherTier(t *testing.T) {
	v := vehicle(1, 22000)
	c, _ := New().Add(v, pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)
	c, _ = c.Add(v, pricing.Level4, pricing.IncentiveAmounts{Level4: 1500}, 1)

	c = c.RemoveAt(1, pricing.Level3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, pricing.Level4, c.Items[0].PriceLevel)
}

func TestSetQuantityUpdatesLineAndTotals(t *testing.T) {
	c, _ := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)

	c = c.SetQuantity(1, 5)

	item := c.Items[0]
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, int64(21000)*5, item.TotalPrice)
	assert.Equal(t, int64(1000)*5, item.Savings)
	assert.Equal(t, item.TotalPrice, c.TotalEffectiveValue)
	assert.Equal(t, item.Savings, c.TotalSavings)
}

func TestSetQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -3} {
		c, _ := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{}, 2)

		c = c.SetQuantity(1, qty)

		assert.Empty(t, c.Items)
		assert.Zero(t, c.TotalValue)
	}
}

func TestSetQuantityFirstMatchWinsAcrossTiers(t *testing.T) {
	v := vehicle(1, 22000)
	c, _ := New().Add(v, pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)
	c, _ = c.Add(v, pricing.Level4, pricing.IncentiveAmounts{Level4: 1500}, 1)

	c = c.SetQuantity(1, 4)

	assert.Equal(t, 4, c.Items[0].Quantity, "first line in insertion order is updated")
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestSetQuantityAtTargetsSingleTier(t *testing.T) {
	v := vehicle(1, 22000)
	c, _ := New().Add(v, pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)
	c, _ = c.Add(v, pricing.Level4, pricing.IncentiveAmounts{Level4: 1500}, 1)

	c = c.SetQuantityAt(1, pricing.Level4, 7)

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 7, c.Items[1].Quantity)
}

func TestClear(t *testing.T) {
	c, _ := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{}, 3)

	c = c.Clear()

	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalValue)
	assert.Zero(t, c.TotalSavings)
	assert.Zero(t, c.TotalEffectiveValue)
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	base, _ := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)
	snapshot, _ := New().Add(vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 1)

	_, _ = base.Add(vehicle(2, 30000), pricing.Level3, pricing.IncentiveAmounts{}, 1)
	_ = base.SetQuantity(1, 9)
	_ = base.Remove(1)

	assert.Equal(t, snapshot, base)
}

// Aggregates must equal the wholesale sum over items after every
// mutation in any add sequence.
func TestAggregateConsistency(t *testing.T) {
	type step struct {
		v   pricing.VehicleSummary
		lvl pricing.Level
		inc pricing.IncentiveAmounts
		qty int
	}
	steps := []step{
		{vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 2},
		{vehicle(2, 30000), pricing.Level4, pricing.IncentiveAmounts{Level4: 2500}, 1},
		{vehicle(1, 22000), pricing.Level3, pricing.IncentiveAmounts{Level3: 1000}, 3},
		{vehicle(3, 5000), pricing.Level3, pricing.IncentiveAmounts{Level3: 7500}, 1}, // negative effective price
	}

	c := New()
	for _, s := range steps {
		var err error
		c, err = c.Add(s.v, s.lvl, s.inc, s.qty)
		require.NoError(t, err)

		var value, savings, effective int64
		for _, item := range c.Items {
			value += item.Pricing.MSRP * int64(item.Quantity)
			savings += item.Savings
			effective += item.TotalPrice
		}
		assert.Equal(t, value, c.TotalValue)
		assert.Equal(t, savings, c.TotalSavings)
		assert.Equal(t, effective, c.TotalEffectiveValue)
	}
}

// Worked example: vehicle A (dealer net 25000, level-3 incentive 2000)
// twice, vehicle B (dealer net 30000, no incentive) once.
func TestEndToEndTotals(t *testing.T) {
	c := New()
	c, err := c.Add(vehicle(1, 25000), pricing.Level3, pricing.IncentiveAmounts{Level3: 2000}, 2)
	require.NoError(t, err)
	c, err = c.Add(vehicle(2, 30000), pricing.Level3, pricing.IncentiveAmounts{}, 1)
	require.NoError(t, err)

	assert.Equal(t, int64((25000-2000)*2+30000), c.TotalEffectiveValue)
	assert.Equal(t, int64(4000), c.TotalSavings)
}
