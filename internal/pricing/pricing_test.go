package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBreakdown(t *testing.T) {
	v := VehicleSummary{
		VehicleID: 1,
		MSRP:      25000,
		Invoice:   23000,
		DealerNet: 22000,
	}

	b := ComputeBreakdown(v, IncentiveAmounts{Level3: 1000, Level4: 1500})

	assert.Equal(t, int64(25000), b.MSRP)
	assert.Equal(t, int64(23000), b.FactoryDealerInvoice)
	assert.Equal(t, int64(22000), b.DealerNet)
	assert.Equal(t, int64(21000), b.EffectivePrice.Level3)
	assert.Equal(t, int64(20500), b.EffectivePrice.Level4)
	assert.Equal(t, int64(1000), b.Savings.Level3)
	assert.Equal(t, int64(1500), b.Savings.Level4)
}

func TestComputeBreakdownZeroIncentives(t *testing.T) {
	v := VehicleSummary{DealerNet: 30000}

	b := ComputeBreakdown(v, IncentiveAmounts{})

	assert.Equal(t, int64(30000), b.EffectivePrice.Level3)
	assert.Equal(t, int64(30000), b.EffectivePrice.Level4)
	assert.Zero(t, b.Savings.Level3)
	assert.Zero(t, b.Savings.Level4)
}

// An incentive larger than dealer net must produce a negative effective
// price rather than being clamped: a data problem upstream should stay
// visible downstream.
func TestComputeBreakdownNegativeEffectivePrice(t *testing.T) {
	v := VehicleSummary{DealerNet: 5000}

	b := ComputeBreakdown(v, IncentiveAmounts{Level3: 7500})

	assert.Equal(t, int64(-2500), b.EffectivePrice.Level3)
	assert.Equal(t, int64(7500), b.Savings.Level3)
}

func TestBreakdownInvariant(t *testing.T) {
	v := VehicleSummary{DealerNet: 41000}
	b := ComputeBreakdown(v, IncentiveAmounts{Level3: 2000, Level4: 3250})

	for _, level := range []Level{Level3, Level4} {
		assert.Equal(t, b.DealerNet-b.Savings.ForLevel(level), b.EffectivePrice.ForLevel(level))
	}
}

func TestLevelValid(t *testing.T) {
	assert.True(t, Level3.Valid())
	assert.True(t, Level4.Valid())
	assert.False(t, Level(0).Valid())
	assert.False(t, Level(5).Valid())
}

func TestIncentiveAmountsForLevel(t *testing.T) {
	a := IncentiveAmounts{Level3: 100, Level4: 200}

	assert.Equal(t, int64(100), a.ForLevel(Level3))
	assert.Equal(t, int64(200), a.ForLevel(Level4))
	assert.Zero(t, a.ForLevel(Level(9)))
}
