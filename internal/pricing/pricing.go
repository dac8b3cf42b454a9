// Package pricing computes per-vehicle price breakdowns under the two
// fleet incentive tiers. Everything here is pure computation over
// in-memory values; callers are expected to hand in already-validated
// catalog data.
package pricing

// Level identifies a fleet incentive tier. Only levels 3 and 4 exist
// in this program.
type Level int

const (
	Level3 Level = 3
	Level4 Level = 4
)

// Valid reports whether the level is one of the two defined tiers.
func (l Level) Valid() bool {
	return l == Level3 || l == Level4
}

// VehicleSummary identifies a catalog entry as returned by vehicle
// search. Immutable once fetched; cart items reference it but do not
// own it. Monetary amounts are whole currency units.
type VehicleSummary struct {
	VehicleID             int64  `json:"vehicleId"`
	Year                  int    `json:"year"`
	Make                  string `json:"make"`
	Model                 string `json:"model"`
	Trim                  string `json:"trim"`
	BodyType              string `json:"bodyType"`
	DriveType             string `json:"driveType"`
	PrimaryIdentification string `json:"primaryIdentification"`
	MSRP                  int64  `json:"msrp"`
	Invoice               int64  `json:"invoice"`
	DealerNet             int64  `json:"dealerNet"`
}

// IncentiveAmounts holds the incentive amount per tier for a vehicle.
// A vehicle has at most one amount per tier; zero means no incentive.
type IncentiveAmounts struct {
	Level3 int64 `json:"level3"`
	Level4 int64 `json:"level4"`
}

// ForLevel returns the amount for the given tier. Unknown levels map
// to zero.
func (a IncentiveAmounts) ForLevel(l Level) int64 {
	switch l {
	case Level3:
		return a.Level3
	case Level4:
		return a.Level4
	}
	return 0
}

// TierValues carries one value per incentive tier.
type TierValues struct {
	Level3 int64 `json:"level3"`
	Level4 int64 `json:"level4"`
}

// ForLevel returns the value for the given tier, zero for unknown levels.
func (t TierValues) ForLevel(l Level) int64 {
	switch l {
	case Level3:
		return t.Level3
	case Level4:
		return t.Level4
	}
	return 0
}

// Breakdown is the derived per-vehicle pricing view. It is computed,
// never stored.
//
// EffectivePrice is dealer net minus the tier incentive with no floor
// at zero: an incentive exceeding dealer net produces a negative
// effective price on purpose, so that bad upstream data is surfaced
// instead of masked.
type Breakdown struct {
	MSRP                 int64            `json:"msrp"`
	FactoryDealerInvoice int64            `json:"factoryDealerInvoice"`
	DealerNet            int64            `json:"dealerNet"`
	Incentives           IncentiveAmounts `json:"incentives"`
	EffectivePrice       TierValues       `json:"effectivePrice"`
	Savings              TierValues       `json:"savings"`
}

// ComputeBreakdown derives the full pricing breakdown for a vehicle
// given its per-tier incentive amounts. Pure function of its inputs.
func ComputeBreakdown(v VehicleSummary, incentives IncentiveAmounts) Breakdown {
	return Breakdown{
		MSRP:                 v.MSRP,
		FactoryDealerInvoice: v.Invoice,
		DealerNet:            v.DealerNet,
		Incentives:           incentives,
		EffectivePrice: TierValues{
			Level3: v.DealerNet - incentives.Level3,
			Level4: v.DealerNet - incentives.Level4,
		},
		Savings: TierValues{
			Level3: incentives.Level3,
			Level4: incentives.Level4,
		},
	}
}
