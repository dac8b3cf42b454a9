// Package cart maintains the buyer's vehicle selections and their
// aggregate totals. A Cart is a value: every operation returns a new
// Cart and leaves the receiver untouched, so callers re-render from
// the returned state and never observe a half-applied mutation.
package cart

import (
	"errors"

	"github.com/fleetcart/catalog-service/internal/pricing"
)

// ErrInvalidQuantity is returned when a positive quantity is required
// but a non-positive one was supplied. Callers should treat it as a
// validation failure, not retry.
var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

// Item is one cart line. The key is (VehicleID, PriceLevel): the same
// vehicle at both tiers is two distinct lines. Pricing is a snapshot
// taken when the line was first added and is never refreshed, so a
// later catalog price change cannot silently alter a quoted line.
type Item struct {
	VehicleID  int64                  `json:"vehicleId"`
	Vehicle    pricing.VehicleSummary `json:"vehicle"`
	Quantity   int                    `json:"quantity"`
	PriceLevel pricing.Level          `json:"priceLevel"`
	Pricing    pricing.Breakdown      `json:"pricing"`

	// Derived per-line values, recomputed whenever Quantity changes.
	UnitPrice  int64 `json:"unitPrice"`
	TotalPrice int64 `json:"totalPrice"`
	Savings    int64 `json:"savings"`
}

// Cart is an ordered sequence of items (insertion order) plus aggregates.
// Aggregates are always the wholesale sum over current items; they are
// recomputed from scratch on every mutation rather than patched
// incrementally, so they cannot drift.
type Cart struct {
	Items               []Item `json:"items"`
	TotalValue          int64  `json:"totalValue"`
	TotalSavings        int64  `json:"totalSavings"`
	TotalEffectiveValue int64  `json:"totalEffectiveValue"`
}

// New returns an empty cart.
func New() Cart {
	return Cart{Items: []Item{}}
}

// Add puts quantity units of the vehicle at the given tier into the
// cart. If a line for (vehicle, level) already exists its quantity
// grows and its pricing snapshot is kept; otherwise a new line is
// appended with pricing computed from the supplied incentive amounts.
func (c Cart) Add(v pricing.VehicleSummary, level pricing.Level, incentives pricing.IncentiveAmounts, quantity int) (Cart, error) {
	if quantity < 1 {
		return c, ErrInvalidQuantity
	}

	items := cloneItems(c.Items)
	merged := false
	for i := range items {
		if items[i].VehicleID == v.VehicleID && items[i].PriceLevel == level {
			items[i].Quantity += quantity
			items[i] = reprice(items[i])
			merged = true
			break
		}
	}

	if !merged {
		item := Item{
			VehicleID:  v.VehicleID,
			Vehicle:    v,
			Quantity:   quantity,
			PriceLevel: level,
			Pricing:    pricing.ComputeBreakdown(v, incentives),
		}
		items = append(items, reprice(item))
	}

	return recalculate(items), nil
}

// Remove deletes every line for the vehicle across all tiers. Removing
// an absent vehicle is a no-op.
//
// Keying by vehicle id alone mirrors how the storefront has always
// behaved; RemoveAt is the tier-precise form.
func (c Cart) Remove(vehicleID int64) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.VehicleID != vehicleID {
			items = append(items, item)
		}
	}
	return recalculate(items)
}

// RemoveAt deletes only the line for (vehicle, level). No-op if absent.
func (c Cart) RemoveAt(vehicleID int64, level pricing.Level) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.VehicleID != vehicleID || item.PriceLevel != level {
			items = append(items, item)
		}
	}
	return recalculate(items)
}

// SetQuantity updates the quantity of the first line (in insertion
// order) matching the vehicle id and recomputes its derived values.
// A quantity of zero or less removes the vehicle entirely. When a
// vehicle is present at both tiers, use SetQuantityAt to disambiguate.
func (c Cart) SetQuantity(vehicleID int64, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(vehicleID)
	}

	items := cloneItems(c.Items)
	for i := range items {
		if items[i].VehicleID == vehicleID {
			items[i].Quantity = quantity
			items[i] = reprice(items[i])
			break
		}
	}
	return recalculate(items)
}

// SetQuantityAt is SetQuantity keyed by the full (vehicle, level) pair.
func (c Cart) SetQuantityAt(vehicleID int64, level pricing.Level, quantity int) Cart {
	if quantity <= 0 {
		return c.RemoveAt(vehicleID, level)
	}

	items := cloneItems(c.Items)
	for i := range items {
		if items[i].VehicleID == vehicleID && items[i].PriceLevel == level {
			items[i].Quantity = quantity
			items[i] = reprice(items[i])
			break
		}
	}
	return recalculate(items)
}

// Clear returns an empty cart with zeroed aggregates.
func (c Cart) Clear() Cart {
	return New()
}

// Len returns the number of lines in the cart.
func (c Cart) Len() int {
	return len(c.Items)
}

// reprice refreshes an item's derived values from its pricing snapshot
// and current quantity.
func reprice(item Item) Item {
	item.UnitPrice = item.Pricing.EffectivePrice.ForLevel(item.PriceLevel)
	item.TotalPrice = item.UnitPrice * int64(item.Quantity)
	item.Savings = item.Pricing.Savings.ForLevel(item.PriceLevel) * int64(item.Quantity)
	return item
}

// recalculate builds a cart whose aggregates are the wholesale sums
// over the given items.
func recalculate(items []Item) Cart {
	cart := Cart{Items: items}
	for _, item := range items {
		cart.TotalValue += item.Pricing.MSRP * int64(item.Quantity)
		cart.TotalSavings += item.Savings
		cart.TotalEffectiveValue += item.TotalPrice
	}
	return cart
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
