// Package appstate holds the presentation layer's session state: the
// cart, the active filter selection, saved filters, view mode, and
// chat history. The storefront's old app-wide singleton is replaced by
// an explicit Store constructed at startup; only a fixed subset of the
// state survives restarts, through an explicit snapshot/restore pair.
package appstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fleetcart/catalog-service/internal/cart"
	"github.com/fleetcart/catalog-service/internal/filter"
	"github.com/fleetcart/catalog-service/internal/pricing"
)

// StorageKey is the fixed identifier under which the persisted subset
// is stored.
const StorageKey = "fleet-catalog-store"

// ViewMode selects how search results are rendered.
type ViewMode string

const (
	ViewModeGrid       ViewMode = "grid"
	ViewModeList       ViewMode = "list"
	ViewModeComparison ViewMode = "comparison"
)

// ChatMessage is one entry in the assistant chat transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is exactly the persisted subset of the store. Everything
// not listed here is transient and rebuilt from fresh catalog calls.
type Snapshot struct {
	Cart         cart.Cart                   `json:"cart"`
	ViewMode     ViewMode                    `json:"viewMode"`
	SavedFilters map[string]filter.Selection `json:"savedFilters"`
	ChatHistory  []ChatMessage               `json:"chatHistory"`
}

// Persister loads and saves opaque snapshots keyed by a storage
// identifier. Implementations own all I/O concerns; the store treats
// the payload as a blob.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Store is the session state container. All access goes through its
// methods; concurrent callers are serialized by the internal mutex
// with last-writer-wins semantics, matching how the single-threaded
// storefront behaved.
type Store struct {
	mu sync.Mutex

	cart         cart.Cart
	selection    filter.Selection
	viewMode     ViewMode
	savedFilters map[string]filter.Selection
	chatHistory  []ChatMessage

	persister Persister
}

// NewStore builds an empty store. The persister may be nil, in which
// case Persist and Restore are no-ops.
func NewStore(p Persister) *Store {
	return &Store{
		cart:         cart.New(),
		viewMode:     ViewModeGrid,
		savedFilters: map[string]filter.Selection{},
		persister:    p,
	}
}

// AddToCart adds a vehicle at the given tier.
func (s *Store) AddToCart(v pricing.VehicleSummary, level pricing.Level, incentives pricing.IncentiveAmounts, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.cart.Add(v, level, incentives, quantity)
	if err != nil {
		return err
	}
	s.cart = next
	return nil
}

// RemoveFromCart removes every line for the vehicle.
func (s *Store) RemoveFromCart(vehicleID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Remove(vehicleID)
}

// SetCartQuantity re-quantifies the vehicle's line; non-positive
// quantities remove it.
func (s *Store) SetCartQuantity(vehicleID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.SetQuantity(vehicleID, quantity)
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Clear()
}

// Cart returns the current cart value.
func (s *Store) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// ApplyFilter changes one filter key and cascades dependent resets.
func (s *Store) ApplyFilter(key filter.Key, value *int64) filter.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = filter.Apply(s.selection, key, value)
	return s.selection
}

// ResetFilters clears the active selection.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = filter.Reset()
}

// Selection returns the active filter selection.
func (s *Store) Selection() filter.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// SaveFilter stores the selection under a name, overwriting any
// previous filter with that name.
func (s *Store) SaveFilter(name string, sel filter.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedFilters[name] = sel
}

// LoadFilter returns the named saved filter, or nil when absent.
// Absence is not an error.
func (s *Store) LoadFilter(name string) *filter.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.savedFilters[name]
	if !ok {
		return nil
	}
	return &sel
}

// SavedFilterNames returns the saved filter names in no particular
// order.
func (s *Store) SavedFilterNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.savedFilters))
	for name := range s.savedFilters {
		names = append(names, name)
	}
	return names
}

// SavedFilters returns a copy of the saved filter map.
func (s *Store) SavedFilters() map[string]filter.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]filter.Selection, len(s.savedFilters))
	for name, sel := range s.savedFilters {
		out[name] = sel
	}
	return out
}

// SetViewMode switches the result rendering mode.
func (s *Store) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMode = mode
}

// ViewMode returns the current rendering mode.
func (s *Store) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// AddChatMessage appends a message to the chat transcript.
func (s *Store) AddChatMessage(msg ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatHistory = append(s.chatHistory, msg)
}

// ChatHistory returns a copy of the chat transcript.
func (s *Store) ChatHistory() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.chatHistory))
	copy(out, s.chatHistory)
	return out
}

// ClearChatHistory drops the chat transcript.
func (s *Store) ClearChatHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatHistory = nil
}

// Reset returns the store to its initial, empty state. Persisted data
// is untouched until the next Persist.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.New()
	s.selection = filter.Reset()
	s.viewMode = ViewModeGrid
	s.savedFilters = map[string]filter.Selection{}
	s.chatHistory = nil
}

// Snapshot serializes the persisted subset. The map and slice are
// copied under the lock; callers (Persist in particular) read the
// snapshot after the lock is released, so handing out the live
// references would race with concurrent mutations.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	filters := make(map[string]filter.Selection, len(s.savedFilters))
	for name, sel := range s.savedFilters {
		filters[name] = sel
	}
	history := make([]ChatMessage, len(s.chatHistory))
	copy(history, s.chatHistory)

	return Snapshot{
		Cart:         s.cart,
		ViewMode:     s.viewMode,
		SavedFilters: filters,
		ChatHistory:  history,
	}
}

// Persist writes the persisted subset through the configured persister.
func (s *Store) Persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode state snapshot: %w", err)
	}
	if err := s.persister.Save(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save state snapshot: %w", err)
	}
	return nil
}

// Restore loads the persisted subset, if any, into the store. Missing
// data leaves the store in its initial state.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	data, ok, err := s.persister.Load(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to load state snapshot: %w", err)
	}
	if !ok {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode state snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = snap.Cart
	s.viewMode = snap.ViewMode
	if s.viewMode == "" {
		s.viewMode = ViewModeGrid
	}
	s.savedFilters = snap.SavedFilters
	if s.savedFilters == nil {
		s.savedFilters = map[string]filter.Selection{}
	}
	s.chatHistory = snap.ChatHistory
	return nil
}
