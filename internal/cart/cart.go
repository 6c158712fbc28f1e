// Package cart holds the session-scoped shopping cart: an ordered list of
// (product snapshot, quantity) line items persisted to a durable slot with a
// retention window, plus derived totals.
package cart

import (
	"encoding/json"
	"sync"
	"time"

	"noithat/internal/domain"
)

// RetentionWindow bounds the age of a persisted snapshot. Older snapshots are
// discarded on load as if the cart never existed.
const RetentionWindow = 15 * 24 * time.Hour

// LineItem pairs a product snapshot taken at add-time with a quantity.
// Catalog changes after the add do not reach items already in the cart.
type LineItem struct {
	Product  domain.Product `json:"sanPham"`
	Quantity int            `json:"soLuong"`
}

func (li LineItem) Subtotal() int64 {
	return li.Product.Price * int64(li.Quantity)
}

// Store is the single source of truth for one session's cart. Mutations keep
// two invariants: at most one line item per product id, and every quantity
// >= 1. Every successful mutation persists a fresh snapshot to the slot;
// persistence failures are swallowed and the in-memory state stays
// authoritative for the session.
type Store struct {
	mu      sync.Mutex
	slot    Slot
	now     func() time.Time
	items   []LineItem
	subs    map[int]func()
	nextSub int
}

type Option func(*Store)

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads the persisted snapshot from slot, applying the recovery
// policy: vacant, unreadable or malformed slots yield an empty cart, and a
// snapshot older than RetentionWindow is discarded and the slot cleared.
// A nil slot yields a purely in-memory cart.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{slot: slot, now: time.Now, subs: make(map[int]func())}
	for _, o := range opts {
		o(s)
	}
	s.items = s.load()
	return s
}

func (s *Store) load() []LineItem {
	if s.slot == nil {
		return nil
	}
	raw, err := s.slot.Read()
	if err != nil {
		return nil
	}
	snap, ok := decodeSnapshot(raw)
	if !ok {
		return nil
	}
	if s.now().UnixMilli()-snap.Timestamp > RetentionWindow.Milliseconds() {
		_ = s.slot.Clear()
		return nil
	}
	return sanitize(snap.Items)
}

// Add merges qty into an existing line for the product id, or appends a new
// line at the end. Pre-existing item order is preserved. A non-positive qty
// counts as one unit.
func (s *Store) Add(p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].Product.ID == p.ID {
			s.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, LineItem{Product: p, Quantity: qty})
	}
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// Remove deletes the line item for productID. Absent ids are a no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	changed := s.removeLocked(productID)
	if changed {
		s.persistLocked()
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()
	if changed {
		notify(subs)
	}
}

// SetQuantity overwrites the quantity of the matching line item. A quantity
// of zero or below removes the line instead, so no zero-quantity row can
// ever exist.
func (s *Store) SetQuantity(productID int64, qty int) {
	if qty <= 0 {
		s.Remove(productID)
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = qty
			changed = true
			break
		}
	}
	if changed {
		s.persistLocked()
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()
	if changed {
		notify(subs)
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// Items returns a copy of the current line items in cart order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalPrice sums embedded snapshot price times quantity over all lines.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, it := range s.items {
		total += it.Subtotal()
	}
	return total
}

// ItemCount sums quantities over all lines (units, not distinct products).
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Subscribe registers fn to run after every mutation. The returned cancel
// func unregisters it.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) removeLocked(productID int64) bool {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) persistLocked() {
	if s.slot == nil {
		return
	}
	items := s.items
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(Snapshot{Items: items, Timestamp: s.now().UnixMilli()})
	if err != nil {
		return
	}
	_ = s.slot.Write(raw)
}

func (s *Store) subscribersLocked() []func() {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// notify runs outside the store lock so subscribers may read the store.
func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
