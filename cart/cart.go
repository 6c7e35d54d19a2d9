package cart

import (
	"encoding/json"
	"log"
	"sync"

	"carvewood-storefront/storage"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Snapshot is the state handed to subscribers after every mutation.
type Snapshot struct {
	Items []LineItem `json:"items"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

// Store is the single source of truth for one visitor's cart. Items are
// unique by id and keep the order in which distinct products were first
// added. Every mutation writes through to the storage port under the
// store's key; a persistence failure never rolls back the in-memory state
// and never reaches the caller.
type Store struct {
	mu    sync.Mutex
	port  storage.Port
	key   string
	items []LineItem

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore hydrates a store from the port under key. Absent or unreadable
// persisted data yields an empty cart, never an error.
func NewStore(port storage.Port, key string) *Store {
	s := &Store{
		port: port,
		key:  key,
		subs: make(map[int]func(Snapshot)),
	}

	raw, err := port.Get(key)
	if err != nil || len(raw) == 0 {
		return s
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("cart: discarding unreadable state for %q: %v", key, err)
		return s
	}
	s.items = sanitize(items)
	return s
}

// sanitize restores the store's invariants on hydrated data: duplicate
// ids merge into the first occurrence and entries without a positive
// quantity or an id are dropped.
func sanitize(items []LineItem) []LineItem {
	var clean []LineItem
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		merged := false
		for i := range clean {
			if clean[i].ID == item.ID {
				clean[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			clean = append(clean, item)
		}
	}
	return clean
}

// AddItem puts qty units of item in the cart. An item already present
// merges by incrementing its quantity; adding is never an error. A qty
// below 1 counts as 1. Items without an id are ignored.
func (s *Store) AddItem(item LineItem, qty int) {
	if item.ID == "" {
		return
	}
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = qty
		s.items = append(s.items, item)
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// UpdateQuantity sets the item's quantity to exactly qty. A qty below 1
// removes the item. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(id string, qty int) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	if qty < 1 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	} else {
		s.items[idx].Quantity = qty
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// RemoveItem deletes the item with the given id; no-op when absent.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	snap := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	snap := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Items returns a copy of the current line items in order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// Count is the sum of quantities across all items, recomputed on every
// call.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countOf(s.items)
}

// Total is the sum of price times quantity across all items, recomputed
// on every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.items)
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned function unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// commitLocked persists the current items and returns a snapshot of the
// new state. A write failure is logged and otherwise ignored: the
// in-memory state has already changed and observers must still hear
// about it.
func (s *Store) commitLocked() Snapshot {
	raw, err := json.Marshal(s.items)
	if err == nil {
		err = s.port.Set(s.key, raw)
	}
	if err != nil {
		log.Printf("cart: persist failed for %q: %v", s.key, err)
	}

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items, Count: countOf(items), Total: totalOf(items)}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func countOf(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func totalOf(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
