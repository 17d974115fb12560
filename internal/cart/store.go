// Package cart is the single source of truth for shopping carts: it owns the
// line list per owner, persists every mutation to durable storage before
// committing it, enforces the line and quantity caps, and notifies observers
// after each change.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/mazraa-market/internal/catalog"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/logger"
)

// Notification message keys emitted by the store.
const (
	NoticeKeyAdded           = "cart.added"
	NoticeKeyQuantityWarning = "cart.quantity_warning"
	NoticeKeyLineLimit       = "error.cart_line_limit"
	NoticeKeyPersistFailed   = "error.cart_persist_failed"
)

// Limits configures the cart caps and the flat delivery fee.
type Limits struct {
	MaxDistinctLines int // hard cap, new distinct lines past it are rejected
	QuantityCap      int // soft cap, exceeding it blocks checkout
	ShippingFee      int // flat fee in SAR while the cart is non-empty
}

// DefaultLimits returns the production caps.
func DefaultLimits() Limits {
	return Limits{
		MaxDistinctLines: constants.CartMaxDistinctLines,
		QuantityCap:      constants.CartQuantityCap,
		ShippingFee:      constants.CartShippingFeeSAR,
	}
}

func (l Limits) normalized() Limits {
	def := DefaultLimits()
	if l.MaxDistinctLines <= 0 {
		l.MaxDistinctLines = def.MaxDistinctLines
	}
	if l.QuantityCap <= 0 {
		l.QuantityCap = def.QuantityCap
	}
	if l.ShippingFee < 0 {
		l.ShippingFee = def.ShippingFee
	}
	return l
}

type storeObserver struct {
	id int
	fn Observer
}

// Store holds one owner's cart. Every mutation persists synchronously before
// it is committed in memory; a rejected write rolls back and surfaces
// ErrPersistFailed. Observers are invoked synchronously, in subscription
// order, before the mutating call returns.
type Store struct {
	mu        sync.Mutex
	owner     string
	storage   Storage
	limits    Limits
	lines     []Line
	observers []storeObserver
	nextObsID int
}

// NewStore loads (and normalizes) the owner's persisted cart. A storage read
// failure logs and starts the cart empty rather than failing the session.
func NewStore(ctx context.Context, owner string, storage Storage, limits Limits) *Store {
	s := &Store{owner: owner, storage: storage, limits: limits.normalized()}
	lines, _, err := storage.Load(ctx, owner)
	if err != nil {
		logger.Warnw("cart_load_failed", "owner", owner, "error", err)
		return s
	}
	s.lines = NormalizeLines(lines)
	return s
}

// Owner returns the cart owner key.
func (s *Store) Owner() string {
	return s.owner
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// Summary computes the current totals.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.lines, s.limits.ShippingFee)
}

// Warnings returns the standing notices, currently only the over-quantity
// warning while the aggregate exceeds the soft cap.
func (s *Store) Warnings() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warningsLocked()
}

// CheckoutBlocked reports whether the aggregate quantity exceeds the soft
// cap. Checkout must be refused while this holds.
func (s *Store) CheckoutBlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total > s.limits.QuantityCap
}

// Subscribe registers an observer and returns its unsubscribe function.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, storeObserver{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, obs := range s.observers {
			if obs.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Add puts a catalog product in the cart. An existing line is incremented
// (even past the soft quantity cap); a new line past the distinct-line cap is
// rejected with a warning and no mutation.
func (s *Store) Add(ctx context.Context, product catalog.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ident := Identity{ProductID: product.ID, Name: product.Name}
	next := cloneLines(s.lines)
	found := false
	for i := range next {
		if ident.Matches(next[i]) {
			next[i].Quantity += quantity
			if next[i].ProductID == nil && product.ID != 0 {
				id := product.ID
				next[i].ProductID = &id
			}
			found = true
			break
		}
	}
	if !found {
		if len(next) >= s.limits.MaxDistinctLines {
			s.notifyLocked(&Notice{Severity: SeverityWarning, MessageKey: NoticeKeyLineLimit})
			return ErrTooManyDistinctItems
		}
		line := Line{
			ProductName: product.Name,
			Price:       product.Price.Round(2),
			Quantity:    quantity,
			FarmName:    product.FarmName,
		}
		if product.ID != 0 {
			id := product.ID
			line.ProductID = &id
		}
		next = append(next, line)
	}
	return s.commitLocked(ctx, next, &Notice{Severity: SeverityInfo, MessageKey: NoticeKeyAdded})
}

// UpdateQuantity sets a line's quantity, clamped to a minimum of 1. It never
// removes the line; removal is only ever explicit.
func (s *Store) UpdateQuantity(ctx context.Context, ident Identity, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneLines(s.lines)
	for i := range next {
		if ident.Matches(next[i]) {
			if next[i].Quantity == quantity {
				return nil
			}
			next[i].Quantity = quantity
			return s.commitLocked(ctx, next, nil)
		}
	}
	return ErrLineNotFound
}

// Remove deletes the matching line unconditionally.
func (s *Store) Remove(ctx context.Context, ident Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneLines(s.lines)
	for i := range next {
		if ident.Matches(next[i]) {
			next = append(next[:i], next[i+1:]...)
			return s.commitLocked(ctx, next, nil)
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart, called on explicit user action, successful order
// placement and payment confirmation.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.owner); err != nil {
		logger.Errorw("cart_clear_failed", "owner", s.owner, "error", err)
		s.notifyLocked(&Notice{Severity: SeverityError, MessageKey: NoticeKeyPersistFailed})
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	s.lines = nil
	s.notifyLocked(nil)
	return nil
}

// Reconcile refreshes lines against a catalog snapshot: missing product ids
// are backfilled by exact name match, and farm names and price snapshots are
// updated for matched lines. Lines with no catalog match are kept as-is, so a
// stale or partial catalog never destroys cart state.
func (s *Store) Reconcile(ctx context.Context, snapshot []catalog.Product) error {
	byID := make(map[uint]catalog.Product, len(snapshot))
	byName := make(map[string]catalog.Product, len(snapshot))
	for _, p := range snapshot {
		if p.ID != 0 {
			byID[p.ID] = p
		}
		if p.Name != "" {
			byName[p.Name] = p
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneLines(s.lines)
	changed := false
	for i := range next {
		var product catalog.Product
		matched := false
		if next[i].ProductID != nil {
			product, matched = byID[*next[i].ProductID]
		}
		if !matched {
			product, matched = byName[next[i].ProductName]
		}
		if !matched {
			continue
		}
		if next[i].ProductID == nil && product.ID != 0 {
			id := product.ID
			next[i].ProductID = &id
			changed = true
		}
		if product.FarmName != "" && next[i].FarmName != product.FarmName {
			next[i].FarmName = product.FarmName
			changed = true
		}
		if product.Price.IsPositive() && !next[i].Price.Equal(product.Price) {
			next[i].Price = product.Price
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.commitLocked(ctx, next, nil)
}

// Reload re-reads the cart from storage, used as the invalidation path when
// another process changed the owner key. Observers are notified only when the
// stored state actually differs.
func (s *Store) Reload(ctx context.Context) error {
	lines, _, err := s.storage.Load(ctx, s.owner)
	if err != nil {
		return err
	}
	normalized := NormalizeLines(lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	if linesEqual(s.lines, normalized) {
		return nil
	}
	s.lines = normalized
	s.notifyLocked(nil)
	return nil
}

// commitLocked persists next and swaps it in. On a rejected write the
// in-memory state stays at the last known good lines and observers get an
// error notice.
func (s *Store) commitLocked(ctx context.Context, next []Line, notice *Notice) error {
	if err := s.storage.Save(ctx, s.owner, next); err != nil {
		logger.Errorw("cart_persist_failed", "owner", s.owner, "error", err)
		s.notifyLocked(&Notice{Severity: SeverityError, MessageKey: NoticeKeyPersistFailed})
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	s.lines = next
	s.notifyLocked(notice)
	return nil
}

func (s *Store) notifyLocked(notice *Notice) {
	event := Event{
		Owner:    s.owner,
		Lines:    cloneLines(s.lines),
		Summary:  summarize(s.lines, s.limits.ShippingFee),
		Notice:   notice,
		Warnings: s.warningsLocked(),
	}
	for _, obs := range s.observers {
		obs.fn(event)
	}
}

// warningsLocked reports the standing conditions: the over-quantity warning
// stays raised until the aggregate drops back under the cap.
func (s *Store) warningsLocked() []Notice {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	if total > s.limits.QuantityCap {
		return []Notice{{Severity: SeverityWarning, MessageKey: NoticeKeyQuantityWarning, Persistent: true}}
	}
	return nil
}
