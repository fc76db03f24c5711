// Package cart implements the session cart: an in-process collection of
// cart lines for one device, with merge-on-add identity, stock clamping,
// derived aggregates, and a durable key-value persistence slot.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Line is one row of the session cart. Lines are identified by
// (ProductID, WeightVariant); at most one line exists per identity.
type Line struct {
	ID            string          `json:"id"`
	ProductID     uint            `json:"product_id"`
	WeightVariant string          `json:"weight_variant"` // "" when the product has no variants
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"` // captured at add time, not re-fetched
	MaxStock      int             `json:"max_stock"`
}

// Subtotal returns UnitPrice * Quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store holds the session cart lines and flushes them to a Persister
// after every successful mutation. Mutations are confirm-then-apply:
// if the flush fails the in-memory state is left unchanged.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	persister Persister
}

// NewStore builds a Store backed by the given persistence slot and loads
// whatever the slot currently holds. A missing or corrupt slot loads as
// an empty cart, never an error.
func NewStore(ctx context.Context, persister Persister) *Store {
	return &Store{
		lines:     persister.Load(ctx),
		persister: persister,
	}
}

func (s *Store) findIndex(productID uint, weightVariant string) int {
	for i, line := range s.lines {
		if line.ProductID == productID && line.WeightVariant == weightVariant {
			return i
		}
	}
	return -1
}

// flush persists a candidate line list and commits it on success.
func (s *Store) flush(ctx context.Context, candidate []Line) error {
	if err := s.persister.Save(ctx, candidate); err != nil {
		return err
	}
	s.lines = candidate
	return nil
}

func clampQuantity(quantity, maxStock int) int {
	if maxStock > 0 && quantity > maxStock {
		return maxStock
	}
	return quantity
}

// AddItem merges the requested quantity into an existing line with the
// same (product, weight variant) identity, clamped to MaxStock, or
// appends a new line. It returns the resulting line.
func (s *Store) AddItem(ctx context.Context, productID uint, weightVariant string, quantity int, unitPrice decimal.Decimal, maxStock int) (Line, error) {
	if quantity <= 0 {
		return Line{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := append([]Line(nil), s.lines...)

	if i := s.findIndex(productID, weightVariant); i >= 0 {
		line := candidate[i]
		line.Quantity = clampQuantity(line.Quantity+quantity, line.MaxStock)
		candidate[i] = line
		if err := s.flush(ctx, candidate); err != nil {
			return Line{}, err
		}
		return line, nil
	}

	line := Line{
		ID:            uuid.New().String(),
		ProductID:     productID,
		WeightVariant: weightVariant,
		Quantity:      clampQuantity(quantity, maxStock),
		UnitPrice:     unitPrice,
		MaxStock:      maxStock,
	}
	candidate = append(candidate, line)
	if err := s.flush(ctx, candidate); err != nil {
		return Line{}, err
	}
	return line, nil
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID uint, weightVariant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(productID, weightVariant)
	if i < 0 {
		return nil
	}

	candidate := append([]Line(nil), s.lines[:i]...)
	candidate = append(candidate, s.lines[i+1:]...)
	return s.flush(ctx, candidate)
}

// UpdateQuantity sets the matching line's quantity, clamped to its
// MaxStock. A quantity of zero or less removes the line, identically to
// RemoveItem. Updating an absent line is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID uint, weightVariant string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID, weightVariant)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(productID, weightVariant)
	if i < 0 {
		return nil
	}

	candidate := append([]Line(nil), s.lines...)
	line := candidate[i]
	line.Quantity = clampQuantity(quantity, line.MaxStock)
	candidate[i] = line
	return s.flush(ctx, candidate)
}

// Clear removes every line.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx, []Line{})
}

// Item returns the line matching (product, weight variant), if any.
func (s *Store) Item(productID uint, weightVariant string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findIndex(productID, weightVariant); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// Lines returns a copy of all lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// ItemCount returns the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal returns the sum of unit price times quantity across all lines.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := decimal.Zero
	for _, line := range s.lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	return subtotal
}
