// Package cart keeps a local, normalized view of the user's cart. Every
// mutation goes to the backend first and is followed by a refresh.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/logger"
)

// ErrInvalidQuantity is returned for quantities below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Backend is the part of api.Client the cart needs.
type Backend interface {
	Cart(ctx context.Context) (*api.Cart, error)
	AddCartItem(ctx context.Context, in api.CartItemInput) error
	UpdateCartItem(ctx context.Context, id int64, in api.CartItemUpdate) error
	RemoveCartItem(ctx context.Context, id int64) error
}

// Item is a normalized cart line.
type Item struct {
	ID        int64
	DishID    int64
	Name      string
	ImageURL  string
	Quantity  int
	UnitPrice float64
	Specs     map[string]any
}

// Subtotal is UnitPrice times Quantity.
func (i Item) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Store holds the cart. It is safe for concurrent use.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu     sync.RWMutex
	items  []Item
	total  float64
	loaded bool
}

func NewStore(backend Backend, l *slog.Logger) *Store {
	if l == nil {
		l = logger.Nop()
	}
	return &Store{backend: backend, logger: l}
}

// Refresh reloads the cart from the backend.
func (s *Store) Refresh(ctx context.Context) error {
	c, err := s.backend.Cart(ctx)
	if err != nil {
		return err
	}

	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, normalize(it))
	}

	var total float64
	if c.TotalAmount != nil {
		total = *c.TotalAmount
	}

	s.mu.Lock()
	s.items = items
	s.total = total
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("cart refreshed", "items", len(items), "total", total)
	return nil
}

// Add puts quantity of a dish into the cart. A nil specs map is sent as {}.
func (s *Store) Add(ctx context.Context, dishID int64, quantity int, specs map[string]any) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if specs == nil {
		specs = map[string]any{}
	}

	in := api.CartItemInput{DishID: dishID, Quantity: quantity, SelectedSpecs: specs}
	if err := s.backend.AddCartItem(ctx, in); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// UpdateItem changes the quantity and, when specs is non-nil, the specs of a
// cart line.
func (s *Store) UpdateItem(ctx context.Context, itemID int64, quantity int, specs map[string]any) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	in := api.CartItemUpdate{Quantity: &quantity, SelectedSpecs: specs}
	if err := s.backend.UpdateCartItem(ctx, itemID, in); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	if err := s.backend.RemoveCartItem(ctx, itemID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// ClearLocal forgets the local copy without touching the backend, as on
// logout.
func (s *Store) ClearLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.total = 0
	s.loaded = false
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// Total is the amount the backend reported.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Find returns the line with the given id.
func (s *Store) Find(itemID int64) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.items, func(it Item) bool { return it.ID == itemID })
	if i < 0 {
		return Item{}, false
	}
	return s.items[i], true
}

func normalize(it api.CartItem) Item {
	out := Item{
		ID:       it.ID,
		DishID:   it.DishID,
		Name:     firstNonEmpty(it.DishName, it.Name),
		ImageURL: firstNonEmpty(it.DishImageURL, it.ImageURL),
		Quantity: 1,
		Specs:    map[string]any{},
	}

	if out.Name == "" {
		out.Name = fmt.Sprintf("Dish #%d", it.DishID)
	}
	if it.Quantity != nil {
		out.Quantity = *it.Quantity
	}

	switch {
	case it.UnitPrice != nil:
		out.UnitPrice = *it.UnitPrice
	case it.Price != nil:
		out.UnitPrice = *it.Price
	}

	for _, specs := range []map[string]any{it.SelectedSpecs, it.SpecSnapshot, it.Spec} {
		if len(specs) > 0 {
			out.Specs = specs
			break
		}
	}

	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
