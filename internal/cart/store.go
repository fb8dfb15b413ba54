package cart

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

const keySeparator = "|"

var (
	// ErrCapacityExceeded is returned when a change would push a line past its stock ceiling.
	ErrCapacityExceeded = errors.New("cart line exceeds available stock")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrUnavailable      = errors.New("product is out of stock")
)

// CapacityError reports the ceiling that rejected a change.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: limit %d", ErrCapacityExceeded.Error(), e.Limit)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// LineAddon is an add-on recorded on a cart line.
type LineAddon struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one cart entry. Lines are identified by Key, which combines the
// product id and the chosen add-ons.
type Line struct {
	Key        string          `json:"key"`
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stockLimit"`
	Points     int             `json:"points"`
	Addons     []LineAddon     `json:"addons"`
}

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineKey builds the identity of a line from a product id and its add-ons.
func LineKey(productID string, addons []catalog.Addon) string {
	names := make([]string, 0, len(addons))
	for _, addon := range addons {
		names = append(names, addon.Name)
	}
	sort.Strings(names)
	return strings.Join(append([]string{strings.TrimSpace(productID)}, names...), keySeparator)
}

// Store is an in-memory cart reducer. It is not safe for concurrent use.
type Store struct {
	lines []Line
}

// NewStore wraps previously persisted lines.
func NewStore(lines []Line) *Store {
	return &Store{lines: cloneLines(lines)}
}

// Add puts qty units of product with the given add-ons into the cart. An
// existing line with the same key grows in place. Out-of-stock products are
// rejected with ErrUnavailable.
func (s *Store) Add(product catalog.Product, qty int, addons []catalog.Addon) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if !product.Available() {
		return ErrUnavailable
	}

	key := LineKey(product.ID, addons)
	limit := product.StockCount
	idx := s.indexOf(key)
	current := 0
	if idx >= 0 {
		current = s.lines[idx].Quantity
	}
	if current+qty > limit {
		return &CapacityError{Limit: limit}
	}

	if idx >= 0 {
		s.lines[idx].Quantity += qty
		s.lines[idx].StockLimit = limit
		return nil
	}

	unit := product.Price
	lineAddons := make([]LineAddon, 0, len(addons))
	for _, addon := range addons {
		unit = unit.Add(addon.Price)
		lineAddons = append(lineAddons, LineAddon{ID: addon.ID, Name: addon.Name, Price: addon.Price})
	}
	s.lines = append(s.lines, Line{
		Key:        key,
		ProductID:  strings.TrimSpace(product.ID),
		Name:       displayName(product),
		Image:      product.Image,
		BasePrice:  product.Price,
		UnitPrice:  unit,
		Quantity:   qty,
		StockLimit: limit,
		Points:     product.Points,
		Addons:     lineAddons,
	})
	return nil
}

// Increase adds one unit to the line. The boolean reports whether the cart changed.
func (s *Store) Increase(key string) (bool, error) {
	idx := s.indexOf(key)
	if idx < 0 {
		return false, nil
	}
	line := &s.lines[idx]
	if line.Quantity+1 > line.StockLimit {
		return false, &CapacityError{Limit: line.StockLimit}
	}
	line.Quantity++
	return true, nil
}

// Decrease removes one unit unless the line is already at one.
func (s *Store) Decrease(key string) bool {
	idx := s.indexOf(key)
	if idx < 0 || s.lines[idx].Quantity <= 1 {
		return false
	}
	s.lines[idx].Quantity--
	return true
}

// Remove drops the line regardless of its quantity.
func (s *Store) Remove(key string) bool {
	idx := s.indexOf(key)
	if idx < 0 {
		return false
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	return true
}

func (s *Store) Clear() bool {
	changed := len(s.lines) > 0
	s.lines = nil
	return changed
}

// Total is the sum of unit price times quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// PotentialPoints is the sum of per-unit points times quantity.
func (s *Store) PotentialPoints() int {
	points := 0
	for _, line := range s.lines {
		points += line.Points * line.Quantity
	}
	return points
}

// Count returns the number of units across all lines.
func (s *Store) Count() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

func (s *Store) Len() int {
	return len(s.lines)
}

// Snapshot returns a copy of the lines that callers may keep.
func (s *Store) Snapshot() []Line {
	return cloneLines(s.lines)
}

func displayName(p catalog.Product) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}

func (s *Store) indexOf(key string) int {
	for i := range s.lines {
		if s.lines[i].Key == key {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		line.Addons = append([]LineAddon(nil), line.Addons...)
		out[i] = line
	}
	return out
}
