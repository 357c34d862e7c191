// Package inventory holds the clinic's stock items and the rules for moving
// their on-hand quantities.
package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// ItemKind distinguishes quantity-tracked products from services
type ItemKind string

const (
	KindProduct ItemKind = "Product"
	KindService ItemKind = "Service"
)

// IsValid checks if the kind is known
func (k ItemKind) IsValid() bool {
	return k == KindProduct || k == KindService
}

// String returns the kind name
func (k ItemKind) String() string {
	return string(k)
}

// TracksQuantity reports whether the ledger moves stock for this kind
func (k ItemKind) TracksQuantity() bool {
	return k == KindProduct
}

// StockItem is an inventory record. QuantityOnHand is only meaningful for
// products and is changed exclusively through ledger adjustments.
type StockItem struct {
	shared.BaseAggregateRoot
	Code             string
	Name             string
	Description      string
	Kind             ItemKind
	Unit             string
	QuantityOnHand   int
	ReorderThreshold int
	UnitPrice        decimal.Decimal
}

// NewStockItem creates a stock item with zero quantity on hand
func NewStockItem(code, name string, kind ItemKind, unitPrice decimal.Decimal, reorderThreshold int) (*StockItem, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.WrapDomainError("INVALID_CODE", "Item code cannot be empty", shared.ErrInvalidInput)
	}
	if len(code) > 50 {
		return nil, shared.WrapDomainError("INVALID_CODE", "Item code cannot exceed 50 characters", shared.ErrInvalidInput)
	}
	if name == "" {
		return nil, shared.WrapDomainError("INVALID_NAME", "Item name cannot be empty", shared.ErrInvalidInput)
	}
	if !kind.IsValid() {
		return nil, shared.WrapDomainError("INVALID_KIND", "Item kind must be Product or Service", shared.ErrInvalidInput)
	}
	if unitPrice.IsNegative() {
		return nil, shared.WrapDomainError("INVALID_PRICE", "Unit price cannot be negative", shared.ErrInvalidInput)
	}
	if reorderThreshold < 0 {
		return nil, shared.WrapDomainError("INVALID_THRESHOLD", "Reorder threshold cannot be negative", shared.ErrInvalidInput)
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Kind:              kind,
		Unit:              "pcs",
		UnitPrice:         unitPrice,
		ReorderThreshold:  reorderThreshold,
	}, nil
}

// Update changes the descriptive fields. Quantity is deliberately not editable here.
func (s *StockItem) Update(name, description, unit string, unitPrice decimal.Decimal, reorderThreshold int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.WrapDomainError("INVALID_NAME", "Item name cannot be empty", shared.ErrInvalidInput)
	}
	if unitPrice.IsNegative() {
		return shared.WrapDomainError("INVALID_PRICE", "Unit price cannot be negative", shared.ErrInvalidInput)
	}
	if reorderThreshold < 0 {
		return shared.WrapDomainError("INVALID_THRESHOLD", "Reorder threshold cannot be negative", shared.ErrInvalidInput)
	}
	s.Name = name
	s.Description = description
	if unit != "" {
		s.Unit = unit
	}
	s.UnitPrice = unitPrice
	s.ReorderThreshold = reorderThreshold
	s.UpdatedAt = time.Now().UTC()
	s.IncrementVersion()
	return nil
}

// IsLowStock reports whether a product has fallen to its reorder threshold
func (s *StockItem) IsLowStock() bool {
	return s.Kind.TracksQuantity() && s.QuantityOnHand <= s.ReorderThreshold
}

// ItemIDs collects ids, removing duplicates while preserving order
func ItemIDs(ids ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
