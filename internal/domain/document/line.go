package document

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// LineInput is one requested line before pricing
type LineInput struct {
	ItemID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Line is a priced line. Subtotal is frozen at creation and never recomputed.
type Line struct {
	ItemID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ErrInvalidLineItems is the validation error code for bad line input
const ErrInvalidLineItems = "INVALID_LINE_ITEMS"

// InvalidLines builds the validation error for line input
func InvalidLines(format string, args ...interface{}) error {
	return shared.WrapDomainError(ErrInvalidLineItems, fmt.Sprintf(format, args...), shared.ErrInvalidInput)
}

// ValidateLines checks line input without touching any store
func ValidateLines(inputs []LineInput) error {
	if len(inputs) == 0 {
		return InvalidLines("At least one line item is required")
	}
	for i, in := range inputs {
		if in.ItemID == uuid.Nil {
			return InvalidLines("Line %d: item is required", i+1)
		}
		if in.Quantity <= 0 {
			return InvalidLines("Line %d: quantity must be positive", i+1)
		}
		if in.UnitPrice.IsNegative() {
			return InvalidLines("Line %d: unit price cannot be negative", i+1)
		}
	}
	return nil
}

// PriceLines validates the input and computes each subtotal and the document total
func PriceLines(inputs []LineInput) ([]Line, decimal.Decimal, error) {
	if err := ValidateLines(inputs); err != nil {
		return nil, decimal.Zero, err
	}
	lines := make([]Line, len(inputs))
	total := decimal.Zero
	for i, in := range inputs {
		subtotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		lines[i] = Line{
			ItemID:    in.ItemID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
	}
	return lines, total, nil
}

// Total sums stored subtotals
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// ItemIDs returns the distinct item ids referenced by the lines
func ItemIDs(lines []LineInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	return ids
}
