package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Kind             string          `json:"kind"`
	Unit             string          `json:"unit"`
	QuantityOnHand   int             `json:"quantity_on_hand"`
	ReorderThreshold int             `json:"reorder_threshold"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	IsLowStock       bool            `json:"is_low_stock"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToStockItemResponse converts a domain stock item to a response
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:               item.ID,
		Code:             item.Code,
		Name:             item.Name,
		Description:      item.Description,
		Kind:             item.Kind.String(),
		Unit:             item.Unit,
		QuantityOnHand:   item.QuantityOnHand,
		ReorderThreshold: item.ReorderThreshold,
		UnitPrice:        item.UnitPrice,
		IsLowStock:       item.IsLowStock(),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		Version:          item.Version,
	}
}

// ToStockItemResponses converts a slice of stock items
func ToStockItemResponses(items []inventory.StockItem) []StockItemResponse {
	out := make([]StockItemResponse, len(items))
	for i := range items {
		out[i] = ToStockItemResponse(&items[i])
	}
	return out
}

// CreateStockItemRequest represents a request to create a stock item.
// InitialQuantity is the opening balance for products and is ignored for services.
type CreateStockItemRequest struct {
	Code             string          `json:"code" binding:"required,max=50"`
	Name             string          `json:"name" binding:"required,max=200"`
	Description      string          `json:"description" binding:"max=2000"`
	Kind             string          `json:"kind" binding:"required,oneof=Product Service"`
	Unit             string          `json:"unit" binding:"max=20"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReorderThreshold int             `json:"reorder_threshold" binding:"min=0"`
	InitialQuantity  int             `json:"initial_quantity" binding:"min=0"`
}

// UpdateStockItemRequest represents a request to update a stock item.
// Quantity on hand is changed only by documents.
type UpdateStockItemRequest struct {
	Name             string          `json:"name" binding:"required,max=200"`
	Description      string          `json:"description" binding:"max=2000"`
	Unit             string          `json:"unit" binding:"max=20"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReorderThreshold int             `json:"reorder_threshold" binding:"min=0"`
}

// StockItemListFilter represents filter options for the stock item list
type StockItemListFilter struct {
	query.PageQuery
	Kind string `form:"kind" binding:"omitempty,oneof=Product Service"`
}

// ToFilter converts the list filter to a repository filter
func (f StockItemListFilter) ToFilter() shared.Filter {
	return f.Filter(map[string]string{"kind": f.Kind})
}
