package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// StockItemRepository persists stock items
type StockItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]StockItem, error)
	FindByCode(ctx context.Context, code string) (*StockItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, int64, error)
	FindLowStock(ctx context.Context) ([]StockItem, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, item *StockItem) error
	// Update writes the descriptive fields; quantity_on_hand only moves through AdjustQuantity
	Update(ctx context.Context, item *StockItem) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustQuantity adds delta to quantity_on_hand in a single statement.
	// With floor set, the update only applies if the result stays >= *floor;
	// when it does not, shared.ErrInsufficientStock is returned.
	// A missing item yields shared.ErrNotFound.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int, floor *int) error
}
