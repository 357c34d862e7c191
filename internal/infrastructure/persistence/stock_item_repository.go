package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var m models.StockItemModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs finds the stock items with the given ids; missing ids are simply absent
func (r *GormStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.StockItem, error) {
	if len(ids) == 0 {
		return []inventory.StockItem{}, nil
	}
	var rows []models.StockItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return stockItemsToDomain(rows), nil
}

// FindByCode finds a stock item by its unique code
func (r *GormStockItemRepository) FindByCode(ctx context.Context, code string) (*inventory.StockItem, error) {
	var m models.StockItemModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists stock items with kind and search filters
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{})
	if kind := filter.String("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockItemModel
	if err := applyOrderAndPage(query, filter, StockItemSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return stockItemsToDomain(rows), total, nil
}

// FindLowStock returns products at or below their reorder threshold, lowest stock first
func (r *GormStockItemRepository) FindLowStock(ctx context.Context) ([]inventory.StockItem, error) {
	var rows []models.StockItemModel
	err := r.db.WithContext(ctx).
		Where("kind = ? AND quantity_on_hand <= reorder_threshold", string(inventory.KindProduct)).
		Order("quantity_on_hand ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return stockItemsToDomain(rows), nil
}

// ExistsByCode checks whether a code is taken
func (r *GormStockItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockItemModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new stock item
func (r *GormStockItemRepository) Create(ctx context.Context, item *inventory.StockItem) error {
	err := r.db.WithContext(ctx).Create(models.StockItemModelFromDomain(item)).Error
	if isUniqueViolation(err) {
		return shared.WrapDomainError(shared.ErrAlreadyExists.Code, "Item code "+item.Code+" already exists", err)
	}
	return err
}

// Update writes the descriptive fields and bumps the version
func (r *GormStockItemRepository) Update(ctx context.Context, item *inventory.StockItem) error {
	result := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":              item.Name,
			"description":       item.Description,
			"unit":              item.Unit,
			"unit_price":        item.UnitPrice,
			"reorder_threshold": item.ReorderThreshold,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StockItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustQuantity applies delta with a single UPDATE so concurrent adjustments
// never lose each other's effect.
func (r *GormStockItemRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int, floor *int) error {
	query := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("id = ?", id)
	if floor != nil {
		query = query.Where("quantity_on_hand + ? >= ?", delta, *floor)
	}
	result := query.Updates(map[string]interface{}{
		"quantity_on_hand": gorm.Expr("quantity_on_hand + ?", delta),
		"version":          gorm.Expr("version + 1"),
		"updated_at":       time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockItemModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrInsufficientStock
}

func stockItemsToDomain(rows []models.StockItemModel) []inventory.StockItem {
	items := make([]inventory.StockItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)
