package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID loads a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists purchase orders filtered by status, supplier, number search and order date
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	if status := filter.String("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierID := filter.String("supplier_id"); supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(po_number) LIKE ?", likePattern(filter.Search))
	}
	query = applyDateRange(query, "order_date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PurchaseOrderModel
	if err := applyOrderAndPage(query, filter, PurchaseOrderSortFields, "order_date").Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]procurement.PurchaseOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts the purchase order header and items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, po *procurement.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Create(models.PurchaseOrderModelFromDomain(po)).Error
	if isUniqueViolation(err) {
		return duplicateNumber(po.PONumber, err)
	}
	return err
}

// Update saves the header and each item's received quantity, guarded by version
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, po *procurement.PurchaseOrder) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.PurchaseOrderModel{}).
		Where("id = ? AND version = ?", po.ID, po.Version-1).
		Updates(map[string]interface{}{
			"status":        string(po.Status),
			"expected_date": po.ExpectedDate,
			"notes":         po.Notes,
			"approved_at":   po.ApprovedAt,
			"version":       po.Version,
			"updated_at":    po.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(db, &models.PurchaseOrderModel{}, po.ID)
	}

	for _, item := range po.Items {
		if err := db.Model(&models.PurchaseOrderItemModel{}).
			Where("id = ?", item.ID).
			Update("received_quantity", item.ReceivedQuantity).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the items and then the header
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("purchase_order_id = ?", id).Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.PurchaseOrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
