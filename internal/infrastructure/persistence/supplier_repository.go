package persistence

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormSupplierRepository implements procurement.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Supplier, error) {
	var m models.SupplierModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists suppliers matching the search across name, contact person and email
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SupplierModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern)
	}
	if active := filter.String("active"); active != "" {
		if b, err := strconv.ParseBool(active); err == nil {
			query = query.Where("is_active = ?", b)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SupplierModel
	if err := applyOrderAndPage(query, filter, SupplierSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]procurement.Supplier, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Usage counts the purchase orders and receiving reports naming the supplier
func (r *GormSupplierRepository) Usage(ctx context.Context, id uuid.UUID) (procurement.SupplierUsage, error) {
	var usage procurement.SupplierUsage
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.PurchaseOrderModel{}).Where("supplier_id = ?", id).Count(&usage.PurchaseOrders).Error; err != nil {
		return usage, err
	}
	if err := db.Model(&models.ReceivingReportModel{}).Where("supplier_id = ?", id).Count(&usage.ReceivingReports).Error; err != nil {
		return usage, err
	}
	return usage, nil
}

// Create inserts a supplier
func (r *GormSupplierRepository) Create(ctx context.Context, supplier *procurement.Supplier) error {
	return r.db.WithContext(ctx).Create(models.SupplierModelFromDomain(supplier)).Error
}

// Update saves the supplier's details, guarded by version
func (r *GormSupplierRepository) Update(ctx context.Context, supplier *procurement.Supplier) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.SupplierModel{}).
		Where("id = ? AND version = ?", supplier.ID, supplier.Version-1).
		Updates(map[string]interface{}{
			"name":           supplier.Name,
			"contact_person": supplier.ContactPerson,
			"phone":          supplier.Phone,
			"email":          supplier.Email,
			"address":        supplier.Address,
			"notes":          supplier.Notes,
			"is_active":      supplier.IsActive,
			"version":        supplier.Version,
			"updated_at":     supplier.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(db, &models.SupplierModel{}, supplier.ID)
	}
	return nil
}

// Delete removes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SupplierModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ procurement.SupplierRepository = (*GormSupplierRepository)(nil)
