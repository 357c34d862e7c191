package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormReceivingReportRepository implements procurement.ReceivingReportRepository using GORM
type GormReceivingReportRepository struct {
	db *gorm.DB
}

// NewGormReceivingReportRepository creates a new GormReceivingReportRepository
func NewGormReceivingReportRepository(db *gorm.DB) *GormReceivingReportRepository {
	return &GormReceivingReportRepository{db: db}
}

// FindByID loads a receiving report with its items
func (r *GormReceivingReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.ReceivingReport, error) {
	var m models.ReceivingReportModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists receiving reports filtered by supplier, purchase order, number search and receive date
func (r *GormReceivingReportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.ReceivingReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReceivingReportModel{})
	if supplierID := filter.String("supplier_id"); supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if poID := filter.String("purchase_order_id"); poID != "" {
		query = query.Where("purchase_order_id = ?", poID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(rr_number) LIKE ?", likePattern(filter.Search))
	}
	query = applyDateRange(query, "receive_date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReceivingReportModel
	if err := applyOrderAndPage(query, filter, ReceivingReportSortFields, "receive_date").Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]procurement.ReceivingReport, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// CountByPurchaseOrder counts receiving reports filed against a purchase order
func (r *GormReceivingReportRepository) CountByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReceivingReportModel{}).
		Where("purchase_order_id = ?", purchaseOrderID).
		Count(&count).Error
	return count, err
}

// Create inserts the receiving report header and items
func (r *GormReceivingReportRepository) Create(ctx context.Context, rr *procurement.ReceivingReport) error {
	err := r.db.WithContext(ctx).Create(models.ReceivingReportModelFromDomain(rr)).Error
	if isUniqueViolation(err) {
		return duplicateNumber(rr.RRNumber, err)
	}
	return err
}

// Delete removes the items and then the header
func (r *GormReceivingReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("receiving_report_id = ?", id).Delete(&models.ReceivingReportItemModel{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.ReceivingReportModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormReceivingReportRepository implements ReceivingReportRepository
var _ procurement.ReceivingReportRepository = (*GormReceivingReportRepository)(nil)
