package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists invoices filtered by status, client, number search and date range
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if status := filter.String("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := filter.String("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(notes) LIKE ?", likePattern(filter.Search), likePattern(filter.Search))
	}
	query = applyDateRange(query, "date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvoiceModel
	if err := applyOrderAndPage(query, filter, InvoiceSortFields, "date").Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]billing.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts the invoice header and items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	err := r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error
	if isUniqueViolation(err) {
		return duplicateNumber(invoice.InvoiceNumber, err)
	}
	return err
}

// UpdateHeader saves status and notes. The row must still hold the version
// the invoice was loaded at.
func (r *GormInvoiceRepository) UpdateHeader(ctx context.Context, invoice *billing.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"status":     string(invoice.Status),
			"notes":      invoice.Notes,
			"version":    invoice.Version,
			"updated_at": invoice.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(r.db.WithContext(ctx), &models.InvoiceModel{}, invoice.ID)
	}
	return nil
}

// Delete removes the items and then the header
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Exists checks whether an invoice id is known
func (r *GormInvoiceRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyDateRange restricts column to the filter's inclusive From/To bounds
func applyDateRange(query *gorm.DB, column string, filter shared.Filter) *gorm.DB {
	if filter.From != nil {
		query = query.Where(column+" >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where(column+" <= ?", filter.To.UTC())
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
