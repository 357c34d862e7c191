package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormWalkInInvoiceRepository implements billing.WalkInInvoiceRepository using GORM
type GormWalkInInvoiceRepository struct {
	db *gorm.DB
}

// NewGormWalkInInvoiceRepository creates a new GormWalkInInvoiceRepository
func NewGormWalkInInvoiceRepository(db *gorm.DB) *GormWalkInInvoiceRepository {
	return &GormWalkInInvoiceRepository{db: db}
}

// FindByID loads a walk-in invoice with its items
func (r *GormWalkInInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.WalkInInvoice, error) {
	var m models.WalkInInvoiceModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists walk-in invoices filtered by status, customer/number search and date range
func (r *GormWalkInInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.WalkInInvoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalkInInvoiceModel{})
	if status := filter.String("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(pet_name) LIKE ?", p, p, p)
	}
	query = applyDateRange(query, "date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WalkInInvoiceModel
	if err := applyOrderAndPage(query, filter, InvoiceSortFields, "date").Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]billing.WalkInInvoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts the walk-in invoice header and items
func (r *GormWalkInInvoiceRepository) Create(ctx context.Context, invoice *billing.WalkInInvoice) error {
	err := r.db.WithContext(ctx).Create(models.WalkInInvoiceModelFromDomain(invoice)).Error
	if isUniqueViolation(err) {
		return duplicateNumber(invoice.InvoiceNumber, err)
	}
	return err
}

// UpdateHeader saves customer, payment, status and notes if nobody saved the
// invoice since it was loaded
func (r *GormWalkInInvoiceRepository) UpdateHeader(ctx context.Context, invoice *billing.WalkInInvoice) error {
	result := r.db.WithContext(ctx).
		Model(&models.WalkInInvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"customer_name":    invoice.Customer.Name,
			"customer_phone":   invoice.Customer.Phone,
			"customer_address": invoice.Customer.Address,
			"pet_name":         invoice.Customer.PetName,
			"pet_species":      invoice.Customer.PetSpecies,
			"status":           string(invoice.Status),
			"payment_method":   string(invoice.Payment.Method),
			"cash_amount":      invoice.Payment.CashAmount,
			"gcash_amount":     invoice.Payment.GCashAmount,
			"gcash_reference":  invoice.Payment.GCashReference,
			"notes":            invoice.Notes,
			"version":          invoice.Version,
			"updated_at":       invoice.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(r.db.WithContext(ctx), &models.WalkInInvoiceModel{}, invoice.ID)
	}
	return nil
}

// Delete removes the items and then the header
func (r *GormWalkInInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("walk_in_invoice_id = ?", id).Delete(&models.WalkInInvoiceItemModel{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.WalkInInvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormWalkInInvoiceRepository implements WalkInInvoiceRepository
var _ billing.WalkInInvoiceRepository = (*GormWalkInInvoiceRepository)(nil)
