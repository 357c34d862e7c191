package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormCreditDepositRepository implements finance.CreditDepositRepository using GORM
type GormCreditDepositRepository struct {
	db *gorm.DB
}

// NewGormCreditDepositRepository creates a new GormCreditDepositRepository
func NewGormCreditDepositRepository(db *gorm.DB) *GormCreditDepositRepository {
	return &GormCreditDepositRepository{db: db}
}

// FindByID finds a credit deposit by ID
func (r *GormCreditDepositRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CreditDeposit, error) {
	var m models.CreditDepositModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists deposits filtered by status, client, search and date range
func (r *GormCreditDepositRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.CreditDeposit, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CreditDepositModel{})
	if status := filter.String("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := filter.String("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(deposit_number) LIKE ? OR LOWER(reference) LIKE ?", p, p)
	}
	query = applyDateRange(query, "date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CreditDepositModel
	if err := applyOrderAndPage(query, filter, CreditDepositSortFields, "date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]finance.CreditDeposit, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a credit deposit
func (r *GormCreditDepositRepository) Create(ctx context.Context, deposit *finance.CreditDeposit) error {
	err := r.db.WithContext(ctx).Create(models.CreditDepositModelFromDomain(deposit)).Error
	if isUniqueViolation(err) {
		return duplicateNumber(deposit.DepositNumber, err)
	}
	return err
}

// Update saves the mutable fields and status
func (r *GormCreditDepositRepository) Update(ctx context.Context, deposit *finance.CreditDeposit) error {
	result := r.db.WithContext(ctx).
		Model(&models.CreditDepositModel{}).
		Where("id = ?", deposit.ID).
		Updates(map[string]interface{}{
			"date":       deposit.Date,
			"amount":     deposit.Amount,
			"reference":  deposit.Reference,
			"notes":      deposit.Notes,
			"status":     string(deposit.Status),
			"invoice_id": deposit.InvoiceID,
			"version":    deposit.Version,
			"updated_at": deposit.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a credit deposit
func (r *GormCreditDepositRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CreditDepositModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// PendingBalance sums a client's deposits that are not yet applied or refunded
func (r *GormCreditDepositRepository) PendingBalance(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).
		Model(&models.CreditDepositModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("client_id = ? AND status = ?", clientID, string(finance.DepositPending)).
		Scan(&row).Error
	return row.Total, err
}

// SumByStatus totals deposits per status within the optional date range
func (r *GormCreditDepositRepository) SumByStatus(ctx context.Context, from, to *time.Time) (map[finance.DepositStatus]decimal.Decimal, error) {
	var rows []struct {
		Status string
		Total  decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&models.CreditDepositModel{}).
		Select("status, COALESCE(SUM(amount), 0) AS total")
	query = applyDateRange(query, "date", shared.Filter{From: from, To: to})
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[finance.DepositStatus]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[finance.DepositStatus(row.Status)] = row.Total
	}
	return out, nil
}

var _ finance.CreditDepositRepository = (*GormCreditDepositRepository)(nil)
