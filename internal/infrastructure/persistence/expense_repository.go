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

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var m models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists expenses filtered by category, search and date range
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{})
	if category := filter.String("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(expense_number) LIKE ? OR LOWER(description) LIKE ? OR LOWER(reference) LIKE ?", p, p, p)
	}
	query = applyDateRange(query, "date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ExpenseModel
	if err := applyOrderAndPage(query, filter, ExpenseSortFields, "date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]finance.Expense, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts an expense
func (r *GormExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	err := r.db.WithContext(ctx).Create(models.ExpenseModelFromDomain(expense)).Error
	if isUniqueViolation(err) {
		return duplicateNumber(expense.ExpenseNumber, err)
	}
	return err
}

// Update saves every field except the number and author
func (r *GormExpenseRepository) Update(ctx context.Context, expense *finance.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Where("id = ?", expense.ID).
		Updates(map[string]interface{}{
			"date":           expense.Date,
			"category":       string(expense.Category),
			"description":    expense.Description,
			"amount":         expense.Amount,
			"payment_method": expense.PaymentMethod,
			"reference":      expense.Reference,
			"notes":          expense.Notes,
			"version":        expense.Version,
			"updated_at":     expense.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumByCategory totals expenses per category within the optional date range
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, from, to *time.Time) ([]finance.CategoryTotal, error) {
	var rows []struct {
		Category string
		Count    int64
		Total    decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total")
	query = applyDateRange(query, "date", shared.Filter{From: from, To: to})
	if err := query.Group("category").Order("category ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]finance.CategoryTotal, len(rows))
	for i, row := range rows {
		out[i] = finance.CategoryTotal{
			Category: finance.ExpenseCategory(row.Category),
			Count:    row.Count,
			Total:    row.Total,
		}
	}
	return out, nil
}

var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)
