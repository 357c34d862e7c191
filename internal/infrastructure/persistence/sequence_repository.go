package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// upsertSequenceSQL creates the counter row holding the seed, or bumps an
// existing row by one, and returns the resulting value in a single statement.
// The syntax is shared by PostgreSQL and SQLite 3.35+.
const upsertSequenceSQL = `INSERT INTO document_sequences (series, year, last_value, updated_at) VALUES (?, ?, ?, ?) ` +
	`ON CONFLICT (series, year) DO UPDATE SET last_value = document_sequences.last_value + 1, updated_at = excluded.updated_at ` +
	`RETURNING last_value`

// numberColumns maps each series to the table and column its numbers are stored in
var numberColumns = map[sequence.Series]struct{ table, column string }{
	sequence.SeriesInvoice:         {"invoices", "invoice_number"},
	sequence.SeriesWalkInInvoice:   {"walk_in_invoices", "invoice_number"},
	sequence.SeriesPurchaseOrder:   {"purchase_orders", "po_number"},
	sequence.SeriesReceivingReport: {"receiving_reports", "rr_number"},
	sequence.SeriesExpense:         {"expenses", "expense_number"},
	sequence.SeriesCreditDeposit:   {"credit_deposits", "deposit_number"},
	sequence.SeriesEmployee:        {"employees", "employee_number"},
}

// GormSequenceRepository implements sequence.CounterRepository and sequence.NumberHistory
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Current returns the last issued value for (s, year)
func (r *GormSequenceRepository) Current(ctx context.Context, s sequence.Series, year int) (int, bool, error) {
	var row models.DocumentSequenceModel
	err := r.db.WithContext(ctx).
		Where("series = ? AND year = ?", string(s), year).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.LastValue, true, nil
}

// Increment atomically bumps the (s, year) counter, creating it with seed when absent
func (r *GormSequenceRepository) Increment(ctx context.Context, s sequence.Series, year, seed int) (int, error) {
	var value int
	err := r.db.WithContext(ctx).
		Raw(upsertSequenceSQL, string(s), year, seed, time.Now().UTC()).
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, fmt.Errorf("counter %s/%d returned %d", s, year, value)
	}
	return value, nil
}

// LatestNumber returns the greatest persisted number with the given prefix.
// Longer numbers sort first so an unpadded 10000 beats 9999.
func (r *GormSequenceRepository) LatestNumber(ctx context.Context, s sequence.Series, prefix string) (string, error) {
	target, ok := numberColumns[s]
	if !ok {
		return "", fmt.Errorf("no number column for series %s", s)
	}
	var numbers []string
	err := r.db.WithContext(ctx).
		Table(target.table).
		Where(target.column+" LIKE ?", prefix+"%").
		Order("LENGTH(" + target.column + ") DESC").
		Order(target.column + " DESC").
		Limit(1).
		Pluck(target.column, &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

var (
	_ sequence.CounterRepository = (*GormSequenceRepository)(nil)
	_ sequence.NumberHistory     = (*GormSequenceRepository)(nil)
)
