package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Expense, int64, error)
	Create(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumByCategory(ctx context.Context, from, to *time.Time) ([]CategoryTotal, error)
}

// CreditDepositRepository persists credit deposits
type CreditDepositRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CreditDeposit, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CreditDeposit, int64, error)
	Create(ctx context.Context, deposit *CreditDeposit) error
	Update(ctx context.Context, deposit *CreditDeposit) error
	Delete(ctx context.Context, id uuid.UUID) error
	PendingBalance(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error)
	SumByStatus(ctx context.Context, from, to *time.Time) (map[DepositStatus]decimal.Decimal, error)
}
