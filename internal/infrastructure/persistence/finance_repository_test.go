package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/shared"
)

func TestGormExpenseRepository_SumByCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewGormExpenseRepository(newTestDB(t))
	actor := uuid.New()
	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	add := func(number string, category finance.ExpenseCategory, amount int64, date time.Time) {
		e, err := finance.NewExpense(number, finance.ExpenseDetails{
			Date:        date,
			Category:    category,
			Description: "test expense",
			Amount:      decimal.NewFromInt(amount),
		}, actor)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, e))
	}
	add("EXP-2025-0001", finance.ExpenseCategoryRent, 15000, march)
	add("EXP-2025-0002", finance.ExpenseCategorySupplies, 1200, march)
	add("EXP-2025-0003", finance.ExpenseCategorySupplies, 800, march)
	add("EXP-2025-0004", finance.ExpenseCategorySupplies, 500, march.AddDate(0, 2, 0))

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	totals, err := repo.SumByCategory(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byCategory := map[finance.ExpenseCategory]finance.CategoryTotal{}
	for _, ct := range totals {
		byCategory[ct.Category] = ct
	}
	assert.Equal(t, int64(2), byCategory[finance.ExpenseCategorySupplies].Count)
	assert.True(t, byCategory[finance.ExpenseCategorySupplies].Total.Equal(decimal.NewFromInt(2000)))
	assert.True(t, byCategory[finance.ExpenseCategoryRent].Total.Equal(decimal.NewFromInt(15000)))

	all, err := repo.SumByCategory(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = repo.Create(ctx, &finance.Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     "EXP-2025-0001",
		Date:              march,
		Category:          finance.ExpenseCategoryOther,
		Description:       "dup",
		Amount:            decimal.NewFromInt(1),
		CreatedBy:         actor,
	})
	assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
}

func TestGormCreditDepositRepository_Balances(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCreditDepositRepository(newTestDB(t))
	clientID := uuid.New()
	actor := uuid.New()
	now := time.Now().UTC()

	d1, err := finance.NewCreditDeposit("CD-2025-0001", clientID, now, decimal.NewFromInt(1000), "", "", actor)
	require.NoError(t, err)
	d2, err := finance.NewCreditDeposit("CD-2025-0002", clientID, now, decimal.NewFromInt(500), "", "", actor)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, d1))
	require.NoError(t, repo.Create(ctx, d2))

	balance, err := repo.PendingBalance(ctx, clientID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1500)))

	require.NoError(t, d2.ApplyTo(uuid.New()))
	require.NoError(t, repo.Update(ctx, d2))

	balance, err = repo.PendingBalance(ctx, clientID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)))

	sums, err := repo.SumByStatus(ctx, nil, nil)
	require.NoError(t, err)
	assert.True(t, sums[finance.DepositApplied].Equal(decimal.NewFromInt(500)))
	assert.True(t, sums[finance.DepositPending].Equal(decimal.NewFromInt(1000)))

	empty, err := repo.PendingBalance(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}
