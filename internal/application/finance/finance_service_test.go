package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence"
	"github.com/vetclinic/backend/tests/testutil"
)

var fixedNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type financeFixture struct {
	db       *gorm.DB
	expenses *ExpenseService
	deposits *CreditDepositService
	actor    uuid.UUID
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db)

	expenses := NewExpenseService(scope, persistence.NewGormExpenseRepository(db), zap.NewNop())
	expenses.now = clock
	deposits := NewCreditDepositService(scope, persistence.NewGormCreditDepositRepository(db), persistence.NewGormInvoiceRepository(db), zap.NewNop())
	deposits.now = clock

	return &financeFixture{db: db, expenses: expenses, deposits: deposits, actor: uuid.New()}
}

func (f *financeFixture) seedInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	item := testutil.SeedServiceItem(t, f.db, "CONSULT", 500)
	inv, err := billing.NewInvoice("INV-2025-0001", uuid.New(), fixedNow, []document.Line{
		{ItemID: item.ID, Quantity: 1, UnitPrice: item.UnitPrice, Subtotal: item.UnitPrice},
	}, f.actor)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormInvoiceRepository(f.db).Create(context.Background(), inv))
	return inv
}

func expenseRequest(category finance.ExpenseCategory, amount int64) ExpenseRequest {
	return ExpenseRequest{
		Category:      string(category),
		Description:   "Monthly " + string(category),
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: "Cash",
	}
}

func TestExpenseService_CreateNumbersSequentially(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	first, err := f.expenses.Create(ctx, expenseRequest(finance.ExpenseCategoryUtilities, 3200), f.actor)
	require.NoError(t, err)
	second, err := f.expenses.Create(ctx, expenseRequest(finance.ExpenseCategoryRent, 15000), f.actor)
	require.NoError(t, err)

	assert.Equal(t, "EXP-2025-0001", first.ExpenseNumber)
	assert.Equal(t, "EXP-2025-0002", second.ExpenseNumber)
	assert.True(t, first.Date.Equal(fixedNow))
	assert.Equal(t, f.actor, first.CreatedBy)
}

func TestExpenseService_CreateRejectsBadInputWithoutConsumingANumber(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ExpenseRequest
		code string
	}{
		{"unknown category", expenseRequest("Snacks", 100), "INVALID_CATEGORY"},
		{"zero amount", expenseRequest(finance.ExpenseCategorySupplies, 0), "INVALID_AMOUNT"},
		{"blank description", ExpenseRequest{Category: "Other", Description: "  ", Amount: decimal.NewFromInt(5)}, "INVALID_DESCRIPTION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.expenses.Create(ctx, tt.req, f.actor)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	_, err := f.expenses.Create(ctx, expenseRequest(finance.ExpenseCategoryOther, 10), uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrMissingActor)

	created, err := f.expenses.Create(ctx, expenseRequest(finance.ExpenseCategoryOther, 10), f.actor)
	require.NoError(t, err)
	assert.Equal(t, "EXP-2025-0001", created.ExpenseNumber)
}

func TestExpenseService_UpdateAndDelete(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	created, err := f.expenses.Create(ctx, expenseRequest(finance.ExpenseCategorySupplies, 800), f.actor)
	require.NoError(t, err)

	req := expenseRequest(finance.ExpenseCategoryEquipment, 1250)
	updated, err := f.expenses.Update(ctx, created.ID, req, f.actor)
	require.NoError(t, err)
	assert.Equal(t, created.ExpenseNumber, updated.ExpenseNumber)
	assert.Equal(t, "Equipment", updated.Category)
	assert.True(t, updated.Date.Equal(created.Date), "date is kept when not given")
	assert.Equal(t, created.Version+1, updated.Version)

	got, err := f.expenses.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1250)))

	require.NoError(t, f.expenses.Delete(ctx, created.ID, f.actor))
	_, err = f.expenses.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, f.expenses.Delete(ctx, created.ID, f.actor), shared.ErrNotFound)

	// a deleted number is not reissued
	next, err := f.expenses.Create(ctx, expenseRequest(finance.ExpenseCategoryOther, 1), f.actor)
	require.NoError(t, err)
	assert.Equal(t, "EXP-2025-0002", next.ExpenseNumber)
}

func TestExpenseService_ListAndStats(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	for _, req := range []ExpenseRequest{
		expenseRequest(finance.ExpenseCategoryUtilities, 1000),
		expenseRequest(finance.ExpenseCategoryUtilities, 500),
		expenseRequest(finance.ExpenseCategoryRent, 20000),
	} {
		_, err := f.expenses.Create(ctx, req, f.actor)
		require.NoError(t, err)
	}

	list, total, err := f.expenses.List(ctx, ExpenseListFilter{Category: "Utilities"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	stats, err := f.expenses.Stats(ctx, StatsQuery{})
	require.NoError(t, err)
	assert.True(t, stats.Total.Equal(decimal.NewFromInt(21500)), stats.Total.String())
	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Rent", stats.ByCategory[0].Category)
	assert.Equal(t, "Utilities", stats.ByCategory[1].Category)
	assert.Equal(t, int64(2), stats.ByCategory[1].Count)

	before := fixedNow.AddDate(0, 0, -10)
	empty, err := f.expenses.Stats(ctx, StatsQuery{From: &before, To: &before})
	require.NoError(t, err)
	assert.Empty(t, empty.ByCategory)
	assert.True(t, empty.Total.IsZero())

	assert.Len(t, f.expenses.Categories(), 9)
}

func TestCreditDepositService_ApplyAndBalance(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	client := uuid.New()
	inv := f.seedInvoice(t)

	first, err := f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: client, Amount: decimal.NewFromInt(1000)}, f.actor)
	require.NoError(t, err)
	_, err = f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: client, Amount: decimal.NewFromInt(250)}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "CD-2025-0001", first.DepositNumber)
	assert.Equal(t, "Pending", first.Status)

	balance, err := f.deposits.ClientBalance(ctx, client)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(1250)), balance.Balance.String())

	applied, err := f.deposits.Apply(ctx, first.ID, ApplyCreditDepositRequest{InvoiceID: inv.ID}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Applied", applied.Status)
	require.NotNil(t, applied.InvoiceID)
	assert.Equal(t, inv.ID, *applied.InvoiceID)

	balance, err = f.deposits.ClientBalance(ctx, client)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(250)))

	_, err = f.deposits.Refund(ctx, first.ID, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCreditDepositService_ApplyToUnknownInvoice(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	dep, err := f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: uuid.New(), Amount: decimal.NewFromInt(300)}, f.actor)
	require.NoError(t, err)

	_, err = f.deposits.Apply(ctx, dep.ID, ApplyCreditDepositRequest{InvoiceID: uuid.New()}, f.actor)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := f.deposits.GetByID(ctx, dep.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", got.Status)
}

func TestCreditDepositService_CreateValidation(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	_, err := f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: uuid.New(), Amount: decimal.NewFromInt(-5)}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = f.deposits.Create(ctx, CreateCreditDepositRequest{Amount: decimal.NewFromInt(5)}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	dep, err := f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: uuid.New(), Amount: decimal.NewFromInt(5)}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "CD-2025-0001", dep.DepositNumber)
}

func TestCreditDepositService_RefundDeleteAndStats(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	client := uuid.New()
	inv := f.seedInvoice(t)

	a, err := f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: client, Amount: decimal.NewFromInt(400)}, f.actor)
	require.NoError(t, err)
	b, err := f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: client, Amount: decimal.NewFromInt(600)}, f.actor)
	require.NoError(t, err)
	c, err := f.deposits.Create(ctx, CreateCreditDepositRequest{ClientID: uuid.New(), Amount: decimal.NewFromInt(100)}, f.actor)
	require.NoError(t, err)

	refunded, err := f.deposits.Refund(ctx, a.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Refunded", refunded.Status)
	_, err = f.deposits.Apply(ctx, b.ID, ApplyCreditDepositRequest{InvoiceID: inv.ID}, f.actor)
	require.NoError(t, err)

	stats, err := f.deposits.Stats(ctx, StatsQuery{})
	require.NoError(t, err)
	assert.True(t, stats.Total.Equal(decimal.NewFromInt(1100)), stats.Total.String())
	assert.True(t, stats.Pending.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.Applied.Equal(decimal.NewFromInt(600)))
	assert.True(t, stats.Refunded.Equal(decimal.NewFromInt(400)))

	list, total, err := f.deposits.List(ctx, CreditDepositListFilter{ClientID: client.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	require.NoError(t, f.deposits.Delete(ctx, c.ID, f.actor))
	_, err = f.deposits.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
