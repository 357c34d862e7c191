package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/shared"
)

func newTestInvoice(t *testing.T, number string) *billing.Invoice {
	t.Helper()
	lines, _, err := document.PriceLines([]document.LineInput{
		{ItemID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		{ItemID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(35)},
	})
	require.NoError(t, err)
	inv, err := billing.NewInvoice(number, uuid.New(), time.Now(), lines, uuid.New())
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(newTestDB(t))
	inv := newTestInvoice(t, "INV-2025-0001")
	require.NoError(t, repo.Create(ctx, inv))

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", found.InvoiceNumber)
	assert.Len(t, found.Items, 2)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(120)))

	exists, err := repo.Exists(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormInvoiceRepository_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, newTestInvoice(t, "INV-2025-0001")))

	err := repo.Create(ctx, newTestInvoice(t, "INV-2025-0001"))
	assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
}

func TestGormInvoiceRepository_UpdateHeaderAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormInvoiceRepository(db)
	inv := newTestInvoice(t, "INV-2025-0002")
	require.NoError(t, repo.Create(ctx, inv))

	require.NoError(t, inv.UpdateStatus(billing.InvoiceStatusPaid, "paid in cash"))
	require.NoError(t, repo.UpdateHeader(ctx, inv))

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, found.Status)
	assert.Equal(t, 2, found.Version)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(billing.InvoiceStatusPaid)
	list, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 2)

	require.NoError(t, repo.Delete(ctx, inv.ID))
	_, err = repo.FindByID(ctx, inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var orphans int64
	require.NoError(t, db.Table("invoice_items").Where("invoice_id = ?", inv.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)

	assert.ErrorIs(t, repo.Delete(ctx, inv.ID), shared.ErrNotFound)
}

func TestGormInvoiceRepository_UpdateHeaderRejectsStaleCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(newTestDB(t))
	inv := newTestInvoice(t, "INV-2025-0003")
	require.NoError(t, repo.Create(ctx, inv))

	first, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)

	require.NoError(t, first.UpdateStatus(billing.InvoiceStatusPaid, "paid at the counter"))
	require.NoError(t, repo.UpdateHeader(ctx, first))

	require.NoError(t, second.UpdateStatus(billing.InvoiceStatusCancelled, "client left"))
	assert.ErrorIs(t, repo.UpdateHeader(ctx, second), shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, found.Status)
	assert.Equal(t, "paid at the counter", found.Notes)

	require.NoError(t, repo.Delete(ctx, inv.ID))
	assert.ErrorIs(t, repo.UpdateHeader(ctx, second), shared.ErrNotFound)
}

func TestGormWalkInInvoiceRepository_UpdateHeaderRejectsStaleCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWalkInInvoiceRepository(newTestDB(t))
	lines, _, err := document.PriceLines([]document.LineInput{
		{ItemID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(300)},
	})
	require.NoError(t, err)
	inv, err := billing.NewWalkInInvoice("WI-2025-0001", time.Now(), billing.Customer{Name: "Ana Cruz", PetName: "Mochi"}, lines, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, inv))

	first, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)

	require.NoError(t, first.Pay(billing.Payment{Method: billing.PaymentCash, CashAmount: decimal.NewFromInt(300)}))
	require.NoError(t, repo.UpdateHeader(ctx, first))

	require.NoError(t, second.UpdateCustomer(billing.Customer{Name: "Ana C."}, ""))
	assert.ErrorIs(t, repo.UpdateHeader(ctx, second), shared.ErrConcurrencyConflict)
}
