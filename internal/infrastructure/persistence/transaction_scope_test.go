package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/sequence"
)

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	items := NewGormStockItemRepository(db)

	item, err := inventory.NewStockItem("RAB-VAC", "Rabies Vaccine", inventory.KindProduct, decimal.NewFromInt(25), 5)
	require.NoError(t, err)
	require.NoError(t, items.Create(ctx, item))

	boom := errors.New("boom")
	err = scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		gen := sequence.NewGenerator(repos.CounterRepo(), repos.NumberHistory())
		if _, err := gen.Next(ctx, sequence.SeriesInvoice, time.Now()); err != nil {
			return err
		}
		if err := repos.StockItemRepo().AdjustQuantity(ctx, item.ID, 20, nil); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, found.QuantityOnHand)

	_, exists, err := NewGormSequenceRepository(db).Current(ctx, sequence.SeriesInvoice, time.Now().Year())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormTransactionScope_Commits(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)

	var number string
	err := scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		var err error
		number, err = sequence.NewGenerator(repos.CounterRepo(), repos.NumberHistory()).Next(ctx, sequence.SeriesExpense, time.Now())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, sequence.Format(sequence.SeriesExpense, time.Now().Year(), 1), number)
}
