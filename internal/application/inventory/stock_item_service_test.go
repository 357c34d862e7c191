package inventory

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/shared"
)

func setupStockItemService() (*StockItemService, *MockStockItemRepository, *MockEventPublisher) {
	repo := new(MockStockItemRepository)
	publisher := NewMockEventPublisher()
	svc := NewStockItemService(repo, zap.NewNop())
	svc.SetEventPublisher(publisher)
	return svc, repo, publisher
}

func TestStockItemService_Create(t *testing.T) {
	actor := uuid.New()

	t.Run("product with opening stock", func(t *testing.T) {
		svc, repo, publisher := setupStockItemService()
		repo.On("ExistsByCode", mock.Anything, "AMOX-250").Return(false, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockItem")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateStockItemRequest{
			Code: "amox-250", Name: "Amoxicillin 250mg", Kind: "Product",
			UnitPrice: decimal.NewFromInt(12), ReorderThreshold: 20, InitialQuantity: 100, Unit: "tab",
		}, actor)

		require.NoError(t, err)
		assert.Equal(t, "AMOX-250", resp.Code)
		assert.Equal(t, 100, resp.QuantityOnHand)
		assert.Equal(t, "tab", resp.Unit)
		assert.False(t, resp.IsLowStock)

		events := publisher.GetEvents()
		require.Len(t, events, 1)
		changed := events[0].(*audit.RecordChanged)
		assert.Equal(t, audit.ActionCreate, changed.Action)
		assert.Equal(t, AuditModule, changed.Module)
		assert.Equal(t, actor, changed.ActorID)
	})

	t.Run("service ignores opening stock", func(t *testing.T) {
		svc, repo, _ := setupStockItemService()
		repo.On("ExistsByCode", mock.Anything, "CONSULT").Return(false, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Create(context.Background(), CreateStockItemRequest{
			Code: "CONSULT", Name: "Consultation", Kind: "Service", UnitPrice: decimal.NewFromInt(500), InitialQuantity: 9,
		}, actor)

		require.NoError(t, err)
		assert.Zero(t, resp.QuantityOnHand)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc, repo, publisher := setupStockItemService()
		repo.On("ExistsByCode", mock.Anything, "AMOX").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateStockItemRequest{Code: "AMOX", Name: "x", Kind: "Product"}, actor)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, publisher.GetEvents())
	})

	t.Run("missing actor", func(t *testing.T) {
		svc, repo, _ := setupStockItemService()
		_, err := svc.Create(context.Background(), CreateStockItemRequest{Code: "A", Name: "x", Kind: "Product"}, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrMissingActor)
		repo.AssertExpectations(t)
	})
}

func TestStockItemService_UpdateKeepsQuantity(t *testing.T) {
	svc, repo, publisher := setupStockItemService()
	item := newProduct(t, "VAX")
	item.QuantityOnHand = 42
	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	repo.On("Update", mock.Anything, item).Return(nil)

	resp, err := svc.Update(context.Background(), item.ID, UpdateStockItemRequest{
		Name: "Rabies vaccine", UnitPrice: decimal.NewFromInt(350), ReorderThreshold: 5,
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 42, resp.QuantityOnHand)
	assert.Equal(t, "Rabies vaccine", resp.Name)
	assert.Equal(t, 2, resp.Version)
	require.Len(t, publisher.GetEvents(), 1)
	assert.Equal(t, audit.ActionUpdate, publisher.GetEvents()[0].(*audit.RecordChanged).Action)
}

func TestStockItemService_Delete(t *testing.T) {
	svc, repo, publisher := setupStockItemService()
	item := newProduct(t, "OLD")
	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	repo.On("Delete", mock.Anything, item.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), item.ID, uuid.New()))
	assert.Equal(t, audit.ActionDelete, publisher.GetEvents()[0].(*audit.RecordChanged).Action)

	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), missing, uuid.New()), shared.ErrNotFound)
}

func TestStockItemService_List(t *testing.T) {
	svc, repo, _ := setupStockItemService()
	item := newProduct(t, "A")
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.String("kind") == "Product" && f.Search == "amo" && f.Page == 1
	})).Return([]inventory.StockItem{*item}, int64(1), nil)

	filter := StockItemListFilter{Kind: "Product"}
	filter.Search = "amo"
	items, total, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Code)
}

func TestStockItemService_ExportLowStock(t *testing.T) {
	svc, repo, _ := setupStockItemService()
	low := newProduct(t, "GAUZE")
	low.QuantityOnHand = 1
	repo.On("FindLowStock", mock.Anything).Return([]inventory.StockItem{*low}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportLowStock(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Low Stock")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Code", "Name", "On hand", "Reorder at", "Unit price"}, rows[0])
	assert.Equal(t, "GAUZE", rows[1][0])
	assert.Equal(t, "1", rows[1][2])
	assert.Equal(t, "2", rows[1][3])
	assert.Equal(t, "100", rows[1][4])
}

func TestLowStockFileName(t *testing.T) {
	assert.Equal(t, "low-stock-2025-06-01.xlsx", LowStockFileName(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))
}
