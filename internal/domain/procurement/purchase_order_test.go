package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/shared"
)

func createTestPurchaseOrder(t *testing.T, ordered ...int) (*PurchaseOrder, []uuid.UUID) {
	t.Helper()
	inputs := make([]document.LineInput, len(ordered))
	ids := make([]uuid.UUID, len(ordered))
	for i, qty := range ordered {
		ids[i] = uuid.New()
		inputs[i] = document.LineInput{ItemID: ids[i], Quantity: qty, UnitPrice: decimal.NewFromInt(10)}
	}
	lines, _, err := document.PriceLines(inputs)
	require.NoError(t, err)
	po, err := NewPurchaseOrder("PO-2025-0001", uuid.New(), time.Now(), lines, uuid.New())
	require.NoError(t, err)
	return po, ids
}

func TestNewPurchaseOrder(t *testing.T) {
	po, _ := createTestPurchaseOrder(t, 10, 5)
	assert.Equal(t, POStatusPending, po.Status)
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(150)))
	assert.Len(t, po.Items, 2)

	_, err := NewPurchaseOrder("PO-2025-0002", uuid.Nil, time.Now(), po.Lines(), uuid.New())
	assert.Error(t, err)
	_, err = NewPurchaseOrder("PO-2025-0002", uuid.New(), time.Now(), po.Lines(), uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrMissingActor)
}

func TestPurchaseOrder_Receive(t *testing.T) {
	t.Run("all lines complete", func(t *testing.T) {
		po, ids := createTestPurchaseOrder(t, 10, 5)
		require.NoError(t, po.Receive(map[uuid.UUID]int{ids[0]: 10, ids[1]: 5}))
		assert.Equal(t, POStatusReceived, po.Status)
	})

	t.Run("one line short", func(t *testing.T) {
		po, ids := createTestPurchaseOrder(t, 10, 5)
		require.NoError(t, po.Receive(map[uuid.UUID]int{ids[0]: 10, ids[1]: 3}))
		assert.Equal(t, POStatusPartiallyReceived, po.Status)
	})

	t.Run("surplus does not offset shortfall", func(t *testing.T) {
		po, ids := createTestPurchaseOrder(t, 10, 5)
		require.NoError(t, po.Receive(map[uuid.UUID]int{ids[0]: 14, ids[1]: 1}))
		assert.Equal(t, POStatusPartiallyReceived, po.Status)
		assert.Equal(t, 15, po.TotalReceived())
	})

	t.Run("cumulative over several reports", func(t *testing.T) {
		po, ids := createTestPurchaseOrder(t, 10, 5)
		require.NoError(t, po.Receive(map[uuid.UUID]int{ids[0]: 4}))
		assert.Equal(t, POStatusPartiallyReceived, po.Status)
		require.NoError(t, po.Receive(map[uuid.UUID]int{ids[0]: 6, ids[1]: 5}))
		assert.Equal(t, POStatusReceived, po.Status)
	})

	t.Run("cannot receive against cancelled order", func(t *testing.T) {
		po, ids := createTestPurchaseOrder(t, 10)
		require.NoError(t, po.Cancel())
		err := po.Receive(map[uuid.UUID]int{ids[0]: 10})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("duplicate item lines fill in order", func(t *testing.T) {
		item := uuid.New()
		lines, _, err := document.PriceLines([]document.LineInput{
			{ItemID: item, Quantity: 3, UnitPrice: decimal.NewFromInt(1)},
			{ItemID: item, Quantity: 2, UnitPrice: decimal.NewFromInt(1)},
		})
		require.NoError(t, err)
		po, err := NewPurchaseOrder("PO-2025-0003", uuid.New(), time.Now(), lines, uuid.New())
		require.NoError(t, err)

		require.NoError(t, po.Receive(map[uuid.UUID]int{item: 5}))
		assert.Equal(t, 3, po.Items[0].ReceivedQuantity)
		assert.Equal(t, 2, po.Items[1].ReceivedQuantity)
		assert.Equal(t, POStatusReceived, po.Status)
	})
}

func TestPurchaseOrder_Unreceive(t *testing.T) {
	po, ids := createTestPurchaseOrder(t, 10, 5)
	require.NoError(t, po.Approve())
	require.NoError(t, po.Receive(map[uuid.UUID]int{ids[0]: 10, ids[1]: 5}))
	require.Equal(t, POStatusReceived, po.Status)

	po.Unreceive(map[uuid.UUID]int{ids[1]: 2})
	assert.Equal(t, POStatusPartiallyReceived, po.Status)

	po.Unreceive(map[uuid.UUID]int{ids[0]: 10, ids[1]: 3})
	assert.Equal(t, POStatusApproved, po.Status)
	assert.Equal(t, 0, po.TotalReceived())
}

func TestPurchaseOrder_ApproveCancel(t *testing.T) {
	po, _ := createTestPurchaseOrder(t, 1)
	require.NoError(t, po.Approve())
	assert.Equal(t, POStatusApproved, po.Status)
	assert.NotNil(t, po.ApprovedAt)
	assert.ErrorIs(t, po.Approve(), shared.ErrInvalidState)

	require.NoError(t, po.Cancel())
	assert.Equal(t, POStatusCancelled, po.Status)
	assert.ErrorIs(t, po.Cancel(), shared.ErrInvalidState)
	assert.ErrorIs(t, po.UpdateDetails(nil, "late"), shared.ErrInvalidState)
}
