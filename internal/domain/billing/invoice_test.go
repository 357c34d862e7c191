package billing

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

func pricedLines(t *testing.T) []document.Line {
	t.Helper()
	lines, _, err := document.PriceLines([]document.LineInput{
		{ItemID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(150)},
		{ItemID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(500)},
	})
	require.NoError(t, err)
	return lines
}

func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice("INV-2025-0001", uuid.New(), time.Now(), pricedLines(t), uuid.New())
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	inv := createTestInvoice(t)
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
	assert.Len(t, inv.Items, 2)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(800)))
	for _, item := range inv.Items {
		assert.Equal(t, inv.ID, item.InvoiceID)
	}
}

func TestNewInvoice_Validation(t *testing.T) {
	lines := pricedLines(t)
	actor := uuid.New()

	_, err := NewInvoice("", uuid.New(), time.Now(), lines, actor)
	assert.Error(t, err)

	_, err = NewInvoice("INV-2025-0001", uuid.Nil, time.Now(), lines, actor)
	assert.Error(t, err)

	_, err = NewInvoice("INV-2025-0001", uuid.New(), time.Now(), nil, actor)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewInvoice("INV-2025-0001", uuid.New(), time.Now(), lines, uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrMissingActor)
}

func TestInvoiceStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to InvoiceStatus
		allowed  bool
	}{
		{InvoiceStatusUnpaid, InvoiceStatusPaid, true},
		{InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusUnpaid, InvoiceStatusCancelled, true},
		{InvoiceStatusPartiallyPaid, InvoiceStatusPaid, true},
		{InvoiceStatusPaid, InvoiceStatusUnpaid, false},
		{InvoiceStatusCancelled, InvoiceStatusPaid, false},
		{InvoiceStatusPaid, InvoiceStatusPaid, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoice_UpdateStatus(t *testing.T) {
	inv := createTestInvoice(t)
	require.NoError(t, inv.UpdateStatus(InvoiceStatusPaid, "settled at counter"))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Equal(t, "settled at counter", inv.Notes)
	assert.Equal(t, 2, inv.Version)

	err := inv.UpdateStatus(InvoiceStatusUnpaid, "")
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = inv.UpdateStatus(InvoiceStatus("Void"), "")
	assert.Error(t, err)
}
