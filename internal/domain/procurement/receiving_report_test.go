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

func TestNewReceivingReport(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rr, err := NewReceivingReport("RR-2025-0001", uuid.New(), nil, time.Now(), []ReceivingLineInput{
		{LineInput: document.LineInput{ItemID: a, Quantity: 8, UnitPrice: decimal.NewFromInt(5)}, QuantityRejected: 2},
		{LineInput: document.LineInput{ItemID: b, Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
		{LineInput: document.LineInput{ItemID: a, Quantity: 2, UnitPrice: decimal.NewFromInt(5)}},
	}, uuid.New())
	require.NoError(t, err)

	assert.True(t, rr.TotalAmount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 2, rr.Items[0].QuantityRejected)
	assert.Equal(t, 8, rr.Items[0].Line().Quantity, "rejected units are not subtracted")
	assert.Equal(t, map[uuid.UUID]int{a: 10, b: 1}, rr.ReceivedByItem())
}

func TestNewReceivingReport_Validation(t *testing.T) {
	item := uuid.New()
	_, err := NewReceivingReport("RR-2025-0001", uuid.New(), nil, time.Now(), nil, uuid.New())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewReceivingReport("RR-2025-0001", uuid.New(), nil, time.Now(), []ReceivingLineInput{
		{LineInput: document.LineInput{ItemID: item, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}, QuantityRejected: -1},
	}, uuid.New())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewReceivingReport("RR-2025-0001", uuid.Nil, nil, time.Now(), []ReceivingLineInput{
		{LineInput: document.LineInput{ItemID: item, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	}, uuid.New())
	assert.Error(t, err)
}
