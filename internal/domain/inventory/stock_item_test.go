package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/shared"
)

func TestNewStockItem(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		item, err := NewStockItem(" amx-250 ", "Amoxicillin 250mg", KindProduct, decimal.NewFromFloat(12.5), 10)
		require.NoError(t, err)
		assert.Equal(t, "AMX-250", item.Code)
		assert.Equal(t, 0, item.QuantityOnHand)
		assert.Equal(t, 1, item.Version)
		assert.NotEqual(t, uuid.Nil, item.ID)
	})

	tests := []struct {
		name      string
		code      string
		itemName  string
		kind      ItemKind
		price     decimal.Decimal
		threshold int
		errCode   string
	}{
		{"empty code", "", "X", KindProduct, decimal.Zero, 0, "INVALID_CODE"},
		{"empty name", "X", " ", KindProduct, decimal.Zero, 0, "INVALID_NAME"},
		{"bad kind", "X", "X", ItemKind("Bundle"), decimal.Zero, 0, "INVALID_KIND"},
		{"negative price", "X", "X", KindService, decimal.NewFromInt(-1), 0, "INVALID_PRICE"},
		{"negative threshold", "X", "X", KindProduct, decimal.Zero, -1, "INVALID_THRESHOLD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStockItem(tt.code, tt.itemName, tt.kind, tt.price, tt.threshold)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.errCode, domainErr.Code)
		})
	}
}

func TestStockItem_IsLowStock(t *testing.T) {
	product, err := NewStockItem("VAC-1", "Rabies vaccine", KindProduct, decimal.NewFromInt(300), 5)
	require.NoError(t, err)

	product.QuantityOnHand = 6
	assert.False(t, product.IsLowStock())
	product.QuantityOnHand = 5
	assert.True(t, product.IsLowStock())
	product.QuantityOnHand = -2
	assert.True(t, product.IsLowStock())

	service, err := NewStockItem("CONSULT", "Consultation", KindService, decimal.NewFromInt(500), 0)
	require.NoError(t, err)
	assert.False(t, service.IsLowStock())
}

func TestStockItem_Update(t *testing.T) {
	item, err := NewStockItem("GZ-1", "Gauze", KindProduct, decimal.NewFromInt(20), 3)
	require.NoError(t, err)
	item.QuantityOnHand = 40

	require.NoError(t, item.Update("Gauze pad", "sterile", "box", decimal.NewFromInt(25), 4))
	assert.Equal(t, "Gauze pad", item.Name)
	assert.Equal(t, "box", item.Unit)
	assert.Equal(t, 40, item.QuantityOnHand)
	assert.Equal(t, 2, item.Version)

	assert.Error(t, item.Update("", "", "", decimal.Zero, 0))
}

func TestItemIDs_Dedupes(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, ItemIDs(a, b, a, b))
}
