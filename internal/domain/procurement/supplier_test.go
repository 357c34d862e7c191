package procurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/shared"
)

func TestNewSupplier(t *testing.T) {
	s, err := NewSupplier(SupplierDetails{
		Name:     "  VetPharma Distributors ",
		Email:    " Orders@VetPharma.PH ",
		Phone:    " 02 8123 4567",
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "VetPharma Distributors", s.Name)
	assert.Equal(t, "orders@vetpharma.ph", s.Email)
	assert.Equal(t, "02 8123 4567", s.Phone)
	assert.Equal(t, 1, s.Version)

	_, err = NewSupplier(SupplierDetails{Name: "   "})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestSupplier_Update(t *testing.T) {
	s, err := NewSupplier(SupplierDetails{Name: "PetSupply Co.", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, s.Update(SupplierDetails{Name: "PetSupply Corporation", ContactPerson: "Liza Ramos"}))
	assert.Equal(t, "PetSupply Corporation", s.Name)
	assert.False(t, s.IsActive)
	assert.Equal(t, 2, s.Version)

	assert.Error(t, s.Update(SupplierDetails{}))
	assert.Equal(t, "PetSupply Corporation", s.Name)
}

func TestSupplierUsage_InUse(t *testing.T) {
	assert.False(t, SupplierUsage{}.InUse())
	assert.True(t, SupplierUsage{ReceivingReports: 1}.InUse())
}
