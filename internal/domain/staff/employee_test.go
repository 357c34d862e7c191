package staff

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/shared"
)

func TestNewEmployee(t *testing.T) {
	salary := decimal.NewFromInt(25000)
	e, err := NewEmployee("EMP-2025-0001", uuid.New(), Profile{Position: "Veterinary Assistant", Salary: &salary})
	require.NoError(t, err)
	assert.Equal(t, EmployeeActive, e.Status)
	assert.Equal(t, SalaryMonthly, e.SalaryType)
	assert.False(t, e.DateHired.IsZero())

	_, err = NewEmployee("EMP-2025-0002", uuid.New(), Profile{})
	assert.Error(t, err)

	neg := decimal.NewFromInt(-1)
	_, err = NewEmployee("EMP-2025-0002", uuid.New(), Profile{Position: "Groomer", Salary: &neg})
	assert.Error(t, err)
}

func TestEmployee_Lifecycle(t *testing.T) {
	e, err := NewEmployee("EMP-2025-0001", uuid.New(), Profile{Position: "Groomer"})
	require.NoError(t, err)

	require.NoError(t, e.SetStatus(EmployeeOnLeave))
	assert.Equal(t, EmployeeOnLeave, e.Status)

	on := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.Terminate(on))
	assert.Equal(t, EmployeeTerminated, e.Status)
	assert.Equal(t, on, *e.DateTerminated)

	assert.True(t, errors.Is(e.SetStatus(EmployeeActive), shared.ErrInvalidState))
	assert.True(t, errors.Is(e.Terminate(on), shared.ErrInvalidState))
}

func TestEmployee_UpdateKeepsHireDate(t *testing.T) {
	hired := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	e, err := NewEmployee("EMP-2025-0001", uuid.New(), Profile{Position: "Groomer", DateHired: hired})
	require.NoError(t, err)

	require.NoError(t, e.Update(Profile{Position: "Senior Groomer", Department: "Grooming"}))
	assert.Equal(t, hired, e.DateHired)
	assert.Equal(t, "Senior Groomer", e.Position)
	assert.Equal(t, SalaryMonthly, e.SalaryType)
}
