// Package staff keeps HR records for clinic employees.
package staff

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// EmployeeStatus is the employment state
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "Active"
	EmployeeOnLeave    EmployeeStatus = "On Leave"
	EmployeeTerminated EmployeeStatus = "Terminated"
)

// IsValid checks if the status is known
func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeActive, EmployeeOnLeave, EmployeeTerminated:
		return true
	}
	return false
}

// SalaryType is the pay period of the salary amount
type SalaryType string

const (
	SalaryMonthly SalaryType = "Monthly"
	SalaryDaily   SalaryType = "Daily"
	SalaryHourly  SalaryType = "Hourly"
)

// IsValid checks if the salary type is known
func (s SalaryType) IsValid() bool {
	switch s {
	case SalaryMonthly, SalaryDaily, SalaryHourly:
		return true
	}
	return false
}

// Departments lists the clinic departments
func Departments() []string {
	return []string{"Administration", "Medical", "Front Desk", "Laboratory", "Grooming", "Maintenance"}
}

// GovernmentIDs holds statutory registration numbers
type GovernmentIDs struct {
	SSS        string
	PhilHealth string
	PagIBIG    string
	TIN        string
}

// Profile carries the editable employment details
type Profile struct {
	DateHired        time.Time
	Position         string
	Department       string
	Salary           *decimal.Decimal
	SalaryType       SalaryType
	GovernmentIDs    GovernmentIDs
	EmergencyContact string
	EmergencyPhone   string
	BankAccount      string
	BankName         string
	Notes            string
}

// Validate checks the position, salary and salary type
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Position) == "" {
		return shared.WrapDomainError("INVALID_POSITION", "Position is required", shared.ErrInvalidInput)
	}
	if p.Salary != nil && p.Salary.IsNegative() {
		return shared.WrapDomainError("INVALID_SALARY", "Salary cannot be negative", shared.ErrInvalidInput)
	}
	if p.SalaryType != "" && !p.SalaryType.IsValid() {
		return shared.WrapDomainError("INVALID_SALARY_TYPE", "Salary type must be Monthly, Daily or Hourly", shared.ErrInvalidInput)
	}
	return nil
}

// Employee is an employment record linked to a staff user account
type Employee struct {
	shared.BaseAggregateRoot
	EmployeeNumber string
	UserID         uuid.UUID
	Profile
	Status         EmployeeStatus
	DateTerminated *time.Time
}

// NewEmployee creates an active employee record
func NewEmployee(number string, userID uuid.UUID, p Profile) (*Employee, error) {
	if userID == uuid.Nil {
		return nil, shared.WrapDomainError("INVALID_USER", "User account is required", shared.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.DateHired.IsZero() {
		p.DateHired = time.Now()
	}
	if p.SalaryType == "" {
		p.SalaryType = SalaryMonthly
	}
	p.DateHired = p.DateHired.UTC()
	return &Employee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeNumber:    number,
		UserID:            userID,
		Profile:           p,
		Status:            EmployeeActive,
	}, nil
}

// Update replaces the profile
func (e *Employee) Update(p Profile) error {
	if p.DateHired.IsZero() {
		p.DateHired = e.DateHired
	}
	if p.SalaryType == "" {
		p.SalaryType = e.SalaryType
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.DateHired = p.DateHired.UTC()
	e.Profile = p
	e.Touch()
	e.IncrementVersion()
	return nil
}

// SetStatus moves between Active and On Leave
func (e *Employee) SetStatus(status EmployeeStatus) error {
	if !status.IsValid() {
		return shared.WrapDomainError("INVALID_STATUS", "Unknown employee status", shared.ErrInvalidInput)
	}
	if status == EmployeeTerminated {
		return e.Terminate(time.Now())
	}
	if e.Status == EmployeeTerminated {
		return shared.WrapDomainError(shared.ErrInvalidState.Code, "Terminated employees cannot be reactivated", nil)
	}
	e.Status = status
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Terminate ends the employment on the given date
func (e *Employee) Terminate(on time.Time) error {
	if e.Status == EmployeeTerminated {
		return shared.WrapDomainError(shared.ErrInvalidState.Code, "Employee is already terminated", nil)
	}
	if on.IsZero() {
		on = time.Now()
	}
	on = on.UTC()
	e.Status = EmployeeTerminated
	e.DateTerminated = &on
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Stats counts employees by status
type Stats struct {
	Total      int64
	Active     int64
	OnLeave    int64
	Terminated int64
}

// EmployeeRepository persists employee records
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Employee, int64, error)
	ExistsByUser(ctx context.Context, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, employee *Employee) error
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[EmployeeStatus]int64, error)
}
