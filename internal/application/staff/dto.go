package staff

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/domain/staff"
)

// ProfileRequest carries the editable employment details
type ProfileRequest struct {
	DateHired        *time.Time       `json:"date_hired"`
	Position         string           `json:"position" binding:"required,max=100"`
	Department       string           `json:"department" binding:"max=100"`
	Salary           *decimal.Decimal `json:"salary"`
	SalaryType       string           `json:"salary_type" binding:"omitempty,oneof=Monthly Daily Hourly"`
	SSSNumber        string           `json:"sss_number" binding:"max=30"`
	PhilHealthNumber string           `json:"philhealth_number" binding:"max=30"`
	PagIBIGNumber    string           `json:"pagibig_number" binding:"max=30"`
	TINNumber        string           `json:"tin_number" binding:"max=30"`
	EmergencyContact string           `json:"emergency_contact" binding:"max=200"`
	EmergencyPhone   string           `json:"emergency_phone" binding:"max=30"`
	BankAccount      string           `json:"bank_account" binding:"max=50"`
	BankName         string           `json:"bank_name" binding:"max=100"`
	Notes            string           `json:"notes" binding:"max=2000"`
}

func (r ProfileRequest) profile() staff.Profile {
	p := staff.Profile{
		Position:   r.Position,
		Department: r.Department,
		Salary:     r.Salary,
		SalaryType: staff.SalaryType(r.SalaryType),
		GovernmentIDs: staff.GovernmentIDs{
			SSS:        r.SSSNumber,
			PhilHealth: r.PhilHealthNumber,
			PagIBIG:    r.PagIBIGNumber,
			TIN:        r.TINNumber,
		},
		EmergencyContact: r.EmergencyContact,
		EmergencyPhone:   r.EmergencyPhone,
		BankAccount:      r.BankAccount,
		BankName:         r.BankName,
		Notes:            r.Notes,
	}
	if r.DateHired != nil {
		p.DateHired = *r.DateHired
	}
	return p
}

// CreateEmployeeRequest links a new employee record to a user account
type CreateEmployeeRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	ProfileRequest
}

// SetStatusRequest moves an employee between Active, On Leave and Terminated
type SetStatusRequest struct {
	Status         string     `json:"status" binding:"required,oneof=Active 'On Leave' Terminated"`
	DateTerminated *time.Time `json:"date_terminated"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID               uuid.UUID        `json:"id"`
	EmployeeNumber   string           `json:"employee_number"`
	UserID           uuid.UUID        `json:"user_id"`
	DateHired        time.Time        `json:"date_hired"`
	Position         string           `json:"position"`
	Department       string           `json:"department,omitempty"`
	Salary           *decimal.Decimal `json:"salary,omitempty"`
	SalaryType       string           `json:"salary_type"`
	SSSNumber        string           `json:"sss_number,omitempty"`
	PhilHealthNumber string           `json:"philhealth_number,omitempty"`
	PagIBIGNumber    string           `json:"pagibig_number,omitempty"`
	TINNumber        string           `json:"tin_number,omitempty"`
	EmergencyContact string           `json:"emergency_contact,omitempty"`
	EmergencyPhone   string           `json:"emergency_phone,omitempty"`
	BankAccount      string           `json:"bank_account,omitempty"`
	BankName         string           `json:"bank_name,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Status           string           `json:"status"`
	DateTerminated   *time.Time       `json:"date_terminated,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          int              `json:"version"`
}

// ToEmployeeResponse converts a domain employee to a response
func ToEmployeeResponse(e *staff.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		EmployeeNumber:   e.EmployeeNumber,
		UserID:           e.UserID,
		DateHired:        e.DateHired,
		Position:         e.Position,
		Department:       e.Department,
		Salary:           e.Salary,
		SalaryType:       string(e.SalaryType),
		SSSNumber:        e.GovernmentIDs.SSS,
		PhilHealthNumber: e.GovernmentIDs.PhilHealth,
		PagIBIGNumber:    e.GovernmentIDs.PagIBIG,
		TINNumber:        e.GovernmentIDs.TIN,
		EmergencyContact: e.EmergencyContact,
		EmergencyPhone:   e.EmergencyPhone,
		BankAccount:      e.BankAccount,
		BankName:         e.BankName,
		Notes:            e.Notes,
		Status:           string(e.Status),
		DateTerminated:   e.DateTerminated,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		Version:          e.Version,
	}
}

// EmployeeListFilter binds the employee listing query
type EmployeeListFilter struct {
	query.PageQuery
	Status     string `form:"status" binding:"omitempty,oneof=Active 'On Leave' Terminated"`
	Department string `form:"department"`
}

// ToFilter converts to a repository filter
func (f EmployeeListFilter) ToFilter() shared.Filter {
	return f.PageQuery.Filter(map[string]string{"status": f.Status, "department": f.Department})
}

// StatsResponse counts employees by status
type StatsResponse struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	OnLeave    int64 `json:"on_leave"`
	Terminated int64 `json:"terminated"`
}
