package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/staff"
)

// EmployeeModel is the persistence model for the Employee aggregate root.
type EmployeeModel struct {
	AggregateModel
	EmployeeNumber   string           `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	DateHired        time.Time        `gorm:"not null;index"`
	DateTerminated   *time.Time
	Position         string           `gorm:"type:varchar(100);not null"`
	Department       string           `gorm:"type:varchar(100);index"`
	Salary           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SalaryType       string           `gorm:"type:varchar(20);not null;default:'Monthly'"`
	SSSNumber        string           `gorm:"column:sss_number;type:varchar(30)"`
	PhilHealthNumber string           `gorm:"column:philhealth_number;type:varchar(30)"`
	PagIBIGNumber    string           `gorm:"column:pagibig_number;type:varchar(30)"`
	TINNumber        string           `gorm:"column:tin_number;type:varchar(30)"`
	EmergencyContact string           `gorm:"type:varchar(200)"`
	EmergencyPhone   string           `gorm:"type:varchar(30)"`
	BankAccount      string           `gorm:"type:varchar(50)"`
	BankName         string           `gorm:"type:varchar(100)"`
	Notes            string           `gorm:"type:text"`
	Status           string           `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee.
func (m *EmployeeModel) ToDomain() *staff.Employee {
	return &staff.Employee{
		BaseAggregateRoot: m.ToAggregateRoot(),
		EmployeeNumber:    m.EmployeeNumber,
		UserID:            m.UserID,
		Profile: staff.Profile{
			DateHired:  m.DateHired,
			Position:   m.Position,
			Department: m.Department,
			Salary:     m.Salary,
			SalaryType: staff.SalaryType(m.SalaryType),
			GovernmentIDs: staff.GovernmentIDs{
				SSS:        m.SSSNumber,
				PhilHealth: m.PhilHealthNumber,
				PagIBIG:    m.PagIBIGNumber,
				TIN:        m.TINNumber,
			},
			EmergencyContact: m.EmergencyContact,
			EmergencyPhone:   m.EmergencyPhone,
			BankAccount:      m.BankAccount,
			BankName:         m.BankName,
			Notes:            m.Notes,
		},
		Status:         staff.EmployeeStatus(m.Status),
		DateTerminated: m.DateTerminated,
	}
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee.
func EmployeeModelFromDomain(e *staff.Employee) *EmployeeModel {
	m := &EmployeeModel{
		EmployeeNumber:   e.EmployeeNumber,
		UserID:           e.UserID,
		DateHired:        e.DateHired,
		DateTerminated:   e.DateTerminated,
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
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}
