package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/finance"
)

// ExpenseModel is the persistence model for the Expense aggregate root.
type ExpenseModel struct {
	AggregateModel
	ExpenseNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Date          time.Time       `gorm:"not null;index"`
	Category      string          `gorm:"type:varchar(30);not null;index"`
	Description   string          `gorm:"type:varchar(500);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(30)"`
	Reference     string          `gorm:"type:varchar(100)"`
	Notes         string          `gorm:"type:text"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense.
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ExpenseNumber:     m.ExpenseNumber,
		Date:              m.Date,
		Category:          finance.ExpenseCategory(m.Category),
		Description:       m.Description,
		Amount:            m.Amount,
		PaymentMethod:     m.PaymentMethod,
		Reference:         m.Reference,
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
	}
}

// ExpenseModelFromDomain creates a persistence model from a domain Expense.
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{
		ExpenseNumber: e.ExpenseNumber,
		Date:          e.Date,
		Category:      string(e.Category),
		Description:   e.Description,
		Amount:        e.Amount,
		PaymentMethod: e.PaymentMethod,
		Reference:     e.Reference,
		Notes:         e.Notes,
		CreatedBy:     e.CreatedBy,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// CreditDepositModel is the persistence model for the CreditDeposit aggregate root.
type CreditDepositModel struct {
	AggregateModel
	DepositNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date          time.Time       `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reference     string          `gorm:"type:varchar(100)"`
	Notes         string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid;index"`
	ReceivedBy    uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (CreditDepositModel) TableName() string {
	return "credit_deposits"
}

// ToDomain converts the persistence model to a domain CreditDeposit.
func (m *CreditDepositModel) ToDomain() *finance.CreditDeposit {
	return &finance.CreditDeposit{
		BaseAggregateRoot: m.ToAggregateRoot(),
		DepositNumber:     m.DepositNumber,
		ClientID:          m.ClientID,
		Date:              m.Date,
		Amount:            m.Amount,
		Reference:         m.Reference,
		Notes:             m.Notes,
		Status:            finance.DepositStatus(m.Status),
		InvoiceID:         m.InvoiceID,
		ReceivedBy:        m.ReceivedBy,
	}
}

// CreditDepositModelFromDomain creates a persistence model from a domain CreditDeposit.
func CreditDepositModelFromDomain(d *finance.CreditDeposit) *CreditDepositModel {
	m := &CreditDepositModel{
		DepositNumber: d.DepositNumber,
		ClientID:      d.ClientID,
		Date:          d.Date,
		Amount:        d.Amount,
		Reference:     d.Reference,
		Notes:         d.Notes,
		Status:        string(d.Status),
		InvoiceID:     d.InvoiceID,
		ReceivedBy:    d.ReceivedBy,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}
