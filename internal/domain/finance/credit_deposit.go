package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// DepositStatus is the lifecycle state of a client credit deposit
type DepositStatus string

const (
	DepositPending  DepositStatus = "Pending"
	DepositApplied  DepositStatus = "Applied"
	DepositRefunded DepositStatus = "Refunded"
)

// IsValid checks if the status is known
func (s DepositStatus) IsValid() bool {
	switch s {
	case DepositPending, DepositApplied, DepositRefunded:
		return true
	}
	return false
}

// CreditDeposit is money a client leaves with the clinic to settle future invoices.
// Only Pending deposits count toward the client's available balance.
type CreditDeposit struct {
	shared.BaseAggregateRoot
	DepositNumber string
	ClientID      uuid.UUID
	Date          time.Time
	Amount        decimal.Decimal
	Reference     string
	Notes         string
	Status        DepositStatus
	InvoiceID     *uuid.UUID
	ReceivedBy    uuid.UUID
}

// NewCreditDeposit creates a pending deposit
func NewCreditDeposit(number string, clientID uuid.UUID, date time.Time, amount decimal.Decimal, reference, notes string, receivedBy uuid.UUID) (*CreditDeposit, error) {
	if err := shared.RequireActor(receivedBy); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.WrapDomainError("INVALID_CLIENT", "Client is required", shared.ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return nil, shared.WrapDomainError("INVALID_AMOUNT", "Deposit amount must be positive", shared.ErrInvalidInput)
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &CreditDeposit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DepositNumber:     number,
		ClientID:          clientID,
		Date:              date.UTC(),
		Amount:            amount,
		Reference:         reference,
		Notes:             notes,
		Status:            DepositPending,
		ReceivedBy:        receivedBy,
	}, nil
}

// ApplyTo settles an invoice with the deposit
func (d *CreditDeposit) ApplyTo(invoiceID uuid.UUID) error {
	if invoiceID == uuid.Nil {
		return shared.WrapDomainError("INVALID_INVOICE", "Invoice is required", shared.ErrInvalidInput)
	}
	if err := d.transition(DepositApplied); err != nil {
		return err
	}
	d.InvoiceID = &invoiceID
	return nil
}

// Refund returns the deposit to the client
func (d *CreditDeposit) Refund() error {
	return d.transition(DepositRefunded)
}

func (d *CreditDeposit) transition(to DepositStatus) error {
	if d.Status != DepositPending {
		return shared.WrapDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Cannot move deposit %s from %s to %s", d.DepositNumber, d.Status, to), nil)
	}
	d.Status = to
	d.Touch()
	d.IncrementVersion()
	return nil
}

// DepositStats sums deposits by status over a date range
type DepositStats struct {
	Total    decimal.Decimal
	Pending  decimal.Decimal
	Applied  decimal.Decimal
	Refunded decimal.Decimal
}
