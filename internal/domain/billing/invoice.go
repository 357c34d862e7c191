package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// InvoiceStatus is the payment state of a clinic invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "Unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusCancelled     InvoiceStatus = "Cancelled"
)

// IsValid checks if the status is a known value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the status name
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether an invoice may move from s to target
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case InvoiceStatusUnpaid:
		return target == InvoiceStatusPartiallyPaid || target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPartiallyPaid:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	}
	return false
}

// InvoiceItem is one priced line of a clinic invoice
type InvoiceItem struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	ItemID    uuid.UUID
	ItemName  string
	Quantity  int
	PriceEach decimal.Decimal
	Subtotal  decimal.Decimal
	CreatedAt time.Time
}

// Line returns the ledger view of the item
func (i InvoiceItem) Line() document.Line {
	return document.Line{ItemID: i.ItemID, Quantity: i.Quantity, UnitPrice: i.PriceEach, Subtotal: i.Subtotal}
}

// Invoice is a clinic invoice billed to a client
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	ClientID      uuid.UUID
	Date          time.Time
	TotalAmount   decimal.Decimal
	Status        InvoiceStatus
	Notes         string
	CreatedBy     uuid.UUID
	Items         []InvoiceItem
}

// NewInvoice builds an invoice from priced lines. The number is assigned by the caller.
func NewInvoice(number string, clientID uuid.UUID, date time.Time, lines []document.Line, createdBy uuid.UUID) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.WrapDomainError("INVALID_NUMBER", "Invoice number cannot be empty", shared.ErrInvalidInput)
	}
	if clientID == uuid.Nil {
		return nil, shared.WrapDomainError("INVALID_CLIENT", "Client is required", shared.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, document.InvalidLines("At least one line item is required")
	}
	if err := shared.RequireActor(createdBy); err != nil {
		return nil, err
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     number,
		ClientID:          clientID,
		Date:              date.UTC(),
		Status:            InvoiceStatusUnpaid,
		CreatedBy:         createdBy,
		Items:             make([]InvoiceItem, 0, len(lines)),
	}
	for _, l := range lines {
		inv.Items = append(inv.Items, InvoiceItem{
			ID:        uuid.New(),
			InvoiceID: inv.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			PriceEach: l.UnitPrice,
			Subtotal:  l.Subtotal,
			CreatedAt: inv.CreatedAt,
		})
	}
	inv.TotalAmount = document.Total(inv.Lines())
	return inv, nil
}

// Lines returns the ledger view of all items
func (i *Invoice) Lines() []document.Line {
	lines := make([]document.Line, len(i.Items))
	for n, item := range i.Items {
		lines[n] = item.Line()
	}
	return lines
}

// UpdateStatus moves the invoice to a new payment status and replaces notes
func (i *Invoice) UpdateStatus(status InvoiceStatus, notes string) error {
	if !status.IsValid() {
		return shared.WrapDomainError("INVALID_STATUS", "Unknown invoice status", shared.ErrInvalidInput)
	}
	if !i.Status.CanTransitionTo(status) {
		return shared.NewDomainError("INVALID_STATE", "Cannot change invoice from "+i.Status.String()+" to "+status.String())
	}
	i.Status = status
	i.Notes = notes
	i.Touch()
	i.IncrementVersion()
	return nil
}
