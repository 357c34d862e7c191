package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// WalkInStatus is the payment state of a walk-in sale
type WalkInStatus string

const (
	WalkInStatusUnpaid WalkInStatus = "Unpaid"
	WalkInStatusPaid   WalkInStatus = "Paid"
)

// PaymentMethod is how a walk-in sale was settled
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentGCash PaymentMethod = "GCash"
	PaymentSplit PaymentMethod = "Cash+GCash"
)

// IsValid checks if the method is a known value
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentGCash || m == PaymentSplit
}

// Customer is the walk-in customer snapshot stored on the invoice
type Customer struct {
	Name       string
	Phone      string
	Address    string
	PetName    string
	PetSpecies string
}

// Payment records how a walk-in invoice was paid
type Payment struct {
	Method         PaymentMethod
	CashAmount     decimal.Decimal
	GCashAmount    decimal.Decimal
	GCashReference string
}

// WalkInItem is one priced line of a walk-in invoice
type WalkInItem struct {
	ID              uuid.UUID
	WalkInInvoiceID uuid.UUID
	ItemID          uuid.UUID
	ItemName        string
	Quantity        int
	PriceEach       decimal.Decimal
	Subtotal        decimal.Decimal
	CreatedAt       time.Time
}

// Line returns the ledger view of the item
func (i WalkInItem) Line() document.Line {
	return document.Line{ItemID: i.ItemID, Quantity: i.Quantity, UnitPrice: i.PriceEach, Subtotal: i.Subtotal}
}

// WalkInInvoice is an over-the-counter sale
type WalkInInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	Date          time.Time
	Customer      Customer
	TotalAmount   decimal.Decimal
	Status        WalkInStatus
	Payment       Payment
	Notes         string
	PreparedBy    uuid.UUID
	Items         []WalkInItem
}

// NewWalkInInvoice builds a walk-in invoice from priced lines
func NewWalkInInvoice(number string, date time.Time, customer Customer, lines []document.Line, preparedBy uuid.UUID) (*WalkInInvoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.WrapDomainError("INVALID_NUMBER", "Invoice number cannot be empty", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, shared.WrapDomainError("INVALID_CUSTOMER", "Customer name is required", shared.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, document.InvalidLines("At least one line item is required")
	}
	if err := shared.RequireActor(preparedBy); err != nil {
		return nil, err
	}

	inv := &WalkInInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     number,
		Date:              date.UTC(),
		Customer:          customer,
		Status:            WalkInStatusUnpaid,
		PreparedBy:        preparedBy,
		Items:             make([]WalkInItem, 0, len(lines)),
	}
	for _, l := range lines {
		inv.Items = append(inv.Items, WalkInItem{
			ID:              uuid.New(),
			WalkInInvoiceID: inv.ID,
			ItemID:          l.ItemID,
			Quantity:        l.Quantity,
			PriceEach:       l.UnitPrice,
			Subtotal:        l.Subtotal,
			CreatedAt:       inv.CreatedAt,
		})
	}
	inv.TotalAmount = document.Total(inv.Lines())
	return inv, nil
}

// Lines returns the ledger view of all items
func (w *WalkInInvoice) Lines() []document.Line {
	lines := make([]document.Line, len(w.Items))
	for n, item := range w.Items {
		lines[n] = item.Line()
	}
	return lines
}

// UpdateCustomer replaces the customer snapshot and notes
func (w *WalkInInvoice) UpdateCustomer(customer Customer, notes string) error {
	if strings.TrimSpace(customer.Name) == "" {
		return shared.WrapDomainError("INVALID_CUSTOMER", "Customer name is required", shared.ErrInvalidInput)
	}
	w.Customer = customer
	w.Notes = notes
	w.Touch()
	w.IncrementVersion()
	return nil
}

// Pay settles the invoice. Cash plus e-wallet amounts must cover the total.
func (w *WalkInInvoice) Pay(p Payment) error {
	if w.Status == WalkInStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	}
	if !p.Method.IsValid() {
		return shared.WrapDomainError("INVALID_PAYMENT_METHOD", "Payment method must be Cash, GCash or Cash+GCash", shared.ErrInvalidInput)
	}
	if p.CashAmount.IsNegative() || p.GCashAmount.IsNegative() {
		return shared.WrapDomainError("INVALID_AMOUNT", "Payment amounts cannot be negative", shared.ErrInvalidInput)
	}
	if p.Method != PaymentCash && !p.GCashAmount.IsZero() && strings.TrimSpace(p.GCashReference) == "" {
		return shared.WrapDomainError("INVALID_REFERENCE", "GCash reference is required for e-wallet payments", shared.ErrInvalidInput)
	}
	if p.CashAmount.Add(p.GCashAmount).LessThan(w.TotalAmount) {
		return shared.NewDomainError("INSUFFICIENT_PAYMENT", "Payment does not cover the invoice total")
	}
	w.Payment = p
	w.Status = WalkInStatusPaid
	w.Touch()
	w.IncrementVersion()
	return nil
}
