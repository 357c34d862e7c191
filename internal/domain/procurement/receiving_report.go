package procurement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// ReceivingLineInput is one requested receiving line. Rejected units are
// recorded only; they never reduce the quantity added to stock.
type ReceivingLineInput struct {
	document.LineInput
	QuantityRejected int
	Notes            string
}

// ReceivingReportItem is one line of goods received
type ReceivingReportItem struct {
	ID                uuid.UUID
	ReceivingReportID uuid.UUID
	ItemID            uuid.UUID
	ItemName          string
	QuantityReceived  int
	QuantityRejected  int
	UnitPrice         decimal.Decimal
	Subtotal          decimal.Decimal
	Notes             string
	CreatedAt         time.Time
}

// Line returns the ledger view of the item; the quantity is what was received
func (i ReceivingReportItem) Line() document.Line {
	return document.Line{ItemID: i.ItemID, Quantity: i.QuantityReceived, UnitPrice: i.UnitPrice, Subtotal: i.Subtotal}
}

// ReceivingReport records goods delivered by a supplier, optionally against a purchase order
type ReceivingReport struct {
	shared.BaseAggregateRoot
	RRNumber        string
	ReceiveDate     time.Time
	SupplierID      uuid.UUID
	PurchaseOrderID *uuid.UUID
	TotalAmount     decimal.Decimal
	Notes           string
	ReceivedBy      uuid.UUID
	Items           []ReceivingReportItem
}

// ValidateReceivingLines checks receiving input before any store access
func ValidateReceivingLines(inputs []ReceivingLineInput) error {
	base := make([]document.LineInput, len(inputs))
	for i, in := range inputs {
		if in.QuantityRejected < 0 {
			return document.InvalidLines("Line %d: rejected quantity cannot be negative", i+1)
		}
		base[i] = in.LineInput
	}
	return document.ValidateLines(base)
}

// NewReceivingReport builds a receiving report. Subtotals use the received quantity.
func NewReceivingReport(number string, supplierID uuid.UUID, purchaseOrderID *uuid.UUID, receiveDate time.Time, inputs []ReceivingLineInput, receivedBy uuid.UUID) (*ReceivingReport, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.WrapDomainError("INVALID_NUMBER", "RR number cannot be empty", shared.ErrInvalidInput)
	}
	if supplierID == uuid.Nil {
		return nil, shared.WrapDomainError("INVALID_SUPPLIER", "Supplier is required", shared.ErrInvalidInput)
	}
	if err := ValidateReceivingLines(inputs); err != nil {
		return nil, err
	}
	if err := shared.RequireActor(receivedBy); err != nil {
		return nil, err
	}

	base := make([]document.LineInput, len(inputs))
	for i, in := range inputs {
		base[i] = in.LineInput
	}
	lines, total, err := document.PriceLines(base)
	if err != nil {
		return nil, err
	}

	rr := &ReceivingReport{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RRNumber:          number,
		ReceiveDate:       receiveDate.UTC(),
		SupplierID:        supplierID,
		PurchaseOrderID:   purchaseOrderID,
		TotalAmount:       total,
		ReceivedBy:        receivedBy,
		Items:             make([]ReceivingReportItem, 0, len(lines)),
	}
	for i, l := range lines {
		rr.Items = append(rr.Items, ReceivingReportItem{
			ID:                uuid.New(),
			ReceivingReportID: rr.ID,
			ItemID:            l.ItemID,
			QuantityReceived:  l.Quantity,
			QuantityRejected:  inputs[i].QuantityRejected,
			UnitPrice:         l.UnitPrice,
			Subtotal:          l.Subtotal,
			Notes:             inputs[i].Notes,
			CreatedAt:         rr.CreatedAt,
		})
	}
	return rr, nil
}

// Lines returns the ledger view of all items
func (r *ReceivingReport) Lines() []document.Line {
	lines := make([]document.Line, len(r.Items))
	for n, item := range r.Items {
		lines[n] = item.Line()
	}
	return lines
}

// ReceivedByItem sums received quantities per stock item
func (r *ReceivingReport) ReceivedByItem() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(r.Items))
	for _, item := range r.Items {
		out[item.ItemID] += item.QuantityReceived
	}
	return out
}
