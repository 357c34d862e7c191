// Package procurement covers ordering stock from suppliers and receiving it.
package procurement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the lifecycle of a purchase order
type PurchaseOrderStatus string

const (
	POStatusPending           PurchaseOrderStatus = "Pending"
	POStatusApproved          PurchaseOrderStatus = "Approved"
	POStatusPartiallyReceived PurchaseOrderStatus = "Partially Received"
	POStatusReceived          PurchaseOrderStatus = "Received"
	POStatusCancelled         PurchaseOrderStatus = "Cancelled"
)

// IsValid checks if the status is a known value
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusPending, POStatusApproved, POStatusPartiallyReceived, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// String returns the status name
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanReceive reports whether goods may be received against an order in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == POStatusPending || s == POStatusApproved || s == POStatusPartiallyReceived
}

// PurchaseOrderItem is one ordered line. ReceivedQuantity accumulates over receiving reports.
type PurchaseOrderItem struct {
	ID               uuid.UUID
	PurchaseOrderID  uuid.UUID
	ItemID           uuid.UUID
	ItemName         string
	OrderedQuantity  int
	ReceivedQuantity int
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
	CreatedAt        time.Time
}

// IsFullyReceived reports whether the cumulative receipt covers the ordered quantity
func (i PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity >= i.OrderedQuantity
}

// Line returns the ledger view of the item
func (i PurchaseOrderItem) Line() document.Line {
	return document.Line{ItemID: i.ItemID, Quantity: i.OrderedQuantity, UnitPrice: i.UnitPrice, Subtotal: i.Subtotal}
}

// PurchaseOrder is an order placed with a supplier
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber     string
	SupplierID   uuid.UUID
	OrderDate    time.Time
	ExpectedDate *time.Time
	Status       PurchaseOrderStatus
	TotalAmount  decimal.Decimal
	Notes        string
	CreatedBy    uuid.UUID
	// ApprovedAt decides which status comes back once every receipt is reversed
	ApprovedAt *time.Time
	Items      []PurchaseOrderItem
}

// NewPurchaseOrder builds a pending purchase order from priced lines
func NewPurchaseOrder(number string, supplierID uuid.UUID, orderDate time.Time, lines []document.Line, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.WrapDomainError("INVALID_NUMBER", "PO number cannot be empty", shared.ErrInvalidInput)
	}
	if supplierID == uuid.Nil {
		return nil, shared.WrapDomainError("INVALID_SUPPLIER", "Supplier is required", shared.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, document.InvalidLines("At least one line item is required")
	}
	if err := shared.RequireActor(createdBy); err != nil {
		return nil, err
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          number,
		SupplierID:        supplierID,
		OrderDate:         orderDate.UTC(),
		Status:            POStatusPending,
		CreatedBy:         createdBy,
		Items:             make([]PurchaseOrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		po.Items = append(po.Items, PurchaseOrderItem{
			ID:              uuid.New(),
			PurchaseOrderID: po.ID,
			ItemID:          l.ItemID,
			OrderedQuantity: l.Quantity,
			UnitPrice:       l.UnitPrice,
			Subtotal:        l.Subtotal,
			CreatedAt:       po.CreatedAt,
		})
	}
	po.TotalAmount = document.Total(po.Lines())
	return po, nil
}

// Lines returns the ledger view of all items
func (p *PurchaseOrder) Lines() []document.Line {
	lines := make([]document.Line, len(p.Items))
	for n, item := range p.Items {
		lines[n] = item.Line()
	}
	return lines
}

// Approve marks a pending order as approved
func (p *PurchaseOrder) Approve() error {
	if p.Status != POStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending purchase orders can be approved")
	}
	now := time.Now().UTC()
	p.Status = POStatusApproved
	p.ApprovedAt = &now
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Cancel cancels an order that has not received anything yet
func (p *PurchaseOrder) Cancel() error {
	if p.Status != POStatusPending && p.Status != POStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only pending or approved purchase orders can be cancelled")
	}
	p.Status = POStatusCancelled
	p.Touch()
	p.IncrementVersion()
	return nil
}

// UpdateDetails changes the expected delivery date and notes
func (p *PurchaseOrder) UpdateDetails(expected *time.Time, notes string) error {
	if p.Status == POStatusCancelled || p.Status == POStatusReceived {
		return shared.NewDomainError("INVALID_STATE", "Closed purchase orders cannot be edited")
	}
	p.ExpectedDate = expected
	p.Notes = notes
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Receive adds received quantities (keyed by stock item) to the matching lines and
// re-evaluates the status. Every line must reach its ordered quantity for the order
// to be Received; surplus on one line never offsets a shortfall on another.
// Items that are not on the order are ignored here; they still reach stock.
func (p *PurchaseOrder) Receive(received map[uuid.UUID]int) error {
	if !p.Status.CanReceive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot receive against a "+p.Status.String()+" purchase order")
	}
	for itemID, qty := range received {
		p.distribute(itemID, qty)
	}
	p.recalculateStatus()
	return nil
}

// Unreceive reverses quantities previously added by Receive
func (p *PurchaseOrder) Unreceive(received map[uuid.UUID]int) {
	for itemID, qty := range received {
		p.withdraw(itemID, qty)
	}
	if p.Status == POStatusCancelled {
		p.Touch()
		p.IncrementVersion()
		return
	}
	p.recalculateStatus()
}

// distribute fills lines for itemID in order; any surplus lands on the last one
func (p *PurchaseOrder) distribute(itemID uuid.UUID, qty int) {
	last := -1
	for i := range p.Items {
		if p.Items[i].ItemID != itemID {
			continue
		}
		last = i
		open := p.Items[i].OrderedQuantity - p.Items[i].ReceivedQuantity
		if open <= 0 || qty == 0 {
			continue
		}
		take := min(open, qty)
		p.Items[i].ReceivedQuantity += take
		qty -= take
	}
	if last >= 0 && qty > 0 {
		p.Items[last].ReceivedQuantity += qty
	}
}

// withdraw takes quantity back starting from the last line for itemID
func (p *PurchaseOrder) withdraw(itemID uuid.UUID, qty int) {
	for i := len(p.Items) - 1; i >= 0 && qty > 0; i-- {
		if p.Items[i].ItemID != itemID {
			continue
		}
		take := min(p.Items[i].ReceivedQuantity, qty)
		p.Items[i].ReceivedQuantity -= take
		qty -= take
	}
}

// TotalReceived sums received quantities over all lines
func (p *PurchaseOrder) TotalReceived() int {
	total := 0
	for _, item := range p.Items {
		total += item.ReceivedQuantity
	}
	return total
}

func (p *PurchaseOrder) recalculateStatus() {
	switch {
	case p.isAllItemsReceived():
		p.Status = POStatusReceived
	case p.TotalReceived() > 0:
		p.Status = POStatusPartiallyReceived
	case p.ApprovedAt != nil:
		p.Status = POStatusApproved
	default:
		p.Status = POStatusPending
	}
	p.Touch()
	p.IncrementVersion()
}

func (p *PurchaseOrder) isAllItemsReceived() bool {
	for _, item := range p.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(p.Items) > 0
}
