package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/domain/billing"
	domaindoc "github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// LineRequest is one requested line. Line rules are enforced by the domain so
// every violation reports INVALID_LINE_ITEMS.
type LineRequest struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func toLineInputs(lines []LineRequest) []domaindoc.LineInput {
	out := make([]domaindoc.LineInput, len(lines))
	for i, l := range lines {
		out[i] = domaindoc.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return out
}

// CreateInvoiceRequest represents a request to bill a client
type CreateInvoiceRequest struct {
	ClientID uuid.UUID     `json:"client_id" binding:"required"`
	Date     *time.Time    `json:"date"`
	Notes    string        `json:"notes" binding:"max=2000"`
	Items    []LineRequest `json:"items"`
}

// UpdateInvoiceStatusRequest changes the payment status of an invoice
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Unpaid 'Partially Paid' Paid Cancelled"`
	Notes  string `json:"notes" binding:"max=2000"`
}

// InvoiceItemResponse is one line of an invoice
type InvoiceItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	PriceEach decimal.Decimal `json:"price_each"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	ClientID      uuid.UUID             `json:"client_id"`
	Date          time.Time             `json:"date"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	CreatedBy     uuid.UUID             `json:"created_by"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:        it.ID,
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			PriceEach: it.PriceEach,
			Subtotal:  it.Subtotal,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		Date:          inv.Date,
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status.String(),
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

// CreateWalkInInvoiceRequest represents a counter sale to an unregistered customer
type CreateWalkInInvoiceRequest struct {
	CustomerName    string        `json:"customer_name" binding:"required,max=200"`
	CustomerPhone   string        `json:"customer_phone" binding:"max=30"`
	CustomerAddress string        `json:"customer_address" binding:"max=500"`
	PetName         string        `json:"pet_name" binding:"max=100"`
	PetSpecies      string        `json:"pet_species" binding:"max=50"`
	Date            *time.Time    `json:"date"`
	Notes           string        `json:"notes" binding:"max=2000"`
	Items           []LineRequest `json:"items"`
}

// UpdateWalkInInvoiceRequest edits the customer snapshot of a walk-in invoice
type UpdateWalkInInvoiceRequest struct {
	CustomerName    string `json:"customer_name" binding:"required,max=200"`
	CustomerPhone   string `json:"customer_phone" binding:"max=30"`
	CustomerAddress string `json:"customer_address" binding:"max=500"`
	PetName         string `json:"pet_name" binding:"max=100"`
	PetSpecies      string `json:"pet_species" binding:"max=50"`
	Notes           string `json:"notes" binding:"max=2000"`
}

// PayWalkInInvoiceRequest settles a walk-in invoice
type PayWalkInInvoiceRequest struct {
	PaymentMethod  string          `json:"payment_method" binding:"required,oneof=Cash GCash Cash+GCash"`
	CashAmount     decimal.Decimal `json:"cash_amount" binding:"money"`
	GCashAmount    decimal.Decimal `json:"gcash_amount" binding:"money"`
	GCashReference string          `json:"gcash_reference" binding:"max=100"`
}

// WalkInInvoiceResponse represents a walk-in invoice in API responses
type WalkInInvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	Date            time.Time             `json:"date"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	CustomerAddress string                `json:"customer_address,omitempty"`
	PetName         string                `json:"pet_name,omitempty"`
	PetSpecies      string                `json:"pet_species,omitempty"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	Status          string                `json:"status"`
	PaymentMethod   string                `json:"payment_method,omitempty"`
	CashAmount      decimal.Decimal       `json:"cash_amount"`
	GCashAmount     decimal.Decimal       `json:"gcash_amount"`
	GCashReference  string                `json:"gcash_reference,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	PreparedBy      uuid.UUID             `json:"prepared_by"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToWalkInInvoiceResponse converts a domain walk-in invoice to a response
func ToWalkInInvoiceResponse(inv *billing.WalkInInvoice) WalkInInvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:        it.ID,
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			PriceEach: it.PriceEach,
			Subtotal:  it.Subtotal,
		}
	}
	return WalkInInvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Date:            inv.Date,
		CustomerName:    inv.Customer.Name,
		CustomerPhone:   inv.Customer.Phone,
		CustomerAddress: inv.Customer.Address,
		PetName:         inv.Customer.PetName,
		PetSpecies:      inv.Customer.PetSpecies,
		TotalAmount:     inv.TotalAmount,
		Status:          string(inv.Status),
		PaymentMethod:   string(inv.Payment.Method),
		CashAmount:      inv.Payment.CashAmount,
		GCashAmount:     inv.Payment.GCashAmount,
		GCashReference:  inv.Payment.GCashReference,
		Notes:           inv.Notes,
		PreparedBy:      inv.PreparedBy,
		Items:           items,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// CreatePurchaseOrderRequest represents an order placed with a supplier
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID     `json:"supplier_id" binding:"required"`
	OrderDate    *time.Time    `json:"order_date"`
	ExpectedDate *time.Time    `json:"expected_date"`
	Notes        string        `json:"notes" binding:"max=2000"`
	Items        []LineRequest `json:"items"`
}

// UpdatePurchaseOrderRequest edits the open fields of a purchase order
type UpdatePurchaseOrderRequest struct {
	ExpectedDate *time.Time `json:"expected_date"`
	Notes        string     `json:"notes" binding:"max=2000"`
}

// PurchaseOrderItemResponse is one line of a purchase order
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	OrderedQuantity  int             `json:"ordered_quantity"`
	ReceivedQuantity int             `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	PONumber     string                      `json:"po_number"`
	SupplierID   uuid.UUID                   `json:"supplier_id"`
	OrderDate    time.Time                   `json:"order_date"`
	ExpectedDate *time.Time                  `json:"expected_date,omitempty"`
	Status       string                      `json:"status"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Notes        string                      `json:"notes,omitempty"`
	CreatedBy    uuid.UUID                   `json:"created_by"`
	ApprovedAt   *time.Time                  `json:"approved_at,omitempty"`
	Items        []PurchaseOrderItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Version      int                         `json:"version"`
}

// ToPurchaseOrderResponse converts a domain purchase order to a response
func ToPurchaseOrderResponse(po *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(po.Items))
	for i, it := range po.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:               it.ID,
			ItemID:           it.ItemID,
			ItemName:         it.ItemName,
			OrderedQuantity:  it.OrderedQuantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitPrice:        it.UnitPrice,
			Subtotal:         it.Subtotal,
		}
	}
	return PurchaseOrderResponse{
		ID:           po.ID,
		PONumber:     po.PONumber,
		SupplierID:   po.SupplierID,
		OrderDate:    po.OrderDate,
		ExpectedDate: po.ExpectedDate,
		Status:       po.Status.String(),
		TotalAmount:  po.TotalAmount,
		Notes:        po.Notes,
		CreatedBy:    po.CreatedBy,
		ApprovedAt:   po.ApprovedAt,
		Items:        items,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
		Version:      po.Version,
	}
}

// ReceivingLineRequest is one received line
type ReceivingLineRequest struct {
	ItemID           uuid.UUID       `json:"item_id"`
	QuantityReceived int             `json:"quantity_received"`
	QuantityRejected int             `json:"quantity_rejected"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Notes            string          `json:"notes"`
}

// CreateReceivingReportRequest records goods arriving from a supplier. When
// a purchase order is given the supplier defaults to the order's supplier.
type CreateReceivingReportRequest struct {
	SupplierID      uuid.UUID              `json:"supplier_id"`
	PurchaseOrderID *uuid.UUID             `json:"purchase_order_id"`
	ReceiveDate     *time.Time             `json:"receive_date"`
	Notes           string                 `json:"notes" binding:"max=2000"`
	Items           []ReceivingLineRequest `json:"items"`
}

func toReceivingInputs(lines []ReceivingLineRequest) []procurement.ReceivingLineInput {
	out := make([]procurement.ReceivingLineInput, len(lines))
	for i, l := range lines {
		out[i] = procurement.ReceivingLineInput{
			LineInput:        domaindoc.LineInput{ItemID: l.ItemID, Quantity: l.QuantityReceived, UnitPrice: l.UnitPrice},
			QuantityRejected: l.QuantityRejected,
			Notes:            l.Notes,
		}
	}
	return out
}

// ReceivingReportItemResponse is one line of a receiving report
type ReceivingReportItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	QuantityReceived int             `json:"quantity_received"`
	QuantityRejected int             `json:"quantity_rejected"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Notes            string          `json:"notes,omitempty"`
}

// ReceivingReportResponse represents a receiving report in API responses
type ReceivingReportResponse struct {
	ID              uuid.UUID                     `json:"id"`
	RRNumber        string                        `json:"rr_number"`
	ReceiveDate     time.Time                     `json:"receive_date"`
	SupplierID      uuid.UUID                     `json:"supplier_id"`
	PurchaseOrderID *uuid.UUID                    `json:"purchase_order_id,omitempty"`
	TotalAmount     decimal.Decimal               `json:"total_amount"`
	Notes           string                        `json:"notes,omitempty"`
	ReceivedBy      uuid.UUID                     `json:"received_by"`
	Items           []ReceivingReportItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time                     `json:"created_at"`
}

// ToReceivingReportResponse converts a domain receiving report to a response
func ToReceivingReportResponse(rr *procurement.ReceivingReport) ReceivingReportResponse {
	items := make([]ReceivingReportItemResponse, len(rr.Items))
	for i, it := range rr.Items {
		items[i] = ReceivingReportItemResponse{
			ID:               it.ID,
			ItemID:           it.ItemID,
			ItemName:         it.ItemName,
			QuantityReceived: it.QuantityReceived,
			QuantityRejected: it.QuantityRejected,
			UnitPrice:        it.UnitPrice,
			Subtotal:         it.Subtotal,
			Notes:            it.Notes,
		}
	}
	return ReceivingReportResponse{
		ID:              rr.ID,
		RRNumber:        rr.RRNumber,
		ReceiveDate:     rr.ReceiveDate,
		SupplierID:      rr.SupplierID,
		PurchaseOrderID: rr.PurchaseOrderID,
		TotalAmount:     rr.TotalAmount,
		Notes:           rr.Notes,
		ReceivedBy:      rr.ReceivedBy,
		Items:           items,
		CreatedAt:       rr.CreatedAt,
	}
}

// InvoiceListFilter filters the invoice list
type InvoiceListFilter struct {
	query.PageQuery
	Status   string `form:"status"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
}

// ToFilter converts to the repository filter
func (f InvoiceListFilter) ToFilter() shared.Filter {
	return f.Filter(map[string]string{"status": f.Status, "client_id": f.ClientID})
}

// WalkInInvoiceListFilter filters the walk-in invoice list
type WalkInInvoiceListFilter struct {
	query.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=Unpaid Paid"`
}

// ToFilter converts to the repository filter
func (f WalkInInvoiceListFilter) ToFilter() shared.Filter {
	return f.Filter(map[string]string{"status": f.Status})
}

// PurchaseOrderListFilter filters the purchase order list
type PurchaseOrderListFilter struct {
	query.PageQuery
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
}

// ToFilter converts to the repository filter
func (f PurchaseOrderListFilter) ToFilter() shared.Filter {
	return f.Filter(map[string]string{"status": f.Status, "supplier_id": f.SupplierID})
}

// ReceivingReportListFilter filters the receiving report list
type ReceivingReportListFilter struct {
	query.PageQuery
	SupplierID      string `form:"supplier_id" binding:"omitempty,uuid"`
	PurchaseOrderID string `form:"purchase_order_id" binding:"omitempty,uuid"`
}

// ToFilter converts to the repository filter
func (f ReceivingReportListFilter) ToFilter() shared.Filter {
	return f.Filter(map[string]string{"supplier_id": f.SupplierID, "purchase_order_id": f.PurchaseOrderID})
}
