package document

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/clinic"
	domaindoc "github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// customer builds the walk-in customer snapshot. A phone, when given, is
// stored in E.164.
func (r *Reconciler) customer(name, phone, address, petName, petSpecies string) (billing.Customer, error) {
	c := billing.Customer{
		Name:       strings.TrimSpace(name),
		Address:    strings.TrimSpace(address),
		PetName:    strings.TrimSpace(petName),
		PetSpecies: strings.TrimSpace(petSpecies),
	}
	if c.Name == "" {
		return c, shared.WrapDomainError("INVALID_CUSTOMER", "Customer name is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(phone) != "" {
		normalized, err := clinic.NormalizePhone(phone, r.phoneRegion)
		if err != nil {
			return c, err
		}
		c.Phone = normalized
	}
	return c, nil
}

// GetInvoice returns one invoice with its items
func (r *Reconciler) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := r.readers.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListInvoices lists invoices
func (r *Reconciler) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	invoices, total, err := r.readers.Invoices.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out, total, nil
}

// UpdateInvoiceStatus moves an invoice to a new payment status
func (r *Reconciler) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, req UpdateInvoiceStatusRequest, actorID uuid.UUID) (*InvoiceResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	inv, err := r.readers.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := inv.Status
	if err := inv.UpdateStatus(billing.InvoiceStatus(req.Status), req.Notes); err != nil {
		return nil, err
	}
	if err := r.readers.Invoices.UpdateHeader(ctx, inv); err != nil {
		return nil, err
	}
	r.publish(ctx, audit.ActionUpdate, domaindoc.KindInvoice, inv.ID, inv.InvoiceNumber, actorID, map[string]interface{}{
		"status": map[string]interface{}{"before": before, "after": inv.Status},
	})
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetWalkInInvoice returns one walk-in invoice with its items
func (r *Reconciler) GetWalkInInvoice(ctx context.Context, id uuid.UUID) (*WalkInInvoiceResponse, error) {
	inv, err := r.readers.WalkInInvoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWalkInInvoiceResponse(inv)
	return &resp, nil
}

// ListWalkInInvoices lists walk-in invoices
func (r *Reconciler) ListWalkInInvoices(ctx context.Context, filter WalkInInvoiceListFilter) ([]WalkInInvoiceResponse, int64, error) {
	invoices, total, err := r.readers.WalkInInvoices.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]WalkInInvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToWalkInInvoiceResponse(&invoices[i])
	}
	return out, total, nil
}

// UpdateWalkInInvoice edits the customer snapshot and notes. Lines are fixed
// once issued.
func (r *Reconciler) UpdateWalkInInvoice(ctx context.Context, id uuid.UUID, req UpdateWalkInInvoiceRequest, actorID uuid.UUID) (*WalkInInvoiceResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	customer, err := r.customer(req.CustomerName, req.CustomerPhone, req.CustomerAddress, req.PetName, req.PetSpecies)
	if err != nil {
		return nil, err
	}
	inv, err := r.readers.WalkInInvoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := inv.Customer
	if err := inv.UpdateCustomer(customer, req.Notes); err != nil {
		return nil, err
	}
	if err := r.readers.WalkInInvoices.UpdateHeader(ctx, inv); err != nil {
		return nil, err
	}
	r.publish(ctx, audit.ActionUpdate, domaindoc.KindWalkInInvoice, inv.ID, inv.InvoiceNumber, actorID, map[string]interface{}{
		"customer_name": map[string]interface{}{"before": before.Name, "after": inv.Customer.Name},
	})
	resp := ToWalkInInvoiceResponse(inv)
	return &resp, nil
}

// PayWalkInInvoice settles a walk-in invoice in cash, e-wallet or both
func (r *Reconciler) PayWalkInInvoice(ctx context.Context, id uuid.UUID, req PayWalkInInvoiceRequest, actorID uuid.UUID) (*WalkInInvoiceResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	inv, err := r.readers.WalkInInvoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payment := billing.Payment{
		Method:         billing.PaymentMethod(req.PaymentMethod),
		CashAmount:     req.CashAmount,
		GCashAmount:    req.GCashAmount,
		GCashReference: strings.TrimSpace(req.GCashReference),
	}
	if err := inv.Pay(payment); err != nil {
		return nil, err
	}
	if err := r.readers.WalkInInvoices.UpdateHeader(ctx, inv); err != nil {
		return nil, err
	}
	r.publish(ctx, audit.ActionUpdate, domaindoc.KindWalkInInvoice, inv.ID, inv.InvoiceNumber, actorID, map[string]interface{}{
		"status":         inv.Status,
		"payment_method": inv.Payment.Method,
		"cash_amount":    inv.Payment.CashAmount.String(),
		"gcash_amount":   inv.Payment.GCashAmount.String(),
	})
	resp := ToWalkInInvoiceResponse(inv)
	return &resp, nil
}

// GetPurchaseOrder returns one purchase order with its items
func (r *Reconciler) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := r.readers.PurchaseOrders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// ListPurchaseOrders lists purchase orders
func (r *Reconciler) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	orders, total, err := r.readers.PurchaseOrders.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out, total, nil
}

// ApprovePurchaseOrder approves a pending purchase order
func (r *Reconciler) ApprovePurchaseOrder(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*PurchaseOrderResponse, error) {
	return r.changePurchaseOrder(ctx, id, actorID, "approve", func(po *procurement.PurchaseOrder) error { return po.Approve() })
}

// CancelPurchaseOrder cancels a purchase order nothing has been received against
func (r *Reconciler) CancelPurchaseOrder(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*PurchaseOrderResponse, error) {
	return r.changePurchaseOrder(ctx, id, actorID, "cancel", func(po *procurement.PurchaseOrder) error { return po.Cancel() })
}

// UpdatePurchaseOrder changes the expected delivery date and notes
func (r *Reconciler) UpdatePurchaseOrder(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest, actorID uuid.UUID) (*PurchaseOrderResponse, error) {
	return r.changePurchaseOrder(ctx, id, actorID, "update", func(po *procurement.PurchaseOrder) error {
		return po.UpdateDetails(req.ExpectedDate, req.Notes)
	})
}

func (r *Reconciler) changePurchaseOrder(ctx context.Context, id, actorID uuid.UUID, operation string, change func(*procurement.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	po, err := r.readers.PurchaseOrders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := po.Status
	if err := change(po); err != nil {
		return nil, err
	}
	if err := r.readers.PurchaseOrders.Update(ctx, po); err != nil {
		return nil, err
	}
	r.publish(ctx, audit.ActionUpdate, domaindoc.KindPurchaseOrder, po.ID, po.PONumber, actorID, map[string]interface{}{
		"operation": operation,
		"status":    map[string]interface{}{"before": before, "after": po.Status},
	})
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// GetReceivingReport returns one receiving report with its items
func (r *Reconciler) GetReceivingReport(ctx context.Context, id uuid.UUID) (*ReceivingReportResponse, error) {
	rr, err := r.readers.ReceivingReports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReceivingReportResponse(rr)
	return &resp, nil
}

// ListReceivingReports lists receiving reports
func (r *Reconciler) ListReceivingReports(ctx context.Context, filter ReceivingReportListFilter) ([]ReceivingReportResponse, int64, error) {
	reports, total, err := r.readers.ReceivingReports.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReceivingReportResponse, len(reports))
	for i := range reports {
		out[i] = ToReceivingReportResponse(&reports[i])
	}
	return out, total, nil
}
