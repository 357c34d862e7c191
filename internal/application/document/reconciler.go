// Package document issues, reads, edits and deletes the stock-moving documents:
// invoices, walk-in invoices, purchase orders and receiving reports.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	invapp "github.com/vetclinic/backend/internal/application/inventory"
	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/billing"
	domaindoc "github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/infrastructure/telemetry"
)

// DocumentRecorder counts issued numbers. Satisfied by *metrics.Metrics.
type DocumentRecorder interface {
	DocumentIssued(series string)
	NumberRetried(series string)
}

type nopDocumentRecorder struct{}

func (nopDocumentRecorder) DocumentIssued(string) {}
func (nopDocumentRecorder) NumberRetried(string)  {}

// Readers are the non-transactional repositories used for queries and
// single-row edits.
type Readers struct {
	Invoices         billing.InvoiceRepository
	WalkInInvoices   billing.WalkInInvoiceRepository
	PurchaseOrders   procurement.PurchaseOrderRepository
	ReceivingReports procurement.ReceivingReportRepository
}

// Reconciler keeps documents, their numbers and stock consistent. Each create
// or delete runs as one transaction covering the number, the rows and the
// ledger effect.
type Reconciler struct {
	scope          uow.TransactionScope
	ledger         *invapp.Ledger
	readers        Readers
	recorder       DocumentRecorder
	eventPublisher shared.EventPublisher
	phoneRegion    string
	now            func() time.Time
	logger         *zap.Logger
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithRecorder reports issued and retried numbers to rec
func WithRecorder(rec DocumentRecorder) Option {
	return func(r *Reconciler) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithPhoneRegion sets the region used to read walk-in customer phone numbers
func WithPhoneRegion(region string) Option {
	return func(r *Reconciler) {
		if region != "" {
			r.phoneRegion = region
		}
	}
}

// WithClock replaces the time source used for numbering and default dates
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler creates a new Reconciler
func NewReconciler(scope uow.TransactionScope, ledger *invapp.Ledger, readers Readers, log *zap.Logger, opts ...Option) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reconciler{
		scope:       scope,
		ledger:      ledger,
		readers:     readers,
		recorder:    nopDocumentRecorder{},
		phoneRegion: "PH",
		now:         time.Now,
		logger:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetEventPublisher sets the publisher for audit events
func (r *Reconciler) SetEventPublisher(publisher shared.EventPublisher) {
	r.eventPublisher = publisher
}

type buildFunc func(repos uow.TransactionalRepositories, number string, items map[uuid.UUID]inventory.StockItem) error

// issue resolves the referenced items, takes the next number for kind and
// runs build in the same transaction. A duplicate number means another writer
// took it first; the whole transaction is then tried once more.
func (r *Reconciler) issue(ctx context.Context, span trace.Span, kind domaindoc.Kind, itemIDs []uuid.UUID, build buildFunc) (string, error) {
	series := kind.Series()
	var number string
	for attempt := 1; ; attempt++ {
		err := r.scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
			items, err := resolveItems(ctx, repos.StockItemRepo(), itemIDs)
			if err != nil {
				return err
			}
			number, err = sequence.NewGenerator(repos.CounterRepo(), repos.NumberHistory()).Next(ctx, series, r.now())
			if err != nil {
				return fmt.Errorf("issue %s number: %w", series, err)
			}
			return build(repos, number, items)
		})
		if err == nil {
			r.recorder.DocumentIssued(series.String())
			telemetry.SetAttributes(span, telemetry.SpanAttrDocumentNumber, number)
			return number, nil
		}
		if attempt == 1 && errors.Is(err, shared.ErrDuplicateNumber) {
			r.recorder.NumberRetried(series.String())
			telemetry.AddEvent(span, "number_retry", telemetry.SpanAttrDocumentNumber, number)
			logger.For(ctx, r.logger).Warn("document number taken, retrying",
				zap.String("series", series.String()),
				zap.String("number", number),
			)
			continue
		}
		return "", err
	}
}

// resolveItems loads every referenced stock item; an unknown id rejects the lines.
func resolveItems(ctx context.Context, repo inventory.StockItemRepository, ids []uuid.UUID) (map[uuid.UUID]inventory.StockItem, error) {
	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve line items: %w", err)
	}
	items := make(map[uuid.UUID]inventory.StockItem, len(found))
	for _, item := range found {
		items[item.ID] = item
	}
	for _, id := range ids {
		if _, ok := items[id]; !ok {
			return nil, domaindoc.InvalidLines("Unknown item %s", id)
		}
	}
	return items, nil
}

func (r *Reconciler) startSpan(ctx context.Context, method string, kind domaindoc.Kind, actorID uuid.UUID) (context.Context, trace.Span) {
	return telemetry.StartServiceSpan(ctx, "document", method,
		telemetry.WithAttribute(telemetry.SpanAttrDocumentKind, kind.String()),
		telemetry.WithAttribute(telemetry.SpanAttrActorID, actorID.String()),
	)
}

func (r *Reconciler) dateOr(d *time.Time) time.Time {
	if d != nil && !d.IsZero() {
		return *d
	}
	return r.now()
}

func (r *Reconciler) publish(ctx context.Context, action string, kind domaindoc.Kind, id uuid.UUID, number string, actorID uuid.UUID, changes map[string]interface{}) {
	event := audit.NewRecordChanged(action, kind.Module(), id, number, actorID)
	if changes != nil {
		event = event.WithChanges(changes)
	}
	auditapp.Publish(ctx, r.eventPublisher, r.logger, event)
}

func fail(span trace.Span, err error) error {
	telemetry.RecordError(span, err)
	return err
}

// CreateInvoice bills a client and consumes the invoiced products
func (r *Reconciler) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actorID uuid.UUID) (*InvoiceResponse, error) {
	ctx, span := r.startSpan(ctx, "create_invoice", domaindoc.KindInvoice, actorID)
	defer span.End()

	if err := shared.RequireActor(actorID); err != nil {
		return nil, fail(span, err)
	}
	if req.ClientID == uuid.Nil {
		return nil, fail(span, shared.WrapDomainError("INVALID_CLIENT", "Client is required", shared.ErrInvalidInput))
	}
	inputs := toLineInputs(req.Items)
	lines, _, err := domaindoc.PriceLines(inputs)
	if err != nil {
		return nil, fail(span, err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(lines))
	date := r.dateOr(req.Date)

	var inv *billing.Invoice
	_, err = r.issue(ctx, span, domaindoc.KindInvoice, domaindoc.ItemIDs(inputs), func(repos uow.TransactionalRepositories, number string, items map[uuid.UUID]inventory.StockItem) error {
		created, err := billing.NewInvoice(number, req.ClientID, date, lines, actorID)
		if err != nil {
			return err
		}
		created.Notes = req.Notes
		for i := range created.Items {
			created.Items[i].ItemName = items[created.Items[i].ItemID].Name
		}
		if err := repos.InvoiceRepo().Create(ctx, created); err != nil {
			return err
		}
		if err := r.ledger.ApplyDocument(ctx, repos.StockItemRepo(), domaindoc.KindInvoice.Direction(), created.Lines(), items); err != nil {
			return err
		}
		inv = created
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, inv.ID.String())
	telemetry.SetOK(span)
	r.publish(ctx, audit.ActionCreate, domaindoc.KindInvoice, inv.ID, inv.InvoiceNumber, actorID, map[string]interface{}{
		"client_id":    inv.ClientID,
		"total_amount": inv.TotalAmount.String(),
		"line_count":   len(inv.Items),
	})
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// CreateWalkInInvoice records a counter sale and consumes the sold products
func (r *Reconciler) CreateWalkInInvoice(ctx context.Context, req CreateWalkInInvoiceRequest, actorID uuid.UUID) (*WalkInInvoiceResponse, error) {
	ctx, span := r.startSpan(ctx, "create_walk_in_invoice", domaindoc.KindWalkInInvoice, actorID)
	defer span.End()

	if err := shared.RequireActor(actorID); err != nil {
		return nil, fail(span, err)
	}
	customer, err := r.customer(req.CustomerName, req.CustomerPhone, req.CustomerAddress, req.PetName, req.PetSpecies)
	if err != nil {
		return nil, fail(span, err)
	}
	inputs := toLineInputs(req.Items)
	lines, _, err := domaindoc.PriceLines(inputs)
	if err != nil {
		return nil, fail(span, err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(lines))
	date := r.dateOr(req.Date)

	var inv *billing.WalkInInvoice
	_, err = r.issue(ctx, span, domaindoc.KindWalkInInvoice, domaindoc.ItemIDs(inputs), func(repos uow.TransactionalRepositories, number string, items map[uuid.UUID]inventory.StockItem) error {
		created, err := billing.NewWalkInInvoice(number, date, customer, lines, actorID)
		if err != nil {
			return err
		}
		created.Notes = req.Notes
		for i := range created.Items {
			created.Items[i].ItemName = items[created.Items[i].ItemID].Name
		}
		if err := repos.WalkInInvoiceRepo().Create(ctx, created); err != nil {
			return err
		}
		if err := r.ledger.ApplyDocument(ctx, repos.StockItemRepo(), domaindoc.KindWalkInInvoice.Direction(), created.Lines(), items); err != nil {
			return err
		}
		inv = created
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, inv.ID.String())
	telemetry.SetOK(span)
	r.publish(ctx, audit.ActionCreate, domaindoc.KindWalkInInvoice, inv.ID, inv.InvoiceNumber, actorID, map[string]interface{}{
		"customer_name": inv.Customer.Name,
		"total_amount":  inv.TotalAmount.String(),
		"line_count":    len(inv.Items),
	})
	resp := ToWalkInInvoiceResponse(inv)
	return &resp, nil
}

// CreatePurchaseOrder places an order with a supplier. Stock is untouched
// until goods arrive on a receiving report.
func (r *Reconciler) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest, actorID uuid.UUID) (*PurchaseOrderResponse, error) {
	ctx, span := r.startSpan(ctx, "create_purchase_order", domaindoc.KindPurchaseOrder, actorID)
	defer span.End()

	if err := shared.RequireActor(actorID); err != nil {
		return nil, fail(span, err)
	}
	if req.SupplierID == uuid.Nil {
		return nil, fail(span, shared.WrapDomainError("INVALID_SUPPLIER", "Supplier is required", shared.ErrInvalidInput))
	}
	inputs := toLineInputs(req.Items)
	lines, _, err := domaindoc.PriceLines(inputs)
	if err != nil {
		return nil, fail(span, err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(lines))
	orderDate := r.dateOr(req.OrderDate)

	var po *procurement.PurchaseOrder
	_, err = r.issue(ctx, span, domaindoc.KindPurchaseOrder, domaindoc.ItemIDs(inputs), func(repos uow.TransactionalRepositories, number string, items map[uuid.UUID]inventory.StockItem) error {
		if _, err := findSupplier(ctx, repos, req.SupplierID); err != nil {
			return err
		}
		created, err := procurement.NewPurchaseOrder(number, req.SupplierID, orderDate, lines, actorID)
		if err != nil {
			return err
		}
		created.ExpectedDate = req.ExpectedDate
		created.Notes = req.Notes
		for i := range created.Items {
			created.Items[i].ItemName = items[created.Items[i].ItemID].Name
		}
		if err := repos.PurchaseOrderRepo().Create(ctx, created); err != nil {
			return err
		}
		po = created
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, po.ID.String())
	telemetry.SetOK(span)
	r.publish(ctx, audit.ActionCreate, domaindoc.KindPurchaseOrder, po.ID, po.PONumber, actorID, map[string]interface{}{
		"supplier_id":  po.SupplierID,
		"total_amount": po.TotalAmount.String(),
		"line_count":   len(po.Items),
	})
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// findSupplier loads the supplier a procurement document names
func findSupplier(ctx context.Context, repos uow.TransactionalRepositories, id uuid.UUID) (*procurement.Supplier, error) {
	supplier, err := repos.SupplierRepo().FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.WrapDomainError("SUPPLIER_NOT_FOUND", "Supplier not found", shared.ErrNotFound)
	}
	return supplier, err
}

// CreateReceivingReport records goods received, adds them to stock and, when
// the report references a purchase order, advances that order's received
// quantities and status.
func (r *Reconciler) CreateReceivingReport(ctx context.Context, req CreateReceivingReportRequest, actorID uuid.UUID) (*ReceivingReportResponse, error) {
	ctx, span := r.startSpan(ctx, "create_receiving_report", domaindoc.KindReceivingReport, actorID)
	defer span.End()

	if err := shared.RequireActor(actorID); err != nil {
		return nil, fail(span, err)
	}
	if req.SupplierID == uuid.Nil && req.PurchaseOrderID == nil {
		return nil, fail(span, shared.WrapDomainError("INVALID_SUPPLIER", "Supplier or purchase order is required", shared.ErrInvalidInput))
	}
	inputs := toReceivingInputs(req.Items)
	if err := procurement.ValidateReceivingLines(inputs); err != nil {
		return nil, fail(span, err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(inputs))
	receiveDate := r.dateOr(req.ReceiveDate)

	ids := make([]domaindoc.LineInput, len(inputs))
	for i, in := range inputs {
		ids[i] = in.LineInput
	}

	var rr *procurement.ReceivingReport
	_, err := r.issue(ctx, span, domaindoc.KindReceivingReport, domaindoc.ItemIDs(ids), func(repos uow.TransactionalRepositories, number string, items map[uuid.UUID]inventory.StockItem) error {
		var po *procurement.PurchaseOrder
		supplierID := req.SupplierID
		if req.PurchaseOrderID != nil {
			found, err := repos.PurchaseOrderRepo().FindByID(ctx, *req.PurchaseOrderID)
			if err != nil {
				return err
			}
			if !found.Status.CanReceive() {
				return shared.NewDomainError("INVALID_STATE", "Cannot receive against a "+found.Status.String()+" purchase order")
			}
			if supplierID == uuid.Nil {
				supplierID = found.SupplierID
			}
			po = found
		}
		if _, err := findSupplier(ctx, repos, supplierID); err != nil {
			return err
		}

		created, err := procurement.NewReceivingReport(number, supplierID, req.PurchaseOrderID, receiveDate, inputs, actorID)
		if err != nil {
			return err
		}
		created.Notes = req.Notes
		for i := range created.Items {
			created.Items[i].ItemName = items[created.Items[i].ItemID].Name
		}
		if err := repos.ReceivingReportRepo().Create(ctx, created); err != nil {
			return err
		}
		if err := r.ledger.ApplyDocument(ctx, repos.StockItemRepo(), domaindoc.KindReceivingReport.Direction(), created.Lines(), items); err != nil {
			return err
		}
		if po != nil {
			if err := po.Receive(created.ReceivedByItem()); err != nil {
				return err
			}
			if err := repos.PurchaseOrderRepo().Update(ctx, po); err != nil {
				return fmt.Errorf("update purchase order %s: %w", po.PONumber, err)
			}
		}
		rr = created
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, rr.ID.String())
	telemetry.SetOK(span)
	changes := map[string]interface{}{
		"supplier_id":  rr.SupplierID,
		"total_amount": rr.TotalAmount.String(),
		"line_count":   len(rr.Items),
	}
	if rr.PurchaseOrderID != nil {
		changes["purchase_order_id"] = *rr.PurchaseOrderID
	}
	r.publish(ctx, audit.ActionCreate, domaindoc.KindReceivingReport, rr.ID, rr.RRNumber, actorID, changes)
	resp := ToReceivingReportResponse(rr)
	return &resp, nil
}

// DeleteInvoice removes an invoice and returns its products to stock
func (r *Reconciler) DeleteInvoice(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	ctx, span := r.startSpan(ctx, "delete_invoice", domaindoc.KindInvoice, actorID)
	defer span.End()
	if err := shared.RequireActor(actorID); err != nil {
		return fail(span, err)
	}

	var number string
	err := r.scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		number = inv.InvoiceNumber
		if err := r.ledger.ReverseDocument(ctx, repos.StockItemRepo(), domaindoc.KindInvoice.Direction(), inv.Lines(), nil); err != nil {
			return err
		}
		return repos.InvoiceRepo().Delete(ctx, id)
	})
	if err != nil {
		return fail(span, err)
	}
	telemetry.SetOK(span)
	r.publish(ctx, audit.ActionDelete, domaindoc.KindInvoice, id, number, actorID, nil)
	return nil
}

// DeleteWalkInInvoice removes a walk-in invoice and returns its products to stock
func (r *Reconciler) DeleteWalkInInvoice(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	ctx, span := r.startSpan(ctx, "delete_walk_in_invoice", domaindoc.KindWalkInInvoice, actorID)
	defer span.End()
	if err := shared.RequireActor(actorID); err != nil {
		return fail(span, err)
	}

	var number string
	err := r.scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		inv, err := repos.WalkInInvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		number = inv.InvoiceNumber
		if err := r.ledger.ReverseDocument(ctx, repos.StockItemRepo(), domaindoc.KindWalkInInvoice.Direction(), inv.Lines(), nil); err != nil {
			return err
		}
		return repos.WalkInInvoiceRepo().Delete(ctx, id)
	})
	if err != nil {
		return fail(span, err)
	}
	telemetry.SetOK(span)
	r.publish(ctx, audit.ActionDelete, domaindoc.KindWalkInInvoice, id, number, actorID, nil)
	return nil
}

// DeletePurchaseOrder removes a purchase order nothing has been received against
func (r *Reconciler) DeletePurchaseOrder(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	ctx, span := r.startSpan(ctx, "delete_purchase_order", domaindoc.KindPurchaseOrder, actorID)
	defer span.End()
	if err := shared.RequireActor(actorID); err != nil {
		return fail(span, err)
	}

	var number string
	err := r.scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		po, err := repos.PurchaseOrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		number = po.PONumber
		reports, err := repos.ReceivingReportRepo().CountByPurchaseOrder(ctx, id)
		if err != nil {
			return err
		}
		if reports > 0 {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Purchase order %s has %d receiving report(s); delete them first", po.PONumber, reports))
		}
		return repos.PurchaseOrderRepo().Delete(ctx, id)
	})
	if err != nil {
		return fail(span, err)
	}
	telemetry.SetOK(span)
	r.publish(ctx, audit.ActionDelete, domaindoc.KindPurchaseOrder, id, number, actorID, nil)
	return nil
}

// DeleteReceivingReport removes a receiving report, takes its goods back out
// of stock and withdraws its quantities from the purchase order it received against.
func (r *Reconciler) DeleteReceivingReport(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	ctx, span := r.startSpan(ctx, "delete_receiving_report", domaindoc.KindReceivingReport, actorID)
	defer span.End()
	if err := shared.RequireActor(actorID); err != nil {
		return fail(span, err)
	}

	var number string
	err := r.scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		rr, err := repos.ReceivingReportRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		number = rr.RRNumber
		if err := r.ledger.ReverseDocument(ctx, repos.StockItemRepo(), domaindoc.KindReceivingReport.Direction(), rr.Lines(), nil); err != nil {
			return err
		}
		if rr.PurchaseOrderID != nil {
			po, err := repos.PurchaseOrderRepo().FindByID(ctx, *rr.PurchaseOrderID)
			switch {
			case errors.Is(err, shared.ErrNotFound):
				logger.For(ctx, r.logger).Warn("receiving report references a missing purchase order",
					zap.String("rr_number", rr.RRNumber),
					zap.String("purchase_order_id", rr.PurchaseOrderID.String()),
				)
			case err != nil:
				return err
			default:
				po.Unreceive(rr.ReceivedByItem())
				if err := repos.PurchaseOrderRepo().Update(ctx, po); err != nil {
					return fmt.Errorf("update purchase order %s: %w", po.PONumber, err)
				}
			}
		}
		return repos.ReceivingReportRepo().Delete(ctx, id)
	})
	if err != nil {
		return fail(span, err)
	}
	telemetry.SetOK(span)
	r.publish(ctx, audit.ActionDelete, domaindoc.KindReceivingReport, id, number, actorID, nil)
	return nil
}
