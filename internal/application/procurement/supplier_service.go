// Package procurement manages the suppliers purchase orders and receiving
// reports are written against.
package procurement

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// AuditModule is the audit log module name for supplier records
const AuditModule = "Suppliers"

// recentLimit is how many of a supplier's latest documents GetByID returns
const recentLimit = 5

// SupplierService manages suppliers
type SupplierService struct {
	repo           procurement.SupplierRepository
	orders         procurement.PurchaseOrderRepository
	reports        procurement.ReceivingReportRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(repo procurement.SupplierRepository, orders procurement.PurchaseOrderRepository, reports procurement.ReceivingReportRepository, log *zap.Logger) *SupplierService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SupplierService{repo: repo, orders: orders, reports: reports, logger: log}
}

// SetEventPublisher sets the publisher for audit events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List lists suppliers
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	suppliers, total, err := s.repo.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out, total, nil
}

// Active lists every active supplier by name, for order entry pick lists
func (s *SupplierService) Active(ctx context.Context) ([]SupplierResponse, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.PageSize = 0
	filter.Filters["active"] = "true"
	suppliers, _, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out, nil
}

// GetByID retrieves a supplier with its document counts and latest documents
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierDetailResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	usage, err := s.repo.Usage(ctx, id)
	if err != nil {
		return nil, err
	}

	recent := shared.DefaultFilter()
	recent.PageSize = recentLimit
	recent.Filters["supplier_id"] = id.String()

	recent.OrderBy = "order_date"
	orders, _, err := s.orders.FindAll(ctx, recent)
	if err != nil {
		return nil, err
	}
	recent.OrderBy = "receive_date"
	reports, _, err := s.reports.FindAll(ctx, recent)
	if err != nil {
		return nil, err
	}

	resp := &SupplierDetailResponse{
		SupplierResponse:      ToSupplierResponse(supplier),
		PurchaseOrderCount:    usage.PurchaseOrders,
		ReceivingReportCount:  usage.ReceivingReports,
		RecentPurchaseOrders:  make([]DocumentRef, len(orders)),
		RecentReceivingReport: make([]DocumentRef, len(reports)),
	}
	for i, po := range orders {
		resp.RecentPurchaseOrders[i] = DocumentRef{ID: po.ID, Number: po.PONumber, Date: po.OrderDate, Status: po.Status.String(), TotalAmount: po.TotalAmount}
	}
	for i, rr := range reports {
		resp.RecentReceivingReport[i] = DocumentRef{ID: rr.ID, Number: rr.RRNumber, Date: rr.ReceiveDate, TotalAmount: rr.TotalAmount}
	}
	return resp, nil
}

// Create records a supplier
func (s *SupplierService) Create(ctx context.Context, req SupplierRequest, actorID uuid.UUID) (*SupplierResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	supplier, err := procurement.NewSupplier(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("supplier created", zap.String("supplier_id", supplier.ID.String()))
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionCreate, AuditModule, supplier.ID, supplier.Name, actorID).
			WithChanges(map[string]interface{}{"name": supplier.Name, "is_active": supplier.IsActive}))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Update replaces a supplier's details
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req SupplierRequest, actorID uuid.UUID) (*SupplierResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := map[string]interface{}{"name": supplier.Name, "is_active": supplier.IsActive}
	if err := supplier.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, AuditModule, supplier.ID, supplier.Name, actorID).
			WithChanges(map[string]interface{}{
				"before": before,
				"after":  map[string]interface{}{"name": supplier.Name, "is_active": supplier.IsActive},
			}))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier no document refers to. Suppliers with history
// are deactivated instead.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := shared.RequireActor(actorID); err != nil {
		return err
	}
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	usage, err := s.repo.Usage(ctx, id)
	if err != nil {
		return err
	}
	if usage.InUse() {
		return shared.WrapDomainError("SUPPLIER_IN_USE", "Supplier has purchase orders or receiving reports; deactivate it instead", shared.ErrInvalidState)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionDelete, AuditModule, supplier.ID, supplier.Name, actorID))
	return nil
}
