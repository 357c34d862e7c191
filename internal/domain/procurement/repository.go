package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// PurchaseOrderRepository persists purchase orders with their items
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)
	Create(ctx context.Context, po *PurchaseOrder) error
	// Update saves header fields and the received quantity of each item
	Update(ctx context.Context, po *PurchaseOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReceivingReportRepository persists receiving reports with their items
type ReceivingReportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReceivingReport, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ReceivingReport, int64, error)
	CountByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error)
	Create(ctx context.Context, rr *ReceivingReport) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository persists suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	// FindAll lists suppliers; filter "active" narrows to active ("true") or inactive ("false")
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, int64, error)
	Usage(ctx context.Context, id uuid.UUID) (SupplierUsage, error)
	Create(ctx context.Context, supplier *Supplier) error
	Update(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}
