package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// InvoiceRepository persists clinic invoices with their items
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, int64, error)
	// Create inserts the header and items; a duplicate number yields shared.ErrDuplicateNumber
	Create(ctx context.Context, invoice *Invoice) error
	UpdateHeader(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// WalkInInvoiceRepository persists walk-in invoices with their items
type WalkInInvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WalkInInvoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]WalkInInvoice, int64, error)
	Create(ctx context.Context, invoice *WalkInInvoice) error
	UpdateHeader(ctx context.Context, invoice *WalkInInvoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}
