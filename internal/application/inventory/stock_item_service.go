package inventory

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// AuditModule is the audit log module name for stock items
const AuditModule = "Inventory"

// StockItemService manages the stock item catalogue. It never edits quantity
// on hand after creation; documents do that through the Ledger.
type StockItemService struct {
	repo           inventory.StockItemRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockItemService creates a new StockItemService
func NewStockItemService(repo inventory.StockItemRepository, log *zap.Logger) *StockItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StockItemService{repo: repo, logger: log}
}

// SetEventPublisher sets the publisher for audit events
func (s *StockItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a stock item with a unique code
func (s *StockItemService) Create(ctx context.Context, req CreateStockItemRequest, actorID uuid.UUID) (*StockItemResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	item, err := inventory.NewStockItem(req.Code, req.Name, inventory.ItemKind(req.Kind), req.UnitPrice, req.ReorderThreshold)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if item.Kind.TracksQuantity() {
		item.QuantityOnHand = req.InitialQuantity
	}

	exists, err := s.repo.ExistsByCode(ctx, item.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError(shared.ErrAlreadyExists.Code, "Item code "+item.Code+" already exists", nil)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionCreate, AuditModule, item.ID, item.Code, actorID).
			WithChanges(map[string]interface{}{"name": item.Name, "kind": item.Kind, "quantity_on_hand": item.QuantityOnHand}))

	resp := ToStockItemResponse(item)
	return &resp, nil
}

// GetByID retrieves a stock item
func (s *StockItemService) GetByID(ctx context.Context, id uuid.UUID) (*StockItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// List lists stock items
func (s *StockItemService) List(ctx context.Context, filter StockItemListFilter) ([]StockItemResponse, int64, error) {
	items, total, err := s.repo.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	return ToStockItemResponses(items), total, nil
}

// Update changes the descriptive fields of a stock item
func (s *StockItemService) Update(ctx context.Context, id uuid.UUID, req UpdateStockItemRequest, actorID uuid.UUID) (*StockItemResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := map[string]interface{}{"name": item.Name, "unit_price": item.UnitPrice.String(), "reorder_threshold": item.ReorderThreshold}
	if err := item.Update(req.Name, req.Description, req.Unit, req.UnitPrice, req.ReorderThreshold); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, AuditModule, item.ID, item.Code, actorID).
			WithChanges(map[string]interface{}{
				"before": before,
				"after":  map[string]interface{}{"name": item.Name, "unit_price": item.UnitPrice.String(), "reorder_threshold": item.ReorderThreshold},
			}))

	resp := ToStockItemResponse(item)
	return &resp, nil
}

// Delete removes a stock item
func (s *StockItemService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := shared.RequireActor(actorID); err != nil {
		return err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionDelete, AuditModule, item.ID, item.Code, actorID))
	return nil
}

// LowStock lists products at or below their reorder threshold
func (s *StockItemService) LowStock(ctx context.Context) ([]StockItemResponse, error) {
	items, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToStockItemResponses(items), nil
}

// lowStockSheet is the worksheet name of the low-stock export
const lowStockSheet = "Low Stock"

var lowStockHeaders = []string{"Code", "Name", "On hand", "Reorder at", "Unit price"}

// ExportLowStock writes the low-stock report as an XLSX workbook to w
func (s *StockItemService) ExportLowStock(ctx context.Context, w io.Writer) error {
	items, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("failed to close workbook", zap.Error(cerr))
		}
	}()

	if err := f.SetSheetName("Sheet1", lowStockSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(lowStockSheet, "A1", &lowStockHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		price, _ := item.UnitPrice.Float64()
		row := []interface{}{item.Code, item.Name, item.QuantityOnHand, item.ReorderThreshold, price}
		if err := f.SetSheetRow(lowStockSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(lowStockSheet, "B", "B", 40); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// LowStockFileName names the export file
func LowStockFileName(now time.Time) string {
	return "low-stock-" + now.Format("2006-01-02") + ".xlsx"
}
