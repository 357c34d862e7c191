// Package inventory holds the stock ledger and the stock item management service.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/infrastructure/metrics"
	"github.com/vetclinic/backend/internal/infrastructure/telemetry"
)

// StockRecorder receives one call per attempted adjustment. Satisfied by *metrics.Metrics.
type StockRecorder interface {
	StockAdjusted(direction, result string, units int)
}

type nopStockRecorder struct{}

func (nopStockRecorder) StockAdjusted(string, string, int) {}

// Ledger applies signed quantity changes to products. Every change is a single
// atomic increment in the store, so concurrent documents never lose an update.
// It runs on whatever repository it is handed, normally one bound to the
// caller's transaction.
type Ledger struct {
	policy   inventory.NegativeStockPolicy
	recorder StockRecorder
	logger   *zap.Logger
}

// LedgerOption configures a Ledger
type LedgerOption func(*Ledger)

// WithStockRecorder reports adjustments to r
func WithStockRecorder(r StockRecorder) LedgerOption {
	return func(l *Ledger) {
		if r != nil {
			l.recorder = r
		}
	}
}

// NewLedger creates a ledger enforcing policy
func NewLedger(policy inventory.NegativeStockPolicy, log *zap.Logger, opts ...LedgerOption) *Ledger {
	if policy == "" {
		policy = inventory.AllowNegative
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &Ledger{policy: policy, recorder: nopStockRecorder{}, logger: log}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the negative stock policy in force
func (l *Ledger) Policy() inventory.NegativeStockPolicy {
	return l.policy
}

// ApplyDelta adds delta to one item's quantity on hand. Service items are left alone.
func (l *Ledger) ApplyDelta(ctx context.Context, repo inventory.StockItemRepository, itemID uuid.UUID, delta int) error {
	item, err := repo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	return l.adjust(ctx, repo, item, delta)
}

// ApplyDocument moves every product line in direction. items should hold the
// lines' stock items; any that are missing are loaded from repo.
func (l *Ledger) ApplyDocument(ctx context.Context, repo inventory.StockItemRepository, direction inventory.Direction, lines []document.Line, items map[uuid.UUID]inventory.StockItem) error {
	if direction == inventory.DirectionNone || len(lines) == 0 {
		return nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "apply_document",
		telemetry.WithAttribute(telemetry.SpanAttrDirection, direction.String()),
		telemetry.WithAttribute(telemetry.SpanAttrLineCount, len(lines)),
	)
	defer span.End()

	for _, line := range lines {
		item, ok := items[line.ItemID]
		if !ok {
			found, err := repo.FindByID(ctx, line.ItemID)
			if err != nil {
				telemetry.RecordError(span, err)
				return fmt.Errorf("load stock item %s: %w", line.ItemID, err)
			}
			item = *found
		}
		if err := l.adjust(ctx, repo, &item, direction.Delta(line.Quantity)); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}
	telemetry.SetOK(span)
	return nil
}

// ReverseDocument undoes ApplyDocument for the same lines
func (l *Ledger) ReverseDocument(ctx context.Context, repo inventory.StockItemRepository, direction inventory.Direction, lines []document.Line, items map[uuid.UUID]inventory.StockItem) error {
	return l.ApplyDocument(ctx, repo, direction.Reverse(), lines, items)
}

func (l *Ledger) adjust(ctx context.Context, repo inventory.StockItemRepository, item *inventory.StockItem, delta int) error {
	if !item.Kind.TracksQuantity() || delta == 0 {
		return nil
	}
	direction := inventory.DirectionSupply
	if delta < 0 {
		direction = inventory.DirectionConsume
	}

	var floor *int
	if l.policy.Guards() && delta < 0 {
		zero := 0
		floor = &zero
	}

	err := repo.AdjustQuantity(ctx, item.ID, delta, floor)
	switch {
	case err == nil:
		l.recorder.StockAdjusted(direction.String(), metrics.ResultOK, delta)
		return nil
	case errors.Is(err, shared.ErrInsufficientStock):
		l.recorder.StockAdjusted(direction.String(), metrics.ResultInsufficient, delta)
		logger.For(ctx, l.logger).Warn("stock adjustment refused",
			zap.String("item_code", item.Code),
			zap.Int("delta", delta),
		)
		return shared.WrapDomainError(shared.ErrInsufficientStock.Code,
			fmt.Sprintf("Insufficient stock for %s (%s)", item.Name, item.Code), err)
	case errors.Is(err, shared.ErrNotFound):
		l.recorder.StockAdjusted(direction.String(), metrics.ResultNotFound, delta)
		return err
	default:
		l.recorder.StockAdjusted(direction.String(), metrics.ResultError, delta)
		return fmt.Errorf("adjust stock for %s: %w", item.Code, err)
	}
}
