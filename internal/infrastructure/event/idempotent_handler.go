package event

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// Outcomes reported for each event seen by an IdempotentHandler
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// OutcomeRecorder receives one call per handled event. Satisfied by *metrics.Metrics.
type OutcomeRecorder interface {
	EventHandled(eventType, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) EventHandled(string, string) {}

// IdempotencyStats is a snapshot of a handler's counters
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

// IdempotentHandler makes sure a wrapped handler sees each event id at most once per TTL
type IdempotentHandler struct {
	handler  shared.EventHandler
	store    shared.IdempotencyStore
	config   shared.IdempotencyConfig
	logger   *zap.Logger
	recorder OutcomeRecorder

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotentHandlerOption is a functional option for IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig sets the idempotency configuration
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// WithOutcomeRecorder reports outcomes to r, typically the Prometheus metrics
func WithOutcomeRecorder(r OutcomeRecorder) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		if r != nil {
			h.recorder = r
		}
	}
}

// NewIdempotentHandler wraps handler with a check against store
func NewIdempotentHandler(
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	h := &IdempotentHandler{
		handler:  handler,
		store:    store,
		config:   shared.DefaultIdempotencyConfig(),
		logger:   logger,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle marks the event id first and skips it when it was already marked.
// A store failure does not block delivery: a duplicate is preferred to a lost event.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, event)
	}

	eventID := event.EventID().String()
	isNew, err := h.store.MarkProcessed(ctx, eventID, h.config.TTL)
	switch {
	case err != nil:
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	case !isNew:
		h.duplicate.Add(1)
		h.recorder.EventHandled(event.EventType(), OutcomeDuplicate)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	// the key is kept on failure so a poison event is not retried until the TTL passes
	if err := h.handler.Handle(ctx, event); err != nil {
		h.failed.Add(1)
		h.recorder.EventHandled(event.EventType(), OutcomeFailed)
		return err
	}

	h.processed.Add(1)
	h.recorder.EventHandled(event.EventType(), OutcomeProcessed)
	return nil
}

// Stats returns the handler's counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: h.processed.Load(),
		EventsDuplicate: h.duplicate.Load(),
		EventsFailed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
