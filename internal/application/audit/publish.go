package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// Publish announces a committed change. The audit trail is best effort, so a
// publish failure is logged and never reaches the caller.
func Publish(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, event *audit.RecordChanged) {
	if publisher == nil || event == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.For(ctx, log).Warn("failed to publish audit event",
			zap.String("module", event.Module),
			zap.String("action", event.Action),
			zap.String("record_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
}
