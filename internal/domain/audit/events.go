package audit

import (
	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// Audit actions carried by RecordChanged
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// EventTypeRecordChanged is published after any audited mutation commits
const EventTypeRecordChanged = "record.changed"

// RecordChanged tells the audit trail that a record was created, updated or deleted
type RecordChanged struct {
	shared.BaseDomainEvent
	Action     string                 `json:"action"`
	Module     string                 `json:"module"`
	RecordName string                 `json:"record_name"`
	ActorID    uuid.UUID              `json:"actor_id"`
	Changes    map[string]interface{} `json:"changes,omitempty"`
}

// NewRecordChanged builds the event for a record of the given audit module
func NewRecordChanged(action, module string, recordID uuid.UUID, recordName string, actorID uuid.UUID) *RecordChanged {
	return &RecordChanged{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordChanged, module, recordID),
		Action:          action,
		Module:          module,
		RecordName:      recordName,
		ActorID:         actorID,
	}
}

// WithChanges attaches a change summary
func (e *RecordChanged) WithChanges(changes map[string]interface{}) *RecordChanged {
	e.Changes = changes
	return e
}
