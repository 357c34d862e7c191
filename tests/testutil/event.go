package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// RecordingHandler collects the events it is given. A non-nil Err is
// returned from every Handle call.
type RecordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	Err    error
}

// NewRecordingHandler subscribes to eventTypes, or to everything when none are given
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{types: eventTypes}
}

// EventTypes implements shared.EventHandler
func (h *RecordingHandler) EventTypes() []string {
	return h.types
}

// Handle implements shared.EventHandler
func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.Err
}

// Events returns a copy of what was handled so far
func (h *RecordingHandler) Events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

// TestEvent is a bare domain event
type TestEvent struct {
	shared.BaseDomainEvent
}

// NewTestEvent creates an event of eventType about aggregateID
func NewTestEvent(eventType string, aggregateID uuid.UUID) *TestEvent {
	return &TestEvent{BaseDomainEvent: shared.BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggregateID,
		AggType:   "TestAggregate",
	}}
}
