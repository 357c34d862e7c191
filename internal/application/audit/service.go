// Package audit writes and queries the audit trail.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Service writes and reads audit entries
type Service struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewService creates a new audit Service
func NewService(repo audit.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, logger: log}
}

// Record stores an entry. A failure is logged and swallowed so the audited
// operation is never affected.
func (s *Service) Record(ctx context.Context, entry *audit.Entry) {
	if entry == nil {
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.For(ctx, s.logger).Error("failed to write audit entry",
			zap.String("action", entry.Action),
			zap.String("module", entry.Module),
			zap.String("status", string(entry.Status)),
			zap.Error(err),
		)
	}
}

// ListQuery binds the audit log listing
type ListQuery struct {
	ActorID string     `form:"user_id" binding:"omitempty,uuid"`
	Action  string     `form:"action"`
	Module  string     `form:"module"`
	Status  string     `form:"status" binding:"omitempty,oneof=SUCCESS FAILED ERROR"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
	Limit   int        `form:"limit" binding:"omitempty,min=1"`
	Offset  int        `form:"offset" binding:"omitempty,min=0"`
}

func (q ListQuery) toQuery() audit.Query {
	out := audit.Query{
		Action: q.Action,
		Module: q.Module,
		Status: audit.Status(q.Status),
		From:   q.From,
		Offset: q.Offset,
		Limit:  clampLimit(q.Limit),
	}
	if q.To != nil {
		end := q.To.Add(24*time.Hour - time.Nanosecond)
		out.To = &end
	}
	if id, err := uuid.Parse(q.ActorID); err == nil {
		out.ActorID = &id
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}

// Page reports the listing window as a page number and page size
func (q ListQuery) Page() (page, pageSize int) {
	aq := q.toQuery()
	return aq.Offset/aq.Limit + 1, aq.Limit
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// EntryResponse represents an audit entry in API responses
type EntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	ActorID      *uuid.UUID      `json:"user_id,omitempty"`
	Action       string          `json:"action"`
	Module       string          `json:"module"`
	RecordID     *uuid.UUID      `json:"record_id,omitempty"`
	RecordName   string          `json:"record_name,omitempty"`
	Changes      json.RawMessage `json:"changes,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToEntryResponse converts an entry to a response
func ToEntryResponse(e *audit.Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		ActorID:      e.ActorID,
		Action:       e.Action,
		Module:       e.Module,
		RecordID:     e.RecordID,
		RecordName:   e.RecordName,
		Changes:      e.Changes,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		Status:       string(e.Status),
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
	}
}

// List returns entries newest first
func (s *Service) List(ctx context.Context, q ListQuery) ([]EntryResponse, int64, error) {
	return s.list(ctx, q.toQuery())
}

// ForRecord returns the history of one record, newest first
func (s *Service) ForRecord(ctx context.Context, recordID uuid.UUID, limit int) ([]EntryResponse, int64, error) {
	return s.list(ctx, audit.Query{RecordID: &recordID, Limit: clampLimit(limit)})
}

func (s *Service) list(ctx context.Context, q audit.Query) ([]EntryResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out, total, nil
}

// Get returns one entry
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEntryResponse(entry)
	return &resp, nil
}

// RecordChangedHandler turns committed-change events into audit entries
type RecordChangedHandler struct {
	service *Service
}

// NewRecordChangedHandler creates the event handler
func NewRecordChangedHandler(service *Service) *RecordChangedHandler {
	return &RecordChangedHandler{service: service}
}

// EventTypes returns the handled event types
func (h *RecordChangedHandler) EventTypes() []string {
	return []string{audit.EventTypeRecordChanged}
}

// Handle writes the entry for a RecordChanged event
func (h *RecordChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*audit.RecordChanged)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
	}
	h.service.Record(ctx, audit.EntryFromEvent(changed))
	return nil
}

var _ shared.EventHandler = (*RecordChangedHandler)(nil)
