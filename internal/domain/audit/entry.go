// Package audit records who did what to which record. Writing an entry is
// best effort and never part of the business transaction.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome recorded for an audited action
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusError   Status = "ERROR"
)

// Entry is one audit log row
type Entry struct {
	ID           uuid.UUID
	ActorID      *uuid.UUID
	Action       string
	Module       string
	RecordID     *uuid.UUID
	RecordName   string
	Changes      json.RawMessage
	IPAddress    string
	UserAgent    string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
}

// NewEntry creates an entry with defaults filled in
func NewEntry(action, module string, status Status) *Entry {
	if status == "" {
		status = StatusSuccess
	}
	return &Entry{
		ID:        uuid.New(),
		Action:    action,
		Module:    module,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

// EntryFromEvent converts a RecordChanged event into an entry
func EntryFromEvent(e *RecordChanged) *Entry {
	entry := NewEntry(e.Action, e.Module, StatusSuccess)
	entry.ID = e.EventID()
	entry.CreatedAt = e.OccurredAt()
	recordID := e.AggregateID()
	entry.RecordID = &recordID
	entry.RecordName = e.RecordName
	if e.ActorID != uuid.Nil {
		actor := e.ActorID
		entry.ActorID = &actor
	}
	if len(e.Changes) > 0 {
		if raw, err := json.Marshal(e.Changes); err == nil {
			entry.Changes = raw
		}
	}
	return entry
}

// Query filters the audit log listing
type Query struct {
	ActorID  *uuid.UUID
	Action   string
	Module   string
	Status   Status
	From     *time.Time
	To       *time.Time
	RecordID *uuid.UUID
	Limit    int
	Offset   int
}
