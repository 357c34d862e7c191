package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/audit"
)

// AuditLogModel is an append-only audit trail row
type AuditLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index"`
	Action       string     `gorm:"type:varchar(20);not null;index"`
	Module       string     `gorm:"type:varchar(50);not null;index"`
	RecordID     *uuid.UUID `gorm:"type:uuid;index"`
	RecordName   string     `gorm:"type:varchar(200)"`
	Changes      string     `gorm:"type:text"`
	IPAddress    string     `gorm:"type:varchar(45)"`
	UserAgent    string     `gorm:"type:varchar(500)"`
	Status       string     `gorm:"type:varchar(10);not null;index"`
	ErrorMessage string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditLogModel) ToDomain() *audit.Entry {
	e := &audit.Entry{
		ID:           m.ID,
		ActorID:      m.ActorID,
		Action:       m.Action,
		Module:       m.Module,
		RecordID:     m.RecordID,
		RecordName:   m.RecordName,
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		Status:       audit.Status(m.Status),
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
	}
	if m.Changes != "" {
		e.Changes = json.RawMessage(m.Changes)
	}
	return e
}

// AuditLogModelFromDomain creates a persistence model from a domain audit Entry.
func AuditLogModelFromDomain(e *audit.Entry) *AuditLogModel {
	return &AuditLogModel{
		ID:           e.ID,
		ActorID:      e.ActorID,
		Action:       e.Action,
		Module:       e.Module,
		RecordID:     e.RecordID,
		RecordName:   e.RecordName,
		Changes:      string(e.Changes),
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		Status:       string(e.Status),
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
	}
}
