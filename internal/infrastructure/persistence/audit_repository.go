package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create appends an audit entry
func (r *GormAuditRepository) Create(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Create(models.AuditLogModelFromDomain(entry)).Error
}

// FindByID finds an audit entry by ID
func (r *GormAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.Entry, error) {
	var m models.AuditLogModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// List returns audit entries newest first
func (r *GormAuditRepository) List(ctx context.Context, q audit.Query) ([]audit.Entry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	if q.ActorID != nil {
		query = query.Where("actor_id = ?", *q.ActorID)
	}
	if q.RecordID != nil {
		query = query.Where("record_id = ?", *q.RecordID)
	}
	if q.Action != "" {
		query = query.Where("action = ?", q.Action)
	}
	if q.Module != "" {
		query = query.Where("module = ?", q.Module)
	}
	if q.Status != "" {
		query = query.Where("status = ?", string(q.Status))
	}
	if q.From != nil {
		query = query.Where("created_at >= ?", q.From.UTC())
	}
	if q.To != nil {
		query = query.Where("created_at <= ?", q.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var rows []models.AuditLogModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(q.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]audit.Entry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
