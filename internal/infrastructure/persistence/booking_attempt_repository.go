package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/booking"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormBookingAttemptRepository implements booking.AttemptRepository using GORM
type GormBookingAttemptRepository struct {
	db *gorm.DB
}

// NewGormBookingAttemptRepository creates a new GormBookingAttemptRepository
func NewGormBookingAttemptRepository(db *gorm.DB) *GormBookingAttemptRepository {
	return &GormBookingAttemptRepository{db: db}
}

// CountSince counts attempts from the same IP or, when present, the same fingerprint
func (r *GormBookingAttemptRepository) CountSince(ctx context.Context, id booking.Identity, since time.Time) (int64, error) {
	id = booking.NewIdentity(id.IPAddress, id.Fingerprint)
	query := r.db.WithContext(ctx).Model(&models.BookingAttemptModel{})
	if id.HasFingerprint() {
		query = query.Where("(ip_address = ? OR fingerprint = ?)", id.IPAddress, id.Fingerprint)
	} else {
		query = query.Where("ip_address = ?", id.IPAddress)
	}

	var count int64
	err := query.Where("created_at >= ?", since.UTC()).Count(&count).Error
	return count, err
}

// Create records an accepted booking
func (r *GormBookingAttemptRepository) Create(ctx context.Context, attempt *booking.Attempt) error {
	return r.db.WithContext(ctx).Create(models.BookingAttemptModelFromDomain(attempt)).Error
}

var _ booking.AttemptRepository = (*GormBookingAttemptRepository)(nil)
