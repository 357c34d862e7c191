package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/booking"
)

// BookingAttemptModel records one accepted public booking submission
type BookingAttemptModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	IPAddress     string     `gorm:"type:varchar(45);not null;index:idx_booking_attempts_ip_created,priority:1"`
	Fingerprint   *string    `gorm:"type:varchar(128);index:idx_booking_attempts_fp_created,priority:1"`
	AppointmentID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time  `gorm:"not null;index:idx_booking_attempts_ip_created,priority:2;index:idx_booking_attempts_fp_created,priority:2"`
}

// TableName returns the table name for GORM
func (BookingAttemptModel) TableName() string {
	return "booking_attempts"
}

// ToDomain converts the persistence model to a domain Attempt.
func (m *BookingAttemptModel) ToDomain() *booking.Attempt {
	return &booking.Attempt{
		ID:            m.ID,
		IPAddress:     m.IPAddress,
		Fingerprint:   m.Fingerprint,
		AppointmentID: m.AppointmentID,
		CreatedAt:     m.CreatedAt,
	}
}

// BookingAttemptModelFromDomain creates a persistence model from a domain Attempt.
func BookingAttemptModelFromDomain(a *booking.Attempt) *BookingAttemptModel {
	return &BookingAttemptModel{
		ID:            a.ID,
		IPAddress:     a.IPAddress,
		Fingerprint:   a.Fingerprint,
		AppointmentID: a.AppointmentID,
		CreatedAt:     a.CreatedAt,
	}
}
