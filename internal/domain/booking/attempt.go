// Package booking throttles public, unauthenticated appointment requests.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// Attempt is one recorded public booking submission. It is never modified after creation.
type Attempt struct {
	ID            uuid.UUID
	IPAddress     string
	Fingerprint   *string
	AppointmentID *uuid.UUID
	CreatedAt     time.Time
}

// NewAttempt records a submission that produced the given appointment
func NewAttempt(ip, fingerprint string, appointmentID *uuid.UUID, now time.Time) *Attempt {
	a := &Attempt{
		ID:            uuid.New(),
		IPAddress:     strings.TrimSpace(ip),
		AppointmentID: appointmentID,
		CreatedAt:     now.UTC(),
	}
	if fp := strings.TrimSpace(fingerprint); fp != "" {
		a.Fingerprint = &fp
	}
	return a
}

// Identity is what a submission is counted against: its network address, or
// its device fingerprint when one is supplied. Either one matching counts.
type Identity struct {
	IPAddress   string
	Fingerprint string
}

// NewIdentity trims both terms the same way NewAttempt does before storing them
func NewIdentity(ip, fingerprint string) Identity {
	return Identity{IPAddress: strings.TrimSpace(ip), Fingerprint: strings.TrimSpace(fingerprint)}
}

// HasFingerprint reports whether the fingerprint term takes part in matching
func (i Identity) HasFingerprint() bool {
	return strings.TrimSpace(i.Fingerprint) != ""
}

// Policy is the sliding-window limit for public bookings
type Policy struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultPolicy allows five bookings per identity in any 24 hours
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 5, Window: 24 * time.Hour}
}

// Since returns the inclusive lower bound of the window ending at now
func (p Policy) Since(now time.Time) time.Time {
	return now.UTC().Add(-p.Window)
}

// Evaluate rejects when prior attempts in the window already reached the limit
func (p Policy) Evaluate(prior int64) error {
	if prior >= int64(p.MaxAttempts) {
		return shared.WrapDomainError(
			shared.ErrRateLimited.Code,
			fmt.Sprintf("Booking limit reached. You can only book up to %d appointments per %s. Please contact the clinic directly.", p.MaxAttempts, windowLabel(p.Window)),
			shared.ErrRateLimited,
		)
	}
	return nil
}

func windowLabel(d time.Duration) string {
	if d == 24*time.Hour {
		return "day"
	}
	return d.String()
}

// AttemptRepository stores booking attempts
type AttemptRepository interface {
	// CountSince counts attempts matching the identity created at or after since
	CountSince(ctx context.Context, id Identity, since time.Time) (int64, error)
	Create(ctx context.Context, attempt *Attempt) error
}
