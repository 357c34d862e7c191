// Package booking accepts appointment requests from the public booking form.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/vetclinic/backend/internal/domain/booking"
)

// RateLimiter caps accepted bookings per identity within a sliding window.
// An identity matches on IP address or, when one is supplied, device fingerprint.
type RateLimiter struct {
	attempts booking.AttemptRepository
	policy   booking.Policy
}

// NewRateLimiter creates a limiter enforcing policy; a zero policy means the default
func NewRateLimiter(attempts booking.AttemptRepository, policy booking.Policy) *RateLimiter {
	if policy.MaxAttempts <= 0 || policy.Window <= 0 {
		policy = booking.DefaultPolicy()
	}
	return &RateLimiter{attempts: attempts, policy: policy}
}

// Policy returns the limits in force
func (l *RateLimiter) Policy() booking.Policy {
	return l.policy
}

// Check returns shared.ErrRateLimited when the identity already has the
// maximum number of accepted bookings at or after now minus the window.
func (l *RateLimiter) Check(ctx context.Context, ip, fingerprint string, now time.Time) error {
	id := booking.NewIdentity(ip, fingerprint)
	prior, err := l.attempts.CountSince(ctx, id, l.policy.Since(now))
	if err != nil {
		return fmt.Errorf("count booking attempts: %w", err)
	}
	return l.policy.Evaluate(prior)
}
