package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/shared"
)

func TestPolicy_Evaluate(t *testing.T) {
	p := DefaultPolicy()
	for prior := int64(0); prior < 5; prior++ {
		assert.NoError(t, p.Evaluate(prior), "prior=%d", prior)
	}
	err := p.Evaluate(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrRateLimited)
	assert.Contains(t, err.Error(), "per day")
	assert.ErrorIs(t, p.Evaluate(9), shared.ErrRateLimited)
}

func TestPolicy_Since(t *testing.T) {
	now := time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 1, 0, 0, time.UTC), DefaultPolicy().Since(now))
}

func TestNewAttempt(t *testing.T) {
	appt := uuid.New()
	a := NewAttempt("10.0.0.7", "  ", &appt, time.Now())
	assert.Nil(t, a.Fingerprint)
	assert.Equal(t, &appt, a.AppointmentID)

	a = NewAttempt("10.0.0.7", "fp-1", nil, time.Now())
	require.NotNil(t, a.Fingerprint)
	assert.Equal(t, "fp-1", *a.Fingerprint)
}

func TestIdentity_HasFingerprint(t *testing.T) {
	assert.False(t, Identity{IPAddress: "1.1.1.1"}.HasFingerprint())
	assert.True(t, Identity{IPAddress: "1.1.1.1", Fingerprint: "abc"}.HasFingerprint())
}

func TestNewIdentity_MatchesStoredAttempt(t *testing.T) {
	a := NewAttempt(" 10.0.0.7 ", " dev ", nil, time.Now())
	id := NewIdentity(" 10.0.0.7", "dev  ")

	assert.Equal(t, a.IPAddress, id.IPAddress)
	require.NotNil(t, a.Fingerprint)
	assert.Equal(t, *a.Fingerprint, id.Fingerprint)
	assert.False(t, NewIdentity("10.0.0.7", "   ").HasFingerprint())
}
