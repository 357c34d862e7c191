package clinic

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/domain/shared"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw    string
		region string
		want   string
		ok     bool
	}{
		{"0917 123 4567", "PH", "+639171234567", true},
		{"+63 917 123 4567", "US", "+639171234567", true},
		{"(415) 555-2671", "US", "+14155552671", true},
		{"12", "PH", "", false},
		{"", "PH", "", false},
		{"call me", "PH", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, tt.region)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUnverifiedClient(t *testing.T) {
	c, err := NewUnverifiedClient(" Ana Reyes ", "Ana.Reyes@Example.com", "+639171234567")
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes", c.Name)
	assert.Equal(t, "ana.reyes@example.com", c.Email)
	assert.False(t, c.EmailVerified)

	_, err = NewUnverifiedClient("Ana", "not-an-email", "")
	assert.Error(t, err)
	_, err = NewUnverifiedClient("", "a@b.co", "")
	assert.Error(t, err)
}

func TestNewPatientAndAppointment(t *testing.T) {
	p, err := NewPatient(uuid.New(), "Mochi", "Cat", "")
	require.NoError(t, err)

	at, err := ParseSchedule("2025-07-01", "14:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 14, 30, 0, 0, time.UTC), at)

	appt, err := NewPendingAppointment(p.ID, at, "Vaccination", "")
	require.NoError(t, err)
	assert.Equal(t, AppointmentPending, appt.Status)

	_, err = NewPendingAppointment(p.ID, at, " ", "")
	assert.Error(t, err)
	_, err = ParseSchedule("07/01/2025", "2pm", time.UTC)
	assert.Error(t, err)
	_, err = NewPatient(uuid.New(), "Mochi", "", "")
	assert.Error(t, err)
}

func TestNormalizeSpecies(t *testing.T) {
	for raw, want := range map[string]string{
		"dog":            "Dog",
		"  CAT ":         "Cat",
		"guinea   pig":   "Guinea Pig",
		"":               "",
		"bearded DRAGON": "Bearded Dragon",
	} {
		assert.Equal(t, want, NormalizeSpecies(raw), raw)
	}

	p, err := NewPatient(uuid.New(), "Kiwi", "  parrot", "")
	require.NoError(t, err)
	assert.Equal(t, "Parrot", p.Species)
}

func TestAppointment_SetStatus(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{AppointmentPending, AppointmentConfirmed, true},
		{AppointmentPending, AppointmentCancelled, true},
		{AppointmentPending, AppointmentCompleted, false},
		{AppointmentConfirmed, AppointmentCompleted, true},
		{AppointmentConfirmed, AppointmentCancelled, true},
		{AppointmentConfirmed, AppointmentPending, false},
		{AppointmentCompleted, AppointmentCancelled, false},
		{AppointmentCancelled, AppointmentConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			appt := &Appointment{Status: tt.from}
			err := appt.SetStatus(tt.to, "")
			if !tt.ok {
				assert.ErrorIs(t, err, shared.ErrInvalidState)
				assert.Equal(t, tt.from, appt.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, appt.Status)
		})
	}

	appt, err := NewPendingAppointment(uuid.New(), time.Now(), "Vaccination", "first visit")
	require.NoError(t, err)
	require.NoError(t, appt.SetStatus(AppointmentConfirmed, "  owner confirmed by phone "))
	assert.Equal(t, "first visit\nowner confirmed by phone", appt.Notes)
}

func TestClient_VerifyEmail(t *testing.T) {
	c, err := NewUnverifiedClient("Ana", "ana@example.com", "")
	require.NoError(t, err)

	require.NoError(t, c.VerifyEmail())
	assert.True(t, c.EmailVerified)
	assert.ErrorIs(t, c.VerifyEmail(), shared.ErrInvalidState)
}
