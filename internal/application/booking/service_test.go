package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/booking"
	"github.com/vetclinic/backend/internal/domain/clinic"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
	"github.com/vetclinic/backend/tests/testutil"
)

type outcomes struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *outcomes) BookingOutcome(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[outcome]++
}

func (o *outcomes) get(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[outcome]
}

type bookingFixture struct {
	db     *gorm.DB
	svc    *Service
	rec    *outcomes
	clock  time.Time
	faker  *gofakeit.Faker
	manila *time.Location
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	f := &bookingFixture{
		db:     db,
		rec:    &outcomes{},
		clock:  time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		faker:  gofakeit.New(42),
		manila: manila,
	}
	limiter := NewRateLimiter(persistence.NewGormBookingAttemptRepository(db), booking.DefaultPolicy())
	f.svc = NewService(persistence.NewGormTransactionScope(db), limiter, zap.NewNop(),
		WithOutcomeRecorder(f.rec),
		WithRegion("PH"),
		WithLocation(manila),
		WithClock(func() time.Time { return f.clock }),
	)
	return f
}

func (f *bookingFixture) request(ip, fingerprint string) BookingRequest {
	return BookingRequest{
		OwnerName:       f.faker.Name(),
		OwnerEmail:      f.faker.Email(),
		OwnerPhone:      "0917 555 0101",
		PetName:         f.faker.PetName(),
		PetSpecies:      "Dog",
		AppointmentDate: "2025-06-10",
		AppointmentTime: "09:30",
		Reason:          "Annual vaccination",
		Fingerprint:     fingerprint,
		IPAddress:       ip,
	}
}

func (f *bookingFixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestService_Book_CreatesClientPatientAndAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	req := f.request(f.faker.IPv4Address(), "")
	req.OwnerEmail = "  Owner.Name@Example.COM "

	result, err := f.svc.Book(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, BookedMessage, result.Message)
	assert.Equal(t, req.PetName, result.PatientName)
	assert.True(t, result.AppointmentDate.Equal(time.Date(2025, 6, 10, 1, 30, 0, 0, time.UTC)), result.AppointmentDate.String())

	client, err := persistence.NewGormClientRepository(f.db).FindByEmail(ctx, "owner.name@example.com")
	require.NoError(t, err)
	assert.False(t, client.EmailVerified)
	assert.Equal(t, "+639175550101", client.Phone)

	appt, err := persistence.NewGormAppointmentRepository(f.db).FindByID(ctx, result.AppointmentID)
	require.NoError(t, err)
	assert.Equal(t, clinic.AppointmentPending, appt.Status)
	assert.Equal(t, int64(1), f.count(t, &models.BookingAttemptModel{}))
	assert.Equal(t, 1, f.rec.get(OutcomeAccepted))
}

func TestService_Book_ReusesClientAndPatient(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	req := f.request(f.faker.IPv4Address(), "")

	_, err := f.svc.Book(ctx, req)
	require.NoError(t, err)
	req.AppointmentDate = "2025-06-17"
	_, err = f.svc.Book(ctx, req)
	require.NoError(t, err)

	req.PetName = "Another " + req.PetName
	_, err = f.svc.Book(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.count(t, &models.ClientModel{}))
	assert.Equal(t, int64(2), f.count(t, &models.PatientModel{}))
	assert.Equal(t, int64(3), f.count(t, &models.AppointmentModel{}))
}

func TestService_Book_SixthAttemptIsRateLimited(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	ip := f.faker.IPv4Address()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Book(ctx, f.request(ip, ""))
		require.NoError(t, err, "booking %d", i+1)
	}

	_, err := f.svc.Book(ctx, f.request(ip, ""))

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrRateLimited)
	assert.NotErrorIs(t, err, shared.ErrInvalidInput)
	assert.Contains(t, err.Error(), "5 appointments per day")
	assert.Equal(t, int64(5), f.count(t, &models.AppointmentModel{}))
	assert.Equal(t, int64(5), f.count(t, &models.BookingAttemptModel{}))
	assert.Equal(t, 1, f.rec.get(OutcomeRateLimited))

	// another address is unaffected
	_, err = f.svc.Book(ctx, f.request(f.faker.IPv4Address(), ""))
	assert.NoError(t, err)
}

func TestService_Book_FingerprintFollowsTheDevice(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	device := f.faker.UUID()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Book(ctx, f.request(f.faker.IPv4Address(), device))
		require.NoError(t, err)
	}

	_, err := f.svc.Book(ctx, f.request(f.faker.IPv4Address(), device))
	assert.ErrorIs(t, err, shared.ErrRateLimited)

	// an empty fingerprint never matches other empty fingerprints
	_, err = f.svc.Book(ctx, f.request(f.faker.IPv4Address(), ""))
	assert.NoError(t, err)
}

func TestService_Book_PaddedFingerprintStillCounts(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	device := " " + f.faker.UUID() + " "

	for i := 0; i < 5; i++ {
		_, err := f.svc.Book(ctx, f.request(f.faker.IPv4Address(), device))
		require.NoError(t, err)
	}

	_, err := f.svc.Book(ctx, f.request(f.faker.IPv4Address(), device))
	assert.ErrorIs(t, err, shared.ErrRateLimited)
	assert.Equal(t, int64(5), f.count(t, &models.BookingAttemptModel{}))
}

func TestService_Book_WindowBoundaryIsInclusive(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	ip := f.faker.IPv4Address()
	start := f.clock

	for i := 0; i < 5; i++ {
		_, err := f.svc.Book(ctx, f.request(ip, ""))
		require.NoError(t, err)
	}

	f.clock = start.Add(24 * time.Hour)
	_, err := f.svc.Book(ctx, f.request(ip, ""))
	assert.ErrorIs(t, err, shared.ErrRateLimited, "attempts exactly one window old still count")

	f.clock = start.Add(24*time.Hour + time.Second)
	_, err = f.svc.Book(ctx, f.request(ip, ""))
	assert.NoError(t, err)
}

func TestService_Book_InvalidInputCreatesNothing(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"missing owner name", func(r *BookingRequest) { r.OwnerName = " " }},
		{"missing reason", func(r *BookingRequest) { r.Reason = "" }},
		{"missing time", func(r *BookingRequest) { r.AppointmentTime = "" }},
		{"bad phone", func(r *BookingRequest) { r.OwnerPhone = "555" }},
		{"bad email", func(r *BookingRequest) { r.OwnerEmail = "not-an-email" }},
		{"bad date", func(r *BookingRequest) { r.AppointmentDate = "10/06/2025" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(f.faker.IPv4Address(), "")
			tt.mutate(&req)
			_, err := f.svc.Book(ctx, req)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.NotErrorIs(t, err, shared.ErrRateLimited)
		})
	}

	assert.Zero(t, f.count(t, &models.ClientModel{}))
	assert.Zero(t, f.count(t, &models.BookingAttemptModel{}))
	assert.Equal(t, len(tests), f.rec.get(OutcomeInvalid))
}

func TestRateLimiter_ZeroPolicyFallsBackToDefault(t *testing.T) {
	limiter := NewRateLimiter(persistence.NewGormBookingAttemptRepository(testutil.NewSQLiteDB(t)), booking.Policy{})
	assert.Equal(t, booking.DefaultPolicy(), limiter.Policy())
	assert.NoError(t, limiter.Check(context.Background(), "203.0.113.9", "", time.Now()))
}
