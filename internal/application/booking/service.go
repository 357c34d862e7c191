package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/booking"
	"github.com/vetclinic/backend/internal/domain/clinic"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/infrastructure/metrics"
	"github.com/vetclinic/backend/internal/infrastructure/telemetry"
)

// Booking outcomes reported to the recorder
const (
	OutcomeAccepted    = "accepted"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeFailed      = "failed"
)

// OutcomeRecorder counts booking submissions. Satisfied by *metrics.Metrics.
type OutcomeRecorder interface {
	BookingOutcome(outcome string)
}

type nopOutcomeRecorder struct{}

func (nopOutcomeRecorder) BookingOutcome(string) {}

var _ OutcomeRecorder = (*metrics.Metrics)(nil)

// BookingRequest is the public booking form
type BookingRequest struct {
	OwnerName       string `json:"owner_name" binding:"max=200"`
	OwnerEmail      string `json:"owner_email" binding:"max=200"`
	OwnerPhone      string `json:"owner_phone" binding:"max=30"`
	PetName         string `json:"pet_name" binding:"max=100"`
	PetSpecies      string `json:"pet_species" binding:"max=50"`
	PetBreed        string `json:"pet_breed" binding:"max=100"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Reason          string `json:"reason" binding:"max=500"`
	Notes           string `json:"notes" binding:"max=2000"`
	Fingerprint     string `json:"fingerprint" binding:"max=256"`

	// IPAddress is filled from the connection, never from the body
	IPAddress string `json:"-"`
}

func (r BookingRequest) missingRequired() bool {
	for _, v := range []string{r.OwnerName, r.OwnerEmail, r.OwnerPhone, r.PetName, r.PetSpecies, r.AppointmentDate, r.AppointmentTime, r.Reason} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// BookingResult is returned for an accepted booking
type BookingResult struct {
	AppointmentID   uuid.UUID `json:"appointment_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	PatientName     string    `json:"patient_name"`
	ClientName      string    `json:"client_name"`
	Message         string    `json:"message"`
}

// BookedMessage is shown to the pet owner after an accepted booking
const BookedMessage = "Appointment booked successfully! We will contact you soon to confirm."

// Service books appointments for the public. An accepted booking may create
// the client and patient it needs; a rejected one creates nothing.
type Service struct {
	scope    uow.TransactionScope
	limiter  *RateLimiter
	region   string
	location *time.Location
	recorder OutcomeRecorder
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithOutcomeRecorder counts outcomes in rec
func WithOutcomeRecorder(rec OutcomeRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// WithRegion sets the default region for owner phone numbers
func WithRegion(region string) Option {
	return func(s *Service) {
		if region != "" {
			s.region = region
		}
	}
}

// WithLocation sets the time zone the form's date and time are read in
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a booking service
func NewService(scope uow.TransactionScope, limiter *RateLimiter, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		scope:    scope,
		limiter:  limiter,
		region:   "PH",
		location: time.UTC,
		recorder: nopOutcomeRecorder{},
		now:      time.Now,
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book validates the form, enforces the booking limit and records the
// appointment together with its client, patient and booking attempt.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "book",
		telemetry.WithAttribute(telemetry.SpanAttrBookingIP, req.IPAddress),
		telemetry.WithAttribute(telemetry.SpanAttrHasDeviceFP, strings.TrimSpace(req.Fingerprint) != ""),
	)
	defer span.End()
	log := logger.For(ctx, s.logger)

	if req.missingRequired() {
		s.recorder.BookingOutcome(OutcomeInvalid)
		return nil, shared.WrapDomainError(shared.ErrInvalidInput.Code, "Please fill in all required fields", shared.ErrInvalidInput)
	}
	phone, err := clinic.NormalizePhone(req.OwnerPhone, s.region)
	if err != nil {
		s.recorder.BookingOutcome(OutcomeInvalid)
		return nil, err
	}
	email, err := clinic.NormalizeEmail(req.OwnerEmail)
	if err != nil {
		s.recorder.BookingOutcome(OutcomeInvalid)
		return nil, err
	}
	at, err := clinic.ParseSchedule(req.AppointmentDate, req.AppointmentTime, s.location)
	if err != nil {
		s.recorder.BookingOutcome(OutcomeInvalid)
		return nil, err
	}

	now := s.now()
	if err := s.limiter.Check(ctx, req.IPAddress, req.Fingerprint, now); err != nil {
		if errors.Is(err, shared.ErrRateLimited) {
			s.recorder.BookingOutcome(OutcomeRateLimited)
			telemetry.AddEvent(span, "rate_limited")
			log.Info("booking refused by rate limit", zap.String("ip", req.IPAddress))
			return nil, err
		}
		s.recorder.BookingOutcome(OutcomeFailed)
		telemetry.RecordError(span, err)
		return nil, err
	}

	var result BookingResult
	err = s.scope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		client, err := findOrCreateClient(ctx, repos.ClientRepo(), req.OwnerName, email, phone)
		if err != nil {
			return err
		}
		patient, err := findOrCreatePatient(ctx, repos.PatientRepo(), client.ID, req.PetName, req.PetSpecies, req.PetBreed)
		if err != nil {
			return err
		}
		appt, err := clinic.NewPendingAppointment(patient.ID, at, req.Reason, strings.TrimSpace(req.Notes))
		if err != nil {
			return err
		}
		if err := repos.AppointmentRepo().Create(ctx, appt); err != nil {
			return err
		}
		if err := repos.BookingAttemptRepo().Create(ctx, booking.NewAttempt(req.IPAddress, req.Fingerprint, &appt.ID, now)); err != nil {
			return err
		}
		result = BookingResult{
			AppointmentID:   appt.ID,
			AppointmentDate: appt.DateTime,
			PatientName:     patient.Name,
			ClientName:      client.Name,
			Message:         BookedMessage,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			s.recorder.BookingOutcome(OutcomeInvalid)
		} else {
			s.recorder.BookingOutcome(OutcomeFailed)
			log.Error("failed to record booking", zap.Error(err))
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.recorder.BookingOutcome(OutcomeAccepted)
	telemetry.SetOK(span)
	log.Info("appointment booked",
		zap.String("appointment_id", result.AppointmentID.String()),
		zap.Time("appointment_at", result.AppointmentDate),
	)
	return &result, nil
}

func findOrCreateClient(ctx context.Context, repo clinic.ClientRepository, name, email, phone string) (*clinic.Client, error) {
	client, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	client, err = clinic.NewUnverifiedClient(name, email, phone)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func findOrCreatePatient(ctx context.Context, repo clinic.PatientRepository, clientID uuid.UUID, name, species, breed string) (*clinic.Patient, error) {
	patient, err := repo.FindByClientAndName(ctx, clientID, strings.TrimSpace(name))
	if err == nil {
		return patient, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	patient, err = clinic.NewPatient(clientID, name, species, breed)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}
