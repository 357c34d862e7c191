// Package clinic holds the client, patient and appointment records that the
// public booking form creates.
package clinic

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// Client is a pet owner
type Client struct {
	shared.BaseEntity
	Name          string
	Email         string
	Phone         string
	Address       string
	EmailVerified bool
}

// NewUnverifiedClient creates a client from a public booking; the front desk verifies the email later
func NewUnverifiedClient(name, email, phone string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.WrapDomainError("INVALID_NAME", "Owner name is required", shared.ErrInvalidInput)
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Phone:      phone,
	}, nil
}

// NormalizeEmail validates and lower-cases an email address
func NormalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Address == "" {
		return "", shared.WrapDomainError("INVALID_EMAIL", "Email address is not valid", shared.ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}

// Patient is an animal belonging to a client
type Patient struct {
	shared.BaseEntity
	ClientID uuid.UUID
	Name     string
	Species  string
	Breed    string
}

// NewPatient creates a patient for a client
func NewPatient(clientID uuid.UUID, name, species, breed string) (*Patient, error) {
	if clientID == uuid.Nil {
		return nil, shared.WrapDomainError("INVALID_CLIENT", "Client is required", shared.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	species = NormalizeSpecies(species)
	if name == "" {
		return nil, shared.WrapDomainError("INVALID_NAME", "Pet name is required", shared.ErrInvalidInput)
	}
	if species == "" {
		return nil, shared.WrapDomainError("INVALID_SPECIES", "Pet species is required", shared.ErrInvalidInput)
	}
	return &Patient{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   clientID,
		Name:       name,
		Species:    species,
		Breed:      strings.TrimSpace(breed),
	}, nil
}

// NormalizeSpecies trims and title-cases a species so "dog", "DOG" and
// " Dog " are stored alike
func NormalizeSpecies(raw string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(raw), " "))
}

// AppointmentStatus is the scheduling state of an appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "Pending"
	AppointmentConfirmed AppointmentStatus = "Confirmed"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
)

// CanTransitionTo reports whether an appointment may move from s to next.
// Completed and Cancelled are final.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentPending:
		return next == AppointmentConfirmed || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentCompleted || next == AppointmentCancelled
	}
	return false
}

// Appointment is a scheduled visit for a patient
type Appointment struct {
	shared.BaseEntity
	PatientID uuid.UUID
	DateTime  time.Time
	Reason    string
	Status    AppointmentStatus
	Notes     string
}

// NewPendingAppointment creates an appointment awaiting front-desk confirmation
func NewPendingAppointment(patientID uuid.UUID, at time.Time, reason, notes string) (*Appointment, error) {
	if patientID == uuid.Nil {
		return nil, shared.WrapDomainError("INVALID_PATIENT", "Patient is required", shared.ErrInvalidInput)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.WrapDomainError("INVALID_REASON", "Reason for visit is required", shared.ErrInvalidInput)
	}
	if at.IsZero() {
		return nil, shared.WrapDomainError("INVALID_DATETIME", "Appointment date and time are required", shared.ErrInvalidInput)
	}
	return &Appointment{
		BaseEntity: shared.NewBaseEntity(),
		PatientID:  patientID,
		DateTime:   at.UTC(),
		Reason:     reason,
		Status:     AppointmentPending,
		Notes:      notes,
	}, nil
}

// SetStatus moves the appointment to next, appending notes when given
func (a *Appointment) SetStatus(next AppointmentStatus, notes string) error {
	if !a.Status.CanTransitionTo(next) {
		return shared.WrapDomainError("INVALID_STATE",
			"Cannot change a "+string(a.Status)+" appointment to "+string(next), shared.ErrInvalidState)
	}
	a.Status = next
	if notes = strings.TrimSpace(notes); notes != "" {
		if a.Notes != "" {
			a.Notes += "\n"
		}
		a.Notes += notes
	}
	a.Touch()
	return nil
}

// VerifyEmail marks the client's email verified; verifying twice is refused
func (c *Client) VerifyEmail() error {
	if c.EmailVerified {
		return shared.WrapDomainError("ALREADY_VERIFIED", "Email is already verified", shared.ErrInvalidState)
	}
	c.EmailVerified = true
	c.Touch()
	return nil
}

// ParseSchedule combines a YYYY-MM-DD date and an HH:MM time in loc
func ParseSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
	if err != nil {
		return time.Time{}, shared.WrapDomainError("INVALID_DATETIME", "Appointment date must be YYYY-MM-DD and time HH:MM", shared.ErrInvalidInput)
	}
	return at, nil
}
