package clinic

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// ClientRepository persists clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Client, error)
	FindByEmail(ctx context.Context, email string) (*Client, error)
	// FindAll searches name, email and phone; filter "verified" narrows by email verification
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, int64, error)
	Create(ctx context.Context, client *Client) error
	// MarkEmailVerified sets the flag on a client whose email is not yet verified
	MarkEmailVerified(ctx context.Context, client *Client) error
}

// PatientRepository persists patients
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Patient, error)
	FindByClientAndName(ctx context.Context, clientID uuid.UUID, name string) (*Patient, error)
	// FindAll searches name and breed; filters "client_id" and "species" narrow the list
	FindAll(ctx context.Context, filter shared.Filter) ([]Patient, int64, error)
	Create(ctx context.Context, patient *Patient) error
}

// AppointmentRepository persists appointments
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// FindAll lists appointments in the From/To range, narrowed by "status" and "patient_id"
	FindAll(ctx context.Context, filter shared.Filter) ([]Appointment, int64, error)
	Create(ctx context.Context, appointment *Appointment) error
	// UpdateStatus saves the status and notes when the stored status is still from
	UpdateStatus(ctx context.Context, appointment *Appointment, from AppointmentStatus) error
}
