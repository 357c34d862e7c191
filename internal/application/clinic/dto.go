package clinic

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/domain/clinic"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// ClientListFilter binds the client listing query
type ClientListFilter struct {
	query.PageQuery
	Verified string `form:"verified" binding:"omitempty,oneof=true false"`
}

// ToFilter converts to a repository filter
func (f ClientListFilter) ToFilter() shared.Filter {
	return f.PageQuery.Filter(map[string]string{"verified": f.Verified})
}

// PatientListFilter binds the patient listing query
type PatientListFilter struct {
	query.PageQuery
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Species  string `form:"species"`
}

// ToFilter converts to a repository filter
func (f PatientListFilter) ToFilter() shared.Filter {
	return f.PageQuery.Filter(map[string]string{"client_id": f.ClientID, "species": f.Species})
}

// AppointmentListFilter binds the appointment listing query. Appointments
// come earliest first unless asked otherwise.
type AppointmentListFilter struct {
	query.PageQuery
	Status    string `form:"status" binding:"omitempty,oneof=Pending Confirmed Completed Cancelled"`
	PatientID string `form:"patient_id" binding:"omitempty,uuid"`
}

// ToFilter converts to a repository filter
func (f AppointmentListFilter) ToFilter() shared.Filter {
	if f.OrderBy == "" {
		f.OrderBy = "date_time"
		if f.OrderDir == "" {
			f.OrderDir = "asc"
		}
	}
	return f.PageQuery.Filter(map[string]string{"status": f.Status, "patient_id": f.PatientID})
}

// UpdateAppointmentStatusRequest confirms, completes or cancels an appointment
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Confirmed Completed Cancelled"`
	Notes  string `json:"notes" binding:"max=2000"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *clinic.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		EmailVerified: c.EmailVerified,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ClientDetailResponse is a client with their pets
type ClientDetailResponse struct {
	ClientResponse
	Patients []PatientResponse `json:"patients"`
}

// PatientResponse represents a patient in API responses
type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPatientResponse converts a domain patient to a response
func ToPatientResponse(p *clinic.Patient) PatientResponse {
	return PatientResponse{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		CreatedAt: p.CreatedAt,
	}
}

// PatientDetailResponse is a patient with their owner and appointments
type PatientDetailResponse struct {
	PatientResponse
	Client       *ClientResponse       `json:"client,omitempty"`
	Appointments []AppointmentResponse `json:"appointments"`
}

// AppointmentResponse represents an appointment in API responses. Patient
// and client names are filled when the records still exist.
type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	PatientName string     `json:"patient_name,omitempty"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	ClientName  string     `json:"client_name,omitempty"`
	DateTime    time.Time  `json:"date_time"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToAppointmentResponse converts a domain appointment to a response
func ToAppointmentResponse(a *clinic.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DateTime:  a.DateTime,
		Reason:    a.Reason,
		Status:    string(a.Status),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
