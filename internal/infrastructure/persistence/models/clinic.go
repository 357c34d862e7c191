package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/clinic"
)

// ClientModel is the persistence model for a pet owner
type ClientModel struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null"`
	Email         string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone         string `gorm:"type:varchar(30)"`
	Address       string `gorm:"type:text"`
	EmailVerified bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *clinic.Client {
	return &clinic.Client{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		Address:       m.Address,
		EmailVerified: m.EmailVerified,
	}
}

// ClientModelFromDomain creates a persistence model from a domain Client.
func ClientModelFromDomain(c *clinic.Client) *ClientModel {
	m := &ClientModel{
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		EmailVerified: c.EmailVerified,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// PatientModel is the persistence model for a patient
type PatientModel struct {
	BaseModel
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(100);not null"`
	Species  string    `gorm:"type:varchar(50);not null"`
	Breed    string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PatientModel) TableName() string {
	return "patients"
}

// ToDomain converts the persistence model to a domain Patient.
func (m *PatientModel) ToDomain() *clinic.Patient {
	return &clinic.Patient{
		BaseEntity: m.BaseModel.ToDomain(),
		ClientID:   m.ClientID,
		Name:       m.Name,
		Species:    m.Species,
		Breed:      m.Breed,
	}
}

// PatientModelFromDomain creates a persistence model from a domain Patient.
func PatientModelFromDomain(p *clinic.Patient) *PatientModel {
	m := &PatientModel{
		ClientID: p.ClientID,
		Name:     p.Name,
		Species:  p.Species,
		Breed:    p.Breed,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// AppointmentModel is the persistence model for an appointment
type AppointmentModel struct {
	BaseModel
	PatientID uuid.UUID `gorm:"type:uuid;not null;index"`
	DateTime  time.Time `gorm:"not null;index"`
	Reason    string    `gorm:"type:varchar(500);not null"`
	Status    string    `gorm:"type:varchar(20);not null;index"`
	Notes     string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts the persistence model to a domain Appointment.
func (m *AppointmentModel) ToDomain() *clinic.Appointment {
	return &clinic.Appointment{
		BaseEntity: m.BaseModel.ToDomain(),
		PatientID:  m.PatientID,
		DateTime:   m.DateTime,
		Reason:     m.Reason,
		Status:     clinic.AppointmentStatus(m.Status),
		Notes:      m.Notes,
	}
}

// AppointmentModelFromDomain creates a persistence model from a domain Appointment.
func AppointmentModelFromDomain(a *clinic.Appointment) *AppointmentModel {
	m := &AppointmentModel{
		PatientID: a.PatientID,
		DateTime:  a.DateTime,
		Reason:    a.Reason,
		Status:    string(a.Status),
		Notes:     a.Notes,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
