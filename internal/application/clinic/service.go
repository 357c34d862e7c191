// Package clinic gives staff access to the client, patient and appointment
// records the public booking form creates.
package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/clinic"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// Audit log module names
const (
	AuditModuleClients      = "Clients"
	AuditModuleAppointments = "Appointments"
)

// patientHistoryLimit caps the appointments shown on a patient
const patientHistoryLimit = 20

// RecordService reads clinic records and moves appointments through their statuses
type RecordService struct {
	clients        clinic.ClientRepository
	patients       clinic.PatientRepository
	appointments   clinic.AppointmentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(clients clinic.ClientRepository, patients clinic.PatientRepository, appointments clinic.AppointmentRepository, log *zap.Logger) *RecordService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecordService{clients: clients, patients: patients, appointments: appointments, logger: log}
}

// SetEventPublisher sets the publisher for audit events
func (s *RecordService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListClients lists clients
func (s *RecordService) ListClients(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
	clients, total, err := s.clients.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = ToClientResponse(&clients[i])
	}
	return out, total, nil
}

// GetClient retrieves a client with their pets
func (s *RecordService) GetClient(ctx context.Context, id uuid.UUID) (*ClientDetailResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.PageSize = 0
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Filters["client_id"] = id.String()
	patients, _, err := s.patients.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &ClientDetailResponse{ClientResponse: ToClientResponse(client), Patients: make([]PatientResponse, len(patients))}
	for i := range patients {
		resp.Patients[i] = ToPatientResponse(&patients[i])
	}
	return resp, nil
}

// VerifyClientEmail records that the front desk confirmed a client's email
func (s *RecordService) VerifyClientEmail(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*ClientResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyEmail(); err != nil {
		return nil, err
	}
	if err := s.clients.MarkEmailVerified(ctx, client); err != nil {
		return nil, err
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, AuditModuleClients, client.ID, client.Name, actorID).
			WithChanges(map[string]interface{}{"email_verified": true}))
	resp := ToClientResponse(client)
	return &resp, nil
}

// ListPatients lists patients
func (s *RecordService) ListPatients(ctx context.Context, filter PatientListFilter) ([]PatientResponse, int64, error) {
	patients, total, err := s.patients.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]PatientResponse, len(patients))
	for i := range patients {
		out[i] = ToPatientResponse(&patients[i])
	}
	return out, total, nil
}

// GetPatient retrieves a patient with the owner and the latest appointments
func (s *RecordService) GetPatient(ctx context.Context, id uuid.UUID) (*PatientDetailResponse, error) {
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &PatientDetailResponse{PatientResponse: ToPatientResponse(patient)}
	switch client, err := s.clients.FindByID(ctx, patient.ClientID); {
	case err == nil:
		c := ToClientResponse(client)
		resp.Client = &c
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = patientHistoryLimit
	filter.OrderBy = "date_time"
	filter.Filters["patient_id"] = id.String()
	appts, _, err := s.appointments.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp.Appointments = make([]AppointmentResponse, len(appts))
	for i := range appts {
		resp.Appointments[i] = ToAppointmentResponse(&appts[i])
		resp.Appointments[i].PatientName = patient.Name
		resp.Appointments[i].ClientID = &patient.ClientID
		if resp.Client != nil {
			resp.Appointments[i].ClientName = resp.Client.Name
		}
	}
	return resp, nil
}

// ListAppointments lists appointments with their patient and client names
func (s *RecordService) ListAppointments(ctx context.Context, filter AppointmentListFilter) ([]AppointmentResponse, int64, error) {
	appts, total, err := s.appointments.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out, err := s.withNames(ctx, appts)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetAppointment retrieves an appointment
func (s *RecordService) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentResponse, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.withNames(ctx, []clinic.Appointment{*appt})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// UpdateAppointmentStatus confirms, completes or cancels an appointment
func (s *RecordService) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, req UpdateAppointmentStatusRequest, actorID uuid.UUID) (*AppointmentResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := appt.Status
	if err := appt.SetStatus(clinic.AppointmentStatus(req.Status), req.Notes); err != nil {
		return nil, err
	}
	if err := s.appointments.UpdateStatus(ctx, appt, from); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("appointment status changed",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(appt.Status)),
	)
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, AuditModuleAppointments, appt.ID, appt.DateTime.Format("2006-01-02 15:04"), actorID).
			WithChanges(map[string]interface{}{"before": map[string]interface{}{"status": from}, "after": map[string]interface{}{"status": appt.Status}}))

	out, err := s.withNames(ctx, []clinic.Appointment{*appt})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// withNames converts appointments to responses carrying patient and client names
func (s *RecordService) withNames(ctx context.Context, appts []clinic.Appointment) ([]AppointmentResponse, error) {
	patientIDs := make([]uuid.UUID, 0, len(appts))
	seen := make(map[uuid.UUID]bool, len(appts))
	for _, a := range appts {
		if !seen[a.PatientID] {
			seen[a.PatientID] = true
			patientIDs = append(patientIDs, a.PatientID)
		}
	}
	patients, err := s.patients.FindByIDs(ctx, patientIDs)
	if err != nil {
		return nil, err
	}
	byPatient := make(map[uuid.UUID]clinic.Patient, len(patients))
	clientIDs := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		byPatient[p.ID] = p
		clientIDs = append(clientIDs, p.ClientID)
	}
	clients, err := s.clients.FindByIDs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	byClient := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		byClient[c.ID] = c.Name
	}

	out := make([]AppointmentResponse, len(appts))
	for i := range appts {
		out[i] = ToAppointmentResponse(&appts[i])
		if p, ok := byPatient[appts[i].PatientID]; ok {
			clientID := p.ClientID
			out[i].PatientName = p.Name
			out[i].ClientID = &clientID
			out[i].ClientName = byClient[clientID]
		}
	}
	return out, nil
}
