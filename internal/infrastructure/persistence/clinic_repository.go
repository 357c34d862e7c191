package persistence

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/clinic"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormClientRepository implements clinic.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Client, error) {
	var m models.ClientModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads the clients with the given IDs; missing IDs are skipped
func (r *GormClientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]clinic.Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ClientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]clinic.Client, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindAll lists clients matching the search across name, email and phone
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]clinic.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}
	if verified := filter.String("verified"); verified != "" {
		if b, err := strconv.ParseBool(verified); err == nil {
			query = query.Where("email_verified = ?", b)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ClientModel
	if err := applyOrderAndPage(query, filter, ClientSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]clinic.Client, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// MarkEmailVerified sets email_verified on a client that was still unverified
func (r *GormClientRepository) MarkEmailVerified(ctx context.Context, client *clinic.Client) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.ClientModel{}).
		Where("id = ? AND email_verified = ?", client.ID, false).
		Updates(map[string]interface{}{"email_verified": true, "updated_at": client.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(db, &models.ClientModel{}, client.ID)
	}
	return nil
}

// FindByEmail finds a client by normalized email
func (r *GormClientRepository) FindByEmail(ctx context.Context, email string) (*clinic.Client, error) {
	var m models.ClientModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// Create inserts a client
func (r *GormClientRepository) Create(ctx context.Context, client *clinic.Client) error {
	err := r.db.WithContext(ctx).Create(models.ClientModelFromDomain(client)).Error
	if isUniqueViolation(err) {
		return shared.WrapDomainError(shared.ErrAlreadyExists.Code, "A client with this email already exists", err)
	}
	return err
}

// GormPatientRepository implements clinic.PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error) {
	var m models.PatientModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads the patients with the given IDs; missing IDs are skipped
func (r *GormPatientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]clinic.Patient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.PatientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]clinic.Patient, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindAll lists patients by client and species, searching name and breed
func (r *GormPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]clinic.Patient, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PatientModel{})
	if clientID := filter.String("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if species := filter.String("species"); species != "" {
		query = query.Where("species = ?", clinic.NormalizeSpecies(species))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(breed) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.PatientModel
	if err := applyOrderAndPage(query, filter, PatientSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]clinic.Patient, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// FindByClientAndName finds a client's pet by exact name
func (r *GormPatientRepository) FindByClientAndName(ctx context.Context, clientID uuid.UUID, name string) (*clinic.Patient, error) {
	var m models.PatientModel
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND name = ?", clientID, name).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// Create inserts a patient
func (r *GormPatientRepository) Create(ctx context.Context, patient *clinic.Patient) error {
	return r.db.WithContext(ctx).Create(models.PatientModelFromDomain(patient)).Error
}

// GormAppointmentRepository implements clinic.AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment by ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Appointment, error) {
	var m models.AppointmentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists appointments by status and patient within the date range
func (r *GormAppointmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]clinic.Appointment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AppointmentModel{})
	if status := filter.String("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if patientID := filter.String("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(reason) LIKE ?", likePattern(filter.Search))
	}
	query = applyDateRange(query, "date_time", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.AppointmentModel
	if err := applyOrderAndPage(query, filter, AppointmentSortFields, "date_time").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]clinic.Appointment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// UpdateStatus saves status and notes if nobody changed the status since it was read
func (r *GormAppointmentRepository) UpdateStatus(ctx context.Context, appointment *clinic.Appointment, from clinic.AppointmentStatus) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.AppointmentModel{}).
		Where("id = ? AND status = ?", appointment.ID, string(from)).
		Updates(map[string]interface{}{
			"status":     string(appointment.Status),
			"notes":      appointment.Notes,
			"updated_at": appointment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(db, &models.AppointmentModel{}, appointment.ID)
	}
	return nil
}

// Create inserts an appointment
func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *clinic.Appointment) error {
	return r.db.WithContext(ctx).Create(models.AppointmentModelFromDomain(appointment)).Error
}

var (
	_ clinic.ClientRepository      = (*GormClientRepository)(nil)
	_ clinic.PatientRepository     = (*GormPatientRepository)(nil)
	_ clinic.AppointmentRepository = (*GormAppointmentRepository)(nil)
)
