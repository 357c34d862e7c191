package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/domain/staff"
	"github.com/vetclinic/backend/internal/infrastructure/persistence/models"
)

// GormEmployeeRepository implements staff.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*staff.Employee, error) {
	var m models.EmployeeModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists employees filtered by status, department and search
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]staff.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{})
	if status := filter.String("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if department := filter.String("department"); department != "" {
		query = query.Where("department = ?", department)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(employee_number) LIKE ? OR LOWER(position) LIKE ?", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EmployeeModel
	if err := applyOrderAndPage(query, filter, EmployeeSortFields, "employee_number").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]staff.Employee, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsByUser checks whether a user already has an employee record
func (r *GormEmployeeRepository) ExistsByUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts an employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *staff.Employee) error {
	err := r.db.WithContext(ctx).Create(models.EmployeeModelFromDomain(employee)).Error
	if isUniqueViolation(err) {
		return duplicateNumber(employee.EmployeeNumber, err)
	}
	return err
}

// Update saves the profile and status. The number and linked user never change.
func (r *GormEmployeeRepository) Update(ctx context.Context, employee *staff.Employee) error {
	result := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Where("id = ?", employee.ID).
		Select("*").
		Omit("id", "created_at", "employee_number", "user_id").
		Updates(models.EmployeeModelFromDomain(employee))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an employee record
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EmployeeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus counts employees per status
func (r *GormEmployeeRepository) CountByStatus(ctx context.Context) (map[staff.EmployeeStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[staff.EmployeeStatus]int64, len(rows))
	for _, row := range rows {
		out[staff.EmployeeStatus(row.Status)] = row.Count
	}
	return out, nil
}

var _ staff.EmployeeRepository = (*GormEmployeeRepository)(nil)
