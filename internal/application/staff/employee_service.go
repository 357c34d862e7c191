// Package staff manages employee records.
package staff

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	seqapp "github.com/vetclinic/backend/internal/application/sequence"
	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/identity"
	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/domain/staff"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// AuditModule is the audit log module name for employee records
const AuditModule = "Employees"

// EmployeeService manages employee records
type EmployeeService struct {
	scope          uow.TransactionScope
	repo           staff.EmployeeRepository
	users          identity.UserRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
	logger         *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(scope uow.TransactionScope, repo staff.EmployeeRepository, users identity.UserRepository, log *zap.Logger) *EmployeeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmployeeService{scope: scope, repo: repo, users: users, now: time.Now, logger: log}
}

// SetEventPublisher sets the publisher for audit events
func (s *EmployeeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records an employee under the next EMP number. A user account has at
// most one employee record.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest, actorID uuid.UUID) (*EmployeeResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	profile := req.profile()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if profile.DateHired.IsZero() {
		profile.DateHired = s.now()
	}
	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("INVALID_USER", "User account not found", shared.ErrInvalidInput)
		}
		return nil, err
	}

	var employee *staff.Employee
	_, err := seqapp.Issue(ctx, s.scope, sequence.SeriesEmployee, s.now(), func(repos uow.TransactionalRepositories, number string) error {
		exists, err := repos.EmployeeRepo().ExistsByUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		if exists {
			return shared.WrapDomainError(shared.ErrAlreadyExists.Code, "User already has an employee record", shared.ErrAlreadyExists)
		}
		employee, err = staff.NewEmployee(number, req.UserID, profile)
		if err != nil {
			return err
		}
		return repos.EmployeeRepo().Create(ctx, employee)
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("employee record created", zap.String("employee_number", employee.EmployeeNumber))
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionCreate, AuditModule, employee.ID, employee.EmployeeNumber, actorID).
			WithChanges(map[string]interface{}{"user_id": employee.UserID, "position": employee.Position}))

	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// GetByID retrieves an employee
func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// List lists employees
func (s *EmployeeService) List(ctx context.Context, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.repo.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out, total, nil
}

// Update replaces the employee's profile
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req ProfileRequest, actorID uuid.UUID) (*EmployeeResponse, error) {
	return s.change(ctx, id, actorID, func(e *staff.Employee) error {
		return e.Update(req.profile())
	})
}

// SetStatus changes the employment status. Terminated is final.
func (s *EmployeeService) SetStatus(ctx context.Context, id uuid.UUID, req SetStatusRequest, actorID uuid.UUID) (*EmployeeResponse, error) {
	return s.change(ctx, id, actorID, func(e *staff.Employee) error {
		status := staff.EmployeeStatus(req.Status)
		if status == staff.EmployeeTerminated {
			on := s.now()
			if req.DateTerminated != nil {
				on = *req.DateTerminated
			}
			return e.Terminate(on)
		}
		return e.SetStatus(status)
	})
}

// Deactivate terminates the employment today
func (s *EmployeeService) Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*EmployeeResponse, error) {
	return s.SetStatus(ctx, id, SetStatusRequest{Status: string(staff.EmployeeTerminated)}, actorID)
}

func (s *EmployeeService) change(ctx context.Context, id, actorID uuid.UUID, apply func(*staff.Employee) error) (*EmployeeResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := map[string]interface{}{"status": employee.Status, "position": employee.Position, "department": employee.Department}
	if err := apply(employee); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}

	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, AuditModule, employee.ID, employee.EmployeeNumber, actorID).
			WithChanges(map[string]interface{}{
				"before": before,
				"after":  map[string]interface{}{"status": employee.Status, "position": employee.Position, "department": employee.Department},
			}))

	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// Delete removes an employee record
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := shared.RequireActor(actorID); err != nil {
		return err
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionDelete, AuditModule, employee.ID, employee.EmployeeNumber, actorID))
	return nil
}

// Stats counts employees by status
func (s *EmployeeService) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := staff.Stats{
		Active:     counts[staff.EmployeeActive],
		OnLeave:    counts[staff.EmployeeOnLeave],
		Terminated: counts[staff.EmployeeTerminated],
	}
	stats.Total = stats.Active + stats.OnLeave + stats.Terminated
	return &StatsResponse{Total: stats.Total, Active: stats.Active, OnLeave: stats.OnLeave, Terminated: stats.Terminated}, nil
}

// Departments lists the clinic departments
func (s *EmployeeService) Departments() []string {
	return staff.Departments()
}
