// Package finance records clinic expenses and client credit deposits.
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	seqapp "github.com/vetclinic/backend/internal/application/sequence"
	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// Audit module names
const (
	ExpenseAuditModule       = "Expenses"
	CreditDepositAuditModule = "Credit Deposits"
)

// ExpenseService manages clinic expenses
type ExpenseService struct {
	scope          uow.TransactionScope
	repo           finance.ExpenseRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
	logger         *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(scope uow.TransactionScope, repo finance.ExpenseRepository, log *zap.Logger) *ExpenseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpenseService{scope: scope, repo: repo, now: time.Now, logger: log}
}

// SetEventPublisher sets the publisher for audit events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records an expense under the next EXP number
func (s *ExpenseService) Create(ctx context.Context, req ExpenseRequest, actorID uuid.UUID) (*ExpenseResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	details := req.details()
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if details.Date.IsZero() {
		details.Date = s.now()
	}

	var expense *finance.Expense
	_, err := seqapp.Issue(ctx, s.scope, sequence.SeriesExpense, s.now(), func(repos uow.TransactionalRepositories, number string) error {
		var err error
		expense, err = finance.NewExpense(number, details, actorID)
		if err != nil {
			return err
		}
		return repos.ExpenseRepo().Create(ctx, expense)
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("expense recorded",
		zap.String("expense_number", expense.ExpenseNumber),
		zap.String("category", expense.Category.String()),
	)
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionCreate, ExpenseAuditModule, expense.ID, expense.ExpenseNumber, actorID).
			WithChanges(map[string]interface{}{"category": expense.Category, "amount": expense.Amount.String()}))

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// GetByID retrieves an expense
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// List lists expenses
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	expenses, total, err := s.repo.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return out, total, nil
}

// Update replaces the editable fields of an expense
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req ExpenseRequest, actorID uuid.UUID) (*ExpenseResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := map[string]interface{}{"category": expense.Category, "amount": expense.Amount.String()}
	if err := expense.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}

	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, ExpenseAuditModule, expense.ID, expense.ExpenseNumber, actorID).
			WithChanges(map[string]interface{}{
				"before": before,
				"after":  map[string]interface{}{"category": expense.Category, "amount": expense.Amount.String()},
			}))

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense. Its number is not reissued.
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := shared.RequireActor(actorID); err != nil {
		return err
	}
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionDelete, ExpenseAuditModule, expense.ID, expense.ExpenseNumber, actorID))
	return nil
}

// Stats sums expenses per category over the range
func (s *ExpenseService) Stats(ctx context.Context, q StatsQuery) (*ExpenseStatsResponse, error) {
	from, to := q.bounds()
	rows, err := s.repo.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := &ExpenseStatsResponse{ByCategory: make([]CategoryTotalResponse, 0, len(rows)), Total: decimal.Zero}
	for _, row := range rows {
		resp.ByCategory = append(resp.ByCategory, CategoryTotalResponse{
			Category: row.Category.String(),
			Count:    row.Count,
			Total:    row.Total,
		})
		resp.Total = resp.Total.Add(row.Total)
	}
	return resp, nil
}

// Categories returns the fixed expense categories
func (s *ExpenseService) Categories() []string {
	categories := finance.ExpenseCategories()
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.String()
	}
	return out
}
