package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	seqapp "github.com/vetclinic/backend/internal/application/sequence"
	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
)

// CreditDepositService manages client credit deposits
type CreditDepositService struct {
	scope          uow.TransactionScope
	repo           finance.CreditDepositRepository
	invoices       billing.InvoiceRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
	logger         *zap.Logger
}

// NewCreditDepositService creates a new CreditDepositService
func NewCreditDepositService(scope uow.TransactionScope, repo finance.CreditDepositRepository, invoices billing.InvoiceRepository, log *zap.Logger) *CreditDepositService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreditDepositService{scope: scope, repo: repo, invoices: invoices, now: time.Now, logger: log}
}

// SetEventPublisher sets the publisher for audit events
func (s *CreditDepositService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a pending deposit under the next CD number
func (s *CreditDepositService) Create(ctx context.Context, req CreateCreditDepositRequest, actorID uuid.UUID) (*CreditDepositResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	date := s.now()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}
	// validate before a number is consumed
	if _, err := finance.NewCreditDeposit("", req.ClientID, date, req.Amount, req.Reference, req.Notes, actorID); err != nil {
		return nil, err
	}

	var deposit *finance.CreditDeposit
	_, err := seqapp.Issue(ctx, s.scope, sequence.SeriesCreditDeposit, s.now(), func(repos uow.TransactionalRepositories, number string) error {
		var err error
		deposit, err = finance.NewCreditDeposit(number, req.ClientID, date, req.Amount, req.Reference, req.Notes, actorID)
		if err != nil {
			return err
		}
		return repos.CreditDepositRepo().Create(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("credit deposit received",
		zap.String("deposit_number", deposit.DepositNumber),
		zap.String("client_id", deposit.ClientID.String()),
	)
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionCreate, CreditDepositAuditModule, deposit.ID, deposit.DepositNumber, actorID).
			WithChanges(map[string]interface{}{"client_id": deposit.ClientID, "amount": deposit.Amount.String()}))

	resp := ToCreditDepositResponse(deposit)
	return &resp, nil
}

// GetByID retrieves a deposit
func (s *CreditDepositService) GetByID(ctx context.Context, id uuid.UUID) (*CreditDepositResponse, error) {
	deposit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCreditDepositResponse(deposit)
	return &resp, nil
}

// List lists deposits
func (s *CreditDepositService) List(ctx context.Context, filter CreditDepositListFilter) ([]CreditDepositResponse, int64, error) {
	deposits, total, err := s.repo.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]CreditDepositResponse, len(deposits))
	for i := range deposits {
		out[i] = ToCreditDepositResponse(&deposits[i])
	}
	return out, total, nil
}

// ClientBalance sums the client's pending deposits
func (s *CreditDepositService) ClientBalance(ctx context.Context, clientID uuid.UUID) (*ClientBalanceResponse, error) {
	balance, err := s.repo.PendingBalance(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientBalanceResponse{ClientID: clientID, Balance: balance}, nil
}

// Apply settles an existing invoice with a pending deposit
func (s *CreditDepositService) Apply(ctx context.Context, id uuid.UUID, req ApplyCreditDepositRequest, actorID uuid.UUID) (*CreditDepositResponse, error) {
	return s.change(ctx, id, actorID, func(deposit *finance.CreditDeposit) error {
		exists, err := s.invoices.Exists(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.WrapDomainError(shared.ErrNotFound.Code, "Invoice not found", shared.ErrNotFound)
		}
		return deposit.ApplyTo(req.InvoiceID)
	})
}

// Refund returns a pending deposit to the client
func (s *CreditDepositService) Refund(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*CreditDepositResponse, error) {
	return s.change(ctx, id, actorID, func(deposit *finance.CreditDeposit) error {
		return deposit.Refund()
	})
}

func (s *CreditDepositService) change(ctx context.Context, id, actorID uuid.UUID, transition func(*finance.CreditDeposit) error) (*CreditDepositResponse, error) {
	if err := shared.RequireActor(actorID); err != nil {
		return nil, err
	}
	deposit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := deposit.Status
	if err := transition(deposit); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, deposit); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{"status": map[string]interface{}{"before": before, "after": deposit.Status}}
	if deposit.InvoiceID != nil {
		changes["invoice_id"] = deposit.InvoiceID.String()
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionUpdate, CreditDepositAuditModule, deposit.ID, deposit.DepositNumber, actorID).
			WithChanges(changes))

	resp := ToCreditDepositResponse(deposit)
	return &resp, nil
}

// Delete removes a deposit
func (s *CreditDepositService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := shared.RequireActor(actorID); err != nil {
		return err
	}
	deposit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditapp.Publish(ctx, s.eventPublisher, s.logger,
		audit.NewRecordChanged(audit.ActionDelete, CreditDepositAuditModule, deposit.ID, deposit.DepositNumber, actorID))
	return nil
}

// Stats sums deposits by status over the range
func (s *CreditDepositService) Stats(ctx context.Context, q StatsQuery) (*DepositStatsResponse, error) {
	from, to := q.bounds()
	sums, err := s.repo.SumByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}
	stats := finance.DepositStats{
		Pending:  sums[finance.DepositPending],
		Applied:  sums[finance.DepositApplied],
		Refunded: sums[finance.DepositRefunded],
	}
	stats.Total = stats.Pending.Add(stats.Applied).Add(stats.Refunded)
	return &DepositStatsResponse{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Applied:  stats.Applied,
		Refunded: stats.Refunded,
	}, nil
}
