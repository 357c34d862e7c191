package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/booking"
	"github.com/vetclinic/backend/internal/domain/clinic"
	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/domain/staff"
)

// GormTransactionScope implements uow.TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos uow.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) CounterRepo() sequence.CounterRepository {
	return NewGormSequenceRepository(r.tx)
}

func (r *gormTransactionalRepositories) NumberHistory() sequence.NumberHistory {
	return NewGormSequenceRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockItemRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) WalkInInvoiceRepo() billing.WalkInInvoiceRepository {
	return NewGormWalkInInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) SupplierRepo() procurement.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseOrderRepo() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReceivingReportRepo() procurement.ReceivingReportRepository {
	return NewGormReceivingReportRepository(r.tx)
}

func (r *gormTransactionalRepositories) ClientRepo() clinic.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormTransactionalRepositories) PatientRepo() clinic.PatientRepository {
	return NewGormPatientRepository(r.tx)
}

func (r *gormTransactionalRepositories) AppointmentRepo() clinic.AppointmentRepository {
	return NewGormAppointmentRepository(r.tx)
}

func (r *gormTransactionalRepositories) BookingAttemptRepo() booking.AttemptRepository {
	return NewGormBookingAttemptRepository(r.tx)
}

func (r *gormTransactionalRepositories) ExpenseRepo() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

func (r *gormTransactionalRepositories) CreditDepositRepo() finance.CreditDepositRepository {
	return NewGormCreditDepositRepository(r.tx)
}

func (r *gormTransactionalRepositories) EmployeeRepo() staff.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

var (
	_ uow.TransactionScope          = (*GormTransactionScope)(nil)
	_ uow.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
