// Package uow defines the transaction boundary application services run their
// multi-repository writes in.
package uow

import (
	"context"

	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/booking"
	"github.com/vetclinic/backend/internal/domain/clinic"
	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/sequence"
	"github.com/vetclinic/backend/internal/domain/staff"
)

// TransactionalRepositories provides repositories bound to one transaction
type TransactionalRepositories interface {
	CounterRepo() sequence.CounterRepository
	NumberHistory() sequence.NumberHistory
	StockItemRepo() inventory.StockItemRepository
	InvoiceRepo() billing.InvoiceRepository
	WalkInInvoiceRepo() billing.WalkInInvoiceRepository
	SupplierRepo() procurement.SupplierRepository
	PurchaseOrderRepo() procurement.PurchaseOrderRepository
	ReceivingReportRepo() procurement.ReceivingReportRepository
	ClientRepo() clinic.ClientRepository
	PatientRepo() clinic.PatientRepository
	AppointmentRepo() clinic.AppointmentRepository
	BookingAttemptRepo() booking.AttemptRepository
	ExpenseRepo() finance.ExpenseRepository
	CreditDepositRepo() finance.CreditDepositRepository
	EmployeeRepo() staff.EmployeeRepository
}

// TransactionScope runs fn atomically. If fn returns an error every write
// made through the supplied repositories is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
