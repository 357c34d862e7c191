// Package bootstrap wires repositories, services and handlers together.
package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	auditapp "github.com/vetclinic/backend/internal/application/audit"
	bookingapp "github.com/vetclinic/backend/internal/application/booking"
	clinicapp "github.com/vetclinic/backend/internal/application/clinic"
	docapp "github.com/vetclinic/backend/internal/application/document"
	finapp "github.com/vetclinic/backend/internal/application/finance"
	identityapp "github.com/vetclinic/backend/internal/application/identity"
	invapp "github.com/vetclinic/backend/internal/application/inventory"
	procapp "github.com/vetclinic/backend/internal/application/procurement"
	seqapp "github.com/vetclinic/backend/internal/application/sequence"
	staffapp "github.com/vetclinic/backend/internal/application/staff"
	"github.com/vetclinic/backend/internal/domain/booking"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/auth"
	"github.com/vetclinic/backend/internal/infrastructure/cache"
	"github.com/vetclinic/backend/internal/infrastructure/event"
	"github.com/vetclinic/backend/internal/infrastructure/metrics"
	"github.com/vetclinic/backend/internal/infrastructure/persistence"
	"github.com/vetclinic/backend/internal/interfaces/http/handler"
	"github.com/vetclinic/backend/internal/interfaces/http/router"
)

// Deps are the collaborators the services are built with. Metrics and
// IdempotencyStore are optional.
type Deps struct {
	Logger              *zap.Logger
	JWT                 *auth.JWTService
	Metrics             *metrics.Metrics
	IdempotencyStore    shared.IdempotencyStore
	IdempotencyTTL      time.Duration
	NegativeStockPolicy inventory.NegativeStockPolicy
	BookingPolicy       booking.Policy
	PhoneRegion         string
	Location            *time.Location
}

// Services holds every application service of the clinic
type Services struct {
	Bus        *event.InMemoryEventBus
	Audit      *auditapp.Service
	Auth       *identityapp.AuthService
	Booking    *bookingapp.Service
	Documents  *docapp.Reconciler
	Suppliers  *procapp.SupplierService
	Records    *clinicapp.RecordService
	StockItems *invapp.StockItemService
	Expenses   *finapp.ExpenseService
	Deposits   *finapp.CreditDepositService
	Employees  *staffapp.EmployeeService
	Sequences  *seqapp.Service
}

// NewServices builds the services over db and subscribes the audit trail to
// their change events. The event bus is started before returning.
func NewServices(ctx context.Context, db *gorm.DB, d Deps) (*Services, error) {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	scope := persistence.NewGormTransactionScope(db)

	var (
		ledgerOpts  []invapp.LedgerOption
		docOpts     = []docapp.Option{docapp.WithPhoneRegion(d.PhoneRegion)}
		bookingOpts = []bookingapp.Option{bookingapp.WithRegion(d.PhoneRegion), bookingapp.WithLocation(d.Location)}
		eventOpts   []event.IdempotentHandlerOption
	)
	if d.Metrics != nil {
		ledgerOpts = append(ledgerOpts, invapp.WithStockRecorder(d.Metrics))
		docOpts = append(docOpts, docapp.WithRecorder(d.Metrics))
		bookingOpts = append(bookingOpts, bookingapp.WithOutcomeRecorder(d.Metrics))
		eventOpts = append(eventOpts, event.WithOutcomeRecorder(d.Metrics))
	}
	if d.IdempotencyTTL > 0 {
		eventOpts = append(eventOpts, event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: d.IdempotencyTTL, Enabled: true}))
	}

	users := persistence.NewGormUserRepository(db)
	invoices := persistence.NewGormInvoiceRepository(db)
	orders := persistence.NewGormPurchaseOrderRepository(db)
	reports := persistence.NewGormReceivingReportRepository(db)

	s := &Services{
		Bus:   event.NewInMemoryEventBus(log.Named("events")),
		Audit: auditapp.NewService(persistence.NewGormAuditRepository(db), log.Named("audit")),
		Auth:  identityapp.NewAuthService(users, d.JWT, log.Named("auth")),
		Booking: bookingapp.NewService(scope,
			bookingapp.NewRateLimiter(persistence.NewGormBookingAttemptRepository(db), d.BookingPolicy),
			log.Named("booking"), bookingOpts...),
		Documents: docapp.NewReconciler(scope, invapp.NewLedger(d.NegativeStockPolicy, log.Named("ledger"), ledgerOpts...), docapp.Readers{
			Invoices:         invoices,
			WalkInInvoices:   persistence.NewGormWalkInInvoiceRepository(db),
			PurchaseOrders:   orders,
			ReceivingReports: reports,
		}, log.Named("documents"), docOpts...),
		Suppliers:  procapp.NewSupplierService(persistence.NewGormSupplierRepository(db), orders, reports, log.Named("suppliers")),
		Records:    clinicapp.NewRecordService(persistence.NewGormClientRepository(db), persistence.NewGormPatientRepository(db), persistence.NewGormAppointmentRepository(db), log.Named("clinic")),
		StockItems: invapp.NewStockItemService(persistence.NewGormStockItemRepository(db), log.Named("inventory")),
		Expenses:   finapp.NewExpenseService(scope, persistence.NewGormExpenseRepository(db), log.Named("expenses")),
		Deposits:   finapp.NewCreditDepositService(scope, persistence.NewGormCreditDepositRepository(db), invoices, log.Named("deposits")),
		Employees:  staffapp.NewEmployeeService(scope, persistence.NewGormEmployeeRepository(db), users, log.Named("employees")),
		Sequences:  seqapp.NewService(scope),
	}

	store := d.IdempotencyStore
	if store == nil {
		store = cache.NewInMemoryIdempotencyStore()
	}
	s.Bus.Subscribe(event.NewIdempotentHandler(auditapp.NewRecordChangedHandler(s.Audit), store, log.Named("audit"), eventOpts...))
	if err := s.Bus.Start(ctx); err != nil {
		return nil, err
	}

	s.Auth.SetEventPublisher(s.Bus)
	s.Documents.SetEventPublisher(s.Bus)
	s.Suppliers.SetEventPublisher(s.Bus)
	s.Records.SetEventPublisher(s.Bus)
	s.StockItems.SetEventPublisher(s.Bus)
	s.Expenses.SetEventPublisher(s.Bus)
	s.Deposits.SetEventPublisher(s.Bus)
	s.Employees.SetEventPublisher(s.Bus)
	return s, nil
}

// Handlers wraps the services in their HTTP handlers
func (s *Services) Handlers(health map[string]handler.HealthCheck) router.Handlers {
	return router.Handlers{
		Auth:      handler.NewAuthHandler(s.Auth),
		Booking:   handler.NewBookingHandler(s.Booking),
		Documents: handler.NewDocumentHandler(s.Documents),
		Suppliers: handler.NewSupplierHandler(s.Suppliers),
		Clinic:    handler.NewClinicHandler(s.Records),
		Inventory: handler.NewInventoryHandler(s.StockItems),
		Finance:   handler.NewFinanceHandler(s.Expenses, s.Deposits),
		Employees: handler.NewEmployeeHandler(s.Employees),
		Audit:     handler.NewAuditHandler(s.Audit),
		Sequences: handler.NewSequenceHandler(s.Sequences),
		Health:    handler.NewHealthHandler(health),
	}
}
