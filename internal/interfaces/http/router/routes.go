package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vetclinic/backend/docs"
	docdomain "github.com/vetclinic/backend/internal/domain/document"
	"github.com/vetclinic/backend/internal/infrastructure/auth"
	"github.com/vetclinic/backend/internal/infrastructure/config"
	"github.com/vetclinic/backend/internal/infrastructure/logger"
	"github.com/vetclinic/backend/internal/infrastructure/metrics"
	"github.com/vetclinic/backend/internal/interfaces/http/handler"
	"github.com/vetclinic/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers the API is built from
type Handlers struct {
	Auth      *handler.AuthHandler
	Booking   *handler.BookingHandler
	Documents *handler.DocumentHandler
	Suppliers *handler.SupplierHandler
	Clinic    *handler.ClinicHandler
	Inventory *handler.InventoryHandler
	Finance   *handler.FinanceHandler
	Employees *handler.EmployeeHandler
	Audit     *handler.AuditHandler
	Sequences *handler.SequenceHandler
	Health    *handler.HealthHandler
}

// Options carries the cross-cutting dependencies of the API
type Options struct {
	HTTP           config.HTTPConfig
	ServiceName    string
	TracingEnabled bool
	JWT            *auth.JWTService
	Metrics        *metrics.Metrics
	Audit          middleware.AuditRecorder
	Swagger        config.SwaggerConfig
	Logger         *zap.Logger
}

// New builds the gin engine with every route of the clinic API. The returned
// stop function releases the in-process rate limiters.
func New(opts Options, h Handlers) (*gin.Engine, func()) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(opts.HTTP)))
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	if opts.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(opts.Metrics))
	}
	engine.Use(middleware.Tracing(opts.ServiceName, opts.TracingEnabled))

	var limiters []*middleware.RateLimiter
	if opts.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", opts.HTTP.RateLimitRequests),
			zap.Duration("window", opts.HTTP.RateLimitWindow),
		)
	}
	// ten sign-in attempts per address per minute, regardless of the global limit
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	limiters = append(limiters, loginLimiter)

	engine.GET("/health", h.Health.Health)
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	jwtConfig := middleware.DefaultJWTConfig(opts.JWT)
	jwtConfig.Logger = log
	requireToken := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(opts.Swagger, requireToken),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(publicRoutes(h))
	r.Register(authRoutes(h, loginLimiter)...)
	r.Register(documentRoutes(h)...)
	r.Register(supplierRoutes(h))
	r.Register(clinicRoutes(h)...)
	r.Register(inventoryRoutes(h))
	r.Register(financeRoutes(h)...)
	r.Register(staffRoutes(h))
	r.Register(auditRoutes(h))
	r.Register(sequenceRoutes(h))

	r.Use(requireToken)
	r.Use(middleware.TracingAttributes())
	if opts.Audit != nil {
		r.Use(middleware.AuditFailures(opts.Audit, r.AuditModules()))
	}
	r.Setup()

	return engine, func() {
		for _, l := range limiters {
			l.Stop()
		}
	}
}

// publicRoutes need no token; the JWT middleware skips the /public prefix
func publicRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("Appointments", "/public")
	g.POST("/book-appointment", h.Booking.Book)
	return g
}

func authRoutes(h Handlers, loginLimiter *middleware.RateLimiter) []RouteRegistrar {
	session := NewDomainGroup("Users", "/auth")
	session.POST("/login", middleware.AuthRateLimit(loginLimiter), h.Auth.Login)
	session.GET("/me", h.Auth.Me)
	session.PUT("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("Users", "/users")
	users.POST("", middleware.RequirePermission("users.manage"), h.Auth.CreateUser)

	return []RouteRegistrar{session, users}
}

func documentRoutes(h Handlers) []RouteRegistrar {
	d := h.Documents

	invoices := NewDomainGroup(docdomain.KindInvoice.Module(), "/invoices")
	invoices.GET("", middleware.RequirePermission("invoices.view"), d.ListInvoices)
	invoices.POST("", middleware.RequirePermission("invoices.create"), d.CreateInvoice)
	invoices.GET("/:id", middleware.RequirePermission("invoices.view"), d.GetInvoice)
	invoices.PUT("/:id/status", middleware.RequirePermission("invoices.edit"), d.UpdateInvoiceStatus)
	invoices.DELETE("/:id", middleware.RequirePermission("invoices.delete"), d.DeleteInvoice)

	walkIns := NewDomainGroup(docdomain.KindWalkInInvoice.Module(), "/walk-in-invoices")
	walkIns.GET("", middleware.RequirePermission("invoices.view"), d.ListWalkInInvoices)
	walkIns.POST("", middleware.RequirePermission("invoices.create"), d.CreateWalkInInvoice)
	walkIns.GET("/:id", middleware.RequirePermission("invoices.view"), d.GetWalkInInvoice)
	walkIns.PUT("/:id", middleware.RequirePermission("invoices.edit"), d.UpdateWalkInInvoice)
	walkIns.POST("/:id/pay", middleware.RequireAnyPermission("invoices.edit", "invoices.create"), d.PayWalkInInvoice)
	walkIns.DELETE("/:id", middleware.RequirePermission("invoices.delete"), d.DeleteWalkInInvoice)

	orders := NewDomainGroup(docdomain.KindPurchaseOrder.Module(), "/purchase-orders")
	orders.GET("", middleware.RequirePermission("procurement.view"), d.ListPurchaseOrders)
	orders.POST("", middleware.RequirePermission("procurement.create"), d.CreatePurchaseOrder)
	orders.GET("/:id", middleware.RequirePermission("procurement.view"), d.GetPurchaseOrder)
	orders.PUT("/:id", middleware.RequirePermission("procurement.edit"), d.UpdatePurchaseOrder)
	orders.POST("/:id/approve", middleware.RequirePermission("procurement.edit"), d.ApprovePurchaseOrder)
	orders.POST("/:id/cancel", middleware.RequirePermission("procurement.edit"), d.CancelPurchaseOrder)
	orders.DELETE("/:id", middleware.RequirePermission("procurement.delete"), d.DeletePurchaseOrder)

	reports := NewDomainGroup(docdomain.KindReceivingReport.Module(), "/receiving-reports")
	reports.GET("", middleware.RequirePermission("procurement.view"), d.ListReceivingReports)
	reports.POST("", middleware.RequirePermission("procurement.create"), d.CreateReceivingReport)
	reports.GET("/:id", middleware.RequirePermission("procurement.view"), d.GetReceivingReport)
	reports.DELETE("/:id", middleware.RequirePermission("procurement.delete"), d.DeleteReceivingReport)

	return []RouteRegistrar{invoices, walkIns, orders, reports}
}

func supplierRoutes(h Handlers) *DomainGroup {
	s := h.Suppliers
	g := NewDomainGroup("Suppliers", "/suppliers")
	g.GET("", middleware.RequirePermission("procurement.view"), s.List)
	g.POST("", middleware.RequirePermission("procurement.create"), s.Create)
	g.GET("/active", middleware.RequireAnyPermission("procurement.view", "procurement.create"), s.Active)
	g.GET("/:id", middleware.RequirePermission("procurement.view"), s.GetByID)
	g.PUT("/:id", middleware.RequirePermission("procurement.edit"), s.Update)
	g.DELETE("/:id", middleware.RequirePermission("procurement.delete"), s.Delete)
	return g
}

func clinicRoutes(h Handlers) []RouteRegistrar {
	c := h.Clinic

	clients := NewDomainGroup("Clients", "/clients")
	clients.GET("", middleware.RequirePermission("clients.view"), c.ListClients)
	clients.GET("/:id", middleware.RequirePermission("clients.view"), c.GetClient)
	clients.POST("/:id/confirm-email", middleware.RequirePermission("clients.edit"), c.VerifyClientEmail)

	patients := NewDomainGroup("Clients", "/patients")
	patients.Use(middleware.RequirePermission("clients.view"))
	patients.GET("", c.ListPatients)
	patients.GET("/:id", c.GetPatient)

	appointments := NewDomainGroup("Appointments", "/appointments")
	appointments.GET("", middleware.RequirePermission("appointments.view"), c.ListAppointments)
	appointments.GET("/:id", middleware.RequirePermission("appointments.view"), c.GetAppointment)
	appointments.PUT("/:id/status", middleware.RequirePermission("appointments.edit"), c.UpdateAppointmentStatus)

	return []RouteRegistrar{clients, patients, appointments}
}

func inventoryRoutes(h Handlers) *DomainGroup {
	i := h.Inventory
	g := NewDomainGroup("Inventory", "/inventory")
	g.GET("", middleware.RequirePermission("inventory.view"), i.List)
	g.POST("", middleware.RequirePermission("inventory.create"), i.Create)
	g.GET("/low-stock", middleware.RequirePermission("inventory.view"), i.LowStock)
	g.GET("/low-stock/export", middleware.RequireAnyPermission("inventory.view", "reports.view"), i.ExportLowStock)
	g.GET("/:id", middleware.RequirePermission("inventory.view"), i.GetByID)
	g.PUT("/:id", middleware.RequirePermission("inventory.edit"), i.Update)
	g.DELETE("/:id", middleware.RequirePermission("inventory.delete"), i.Delete)
	return g
}

func financeRoutes(h Handlers) []RouteRegistrar {
	f := h.Finance

	expenses := NewDomainGroup("Expenses", "/finance/expenses")
	expenses.GET("", middleware.RequirePermission("finance.view"), f.ListExpenses)
	expenses.POST("", middleware.RequirePermission("finance.create"), f.CreateExpense)
	expenses.GET("/stats", middleware.RequirePermission("finance.view"), f.ExpenseStats)
	expenses.GET("/categories", middleware.RequirePermission("finance.view"), f.ExpenseCategories)
	expenses.GET("/:id", middleware.RequirePermission("finance.view"), f.GetExpense)
	expenses.PUT("/:id", middleware.RequirePermission("finance.edit"), f.UpdateExpense)
	expenses.DELETE("/:id", middleware.RequirePermission("finance.delete"), f.DeleteExpense)

	deposits := NewDomainGroup("Credit Deposits", "/finance/credit-deposits")
	deposits.GET("", middleware.RequirePermission("finance.view"), f.ListDeposits)
	deposits.POST("", middleware.RequirePermission("finance.create"), f.CreateDeposit)
	deposits.GET("/stats", middleware.RequirePermission("finance.view"), f.DepositStats)
	deposits.GET("/:id", middleware.RequirePermission("finance.view"), f.GetDeposit)
	deposits.POST("/:id/apply", middleware.RequirePermission("finance.edit"), f.ApplyDeposit)
	deposits.POST("/:id/refund", middleware.RequirePermission("finance.edit"), f.RefundDeposit)
	deposits.DELETE("/:id", middleware.RequirePermission("finance.delete"), f.DeleteDeposit)

	balances := NewDomainGroup("Credit Deposits", "/finance/clients")
	balances.GET("/:clientId/balance", middleware.RequirePermission("finance.view"), f.ClientBalance)

	return []RouteRegistrar{expenses, deposits, balances}
}

func staffRoutes(h Handlers) *DomainGroup {
	e := h.Employees
	g := NewDomainGroup("Employees", "/employees")
	g.Use(middleware.RequirePermission("employees.manage"))
	g.GET("", e.List)
	g.POST("", e.Create)
	g.GET("/stats", e.Stats)
	g.GET("/departments", e.Departments)
	g.GET("/:id", e.GetByID)
	g.PUT("/:id", e.Update)
	g.PUT("/:id/status", e.SetStatus)
	g.POST("/:id/deactivate", e.Deactivate)
	g.DELETE("/:id", e.Delete)
	return g
}

func auditRoutes(h Handlers) *DomainGroup {
	a := h.Audit
	g := NewDomainGroup("Audit", "/audit-logs")
	g.Use(middleware.RequirePermission("audit.view"))
	g.GET("", a.List)
	g.GET("/records/:recordId", a.ForRecord)
	g.GET("/:id", a.Get)
	return g
}

func sequenceRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("Sequences", "/sequences")
	g.GET("/:series/next",
		middleware.RequireAnyPermission("invoices.create", "procurement.create", "finance.create", "employees.manage"),
		h.Sequences.NextNumber)
	return g
}
