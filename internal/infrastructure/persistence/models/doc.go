// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - sequence.go: document number counters
// - inventory.go: stock items
// - billing.go: invoices and walk-in invoices with their items
// - procurement.go: suppliers, purchase orders and receiving reports with their items
// - clinic.go, booking.go: clients, patients, appointments, booking attempts
// - finance.go, staff.go, identity.go, audit.go: supporting records
package models

// All returns every persistence model, in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&DocumentSequenceModel{},
		&StockItemModel{},
		&ClientModel{},
		&PatientModel{},
		&AppointmentModel{},
		&BookingAttemptModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&WalkInInvoiceModel{},
		&WalkInInvoiceItemModel{},
		&SupplierModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&ReceivingReportModel{},
		&ReceivingReportItemModel{},
		&ExpenseModel{},
		&CreditDepositModel{},
		&UserModel{},
		&EmployeeModel{},
		&AuditLogModel{},
	}
}
