package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyOrderAndPage adds a whitelisted ORDER BY and LIMIT/OFFSET to query
func applyOrderAndPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern wraps a search term for a case-insensitive LIKE on lowered columns
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"code":              true,
	"name":              true,
	"kind":              true,
	"quantity_on_hand":  true,
	"reorder_threshold": true,
	"unit_price":        true,
}

// InvoiceSortFields contains allowed sort fields for invoices and walk-in invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"date":           true,
	"status":         true,
	"total_amount":   true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"is_active":  true,
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
}

// PatientSortFields contains allowed sort fields for patients
var PatientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"species":    true,
}

// AppointmentSortFields contains allowed sort fields for appointments
var AppointmentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"date_time":  true,
	"status":     true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"po_number":     true,
	"order_date":    true,
	"expected_date": true,
	"status":        true,
	"total_amount":  true,
}

// ReceivingReportSortFields contains allowed sort fields for receiving reports
var ReceivingReportSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"rr_number":    true,
	"receive_date": true,
	"total_amount": true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"expense_number": true,
	"date":           true,
	"category":       true,
	"amount":         true,
}

// CreditDepositSortFields contains allowed sort fields for credit deposits
var CreditDepositSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"deposit_number": true,
	"date":           true,
	"status":         true,
	"amount":         true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"employee_number": true,
	"date_hired":      true,
	"position":        true,
	"department":      true,
	"status":          true,
}
