package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// SupplierRequest carries the editable supplier fields. IsActive defaults to true.
type SupplierRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=200"`
	Phone         string `json:"phone" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	Address       string `json:"address" binding:"max=1000"`
	Notes         string `json:"notes" binding:"max=2000"`
	IsActive      *bool  `json:"is_active"`
}

func (r SupplierRequest) details() procurement.SupplierDetails {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return procurement.SupplierDetails{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		Notes:         r.Notes,
		IsActive:      active,
	}
}

// SupplierListFilter binds the supplier listing query. Suppliers sort by name unless asked otherwise.
type SupplierListFilter struct {
	query.PageQuery
	Active string `form:"active" binding:"omitempty,oneof=true false"`
}

// ToFilter converts to a repository filter
func (f SupplierListFilter) ToFilter() shared.Filter {
	if f.OrderBy == "" {
		f.OrderBy = "name"
		if f.OrderDir == "" {
			f.OrderDir = "asc"
		}
	}
	return f.PageQuery.Filter(map[string]string{"active": f.Active})
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// ToSupplierResponse converts a domain supplier to a response
func ToSupplierResponse(s *procurement.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Version:       s.Version,
	}
}

// DocumentRef is a short reference to a purchase order or receiving report
type DocumentRef struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SupplierDetailResponse is a supplier with its document counts and latest documents
type SupplierDetailResponse struct {
	SupplierResponse
	PurchaseOrderCount    int64         `json:"purchase_order_count"`
	ReceivingReportCount  int64         `json:"receiving_report_count"`
	RecentPurchaseOrders  []DocumentRef `json:"recent_purchase_orders"`
	RecentReceivingReport []DocumentRef `json:"recent_receiving_reports"`
}
