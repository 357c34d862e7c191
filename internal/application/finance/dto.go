package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/application/query"
	"github.com/vetclinic/backend/internal/domain/finance"
	"github.com/vetclinic/backend/internal/domain/shared"
)

// ExpenseRequest creates or replaces an expense
type ExpenseRequest struct {
	Date          *time.Time      `json:"date"`
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description" binding:"required,max=500"`
	Amount        decimal.Decimal `json:"amount" binding:"money"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	Reference     string          `json:"reference" binding:"max=100"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

func (r ExpenseRequest) details() finance.ExpenseDetails {
	d := finance.ExpenseDetails{
		Category:      finance.ExpenseCategory(r.Category),
		Description:   r.Description,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		Notes:         r.Notes,
	}
	if r.Date != nil {
		d.Date = *r.Date
	}
	return d
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	ExpenseNumber string          `json:"expense_number"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToExpenseResponse converts a domain expense to a response
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		ExpenseNumber: e.ExpenseNumber,
		Date:          e.Date,
		Category:      e.Category.String(),
		Description:   e.Description,
		Amount:        e.Amount,
		PaymentMethod: e.PaymentMethod,
		Reference:     e.Reference,
		Notes:         e.Notes,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Version:       e.Version,
	}
}

// ExpenseListFilter binds the expense listing query
type ExpenseListFilter struct {
	query.PageQuery
	Category string `form:"category"`
}

// ToFilter converts to a repository filter
func (f ExpenseListFilter) ToFilter() shared.Filter {
	return f.PageQuery.Filter(map[string]string{"category": f.Category})
}

// StatsQuery bounds a summary to a date range
type StatsQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// bounds returns the range with To extended to the end of its day
func (q StatsQuery) bounds() (*time.Time, *time.Time) {
	to := q.To
	if to != nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return q.From, to
}

// CategoryTotalResponse is one category row of the expense summary
type CategoryTotalResponse struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseStatsResponse summarises expenses by category
type ExpenseStatsResponse struct {
	ByCategory []CategoryTotalResponse `json:"by_category"`
	Total      decimal.Decimal         `json:"total"`
}

// CreateCreditDepositRequest records money left by a client
type CreateCreditDepositRequest struct {
	ClientID  uuid.UUID       `json:"client_id" binding:"required"`
	Date      *time.Time      `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes" binding:"max=2000"`
}

// ApplyCreditDepositRequest settles an invoice with a deposit
type ApplyCreditDepositRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}

// CreditDepositResponse represents a deposit in API responses
type CreditDepositResponse struct {
	ID            uuid.UUID       `json:"id"`
	DepositNumber string          `json:"deposit_number"`
	ClientID      uuid.UUID       `json:"client_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	ReceivedBy    uuid.UUID       `json:"received_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToCreditDepositResponse converts a domain deposit to a response
func ToCreditDepositResponse(d *finance.CreditDeposit) CreditDepositResponse {
	return CreditDepositResponse{
		ID:            d.ID,
		DepositNumber: d.DepositNumber,
		ClientID:      d.ClientID,
		Date:          d.Date,
		Amount:        d.Amount,
		Reference:     d.Reference,
		Notes:         d.Notes,
		Status:        string(d.Status),
		InvoiceID:     d.InvoiceID,
		ReceivedBy:    d.ReceivedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Version:       d.Version,
	}
}

// CreditDepositListFilter binds the deposit listing query
type CreditDepositListFilter struct {
	query.PageQuery
	Status   string `form:"status" binding:"omitempty,oneof=Pending Applied Refunded"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
}

// ToFilter converts to a repository filter
func (f CreditDepositListFilter) ToFilter() shared.Filter {
	return f.PageQuery.Filter(map[string]string{"status": f.Status, "client_id": f.ClientID})
}

// ClientBalanceResponse is the unapplied deposit total of a client
type ClientBalanceResponse struct {
	ClientID uuid.UUID       `json:"client_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// DepositStatsResponse sums deposits by status
type DepositStatsResponse struct {
	Total    decimal.Decimal `json:"total"`
	Pending  decimal.Decimal `json:"pending"`
	Applied  decimal.Decimal `json:"applied"`
	Refunded decimal.Decimal `json:"refunded"`
}
