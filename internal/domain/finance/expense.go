package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// ExpenseCategory groups clinic operating expenses
type ExpenseCategory string

const (
	ExpenseCategoryUtilities      ExpenseCategory = "Utilities"
	ExpenseCategorySupplies       ExpenseCategory = "Supplies"
	ExpenseCategoryRent           ExpenseCategory = "Rent"
	ExpenseCategorySalaries       ExpenseCategory = "Salaries"
	ExpenseCategoryEquipment      ExpenseCategory = "Equipment"
	ExpenseCategoryMaintenance    ExpenseCategory = "Maintenance"
	ExpenseCategoryMarketing      ExpenseCategory = "Marketing"
	ExpenseCategoryTransportation ExpenseCategory = "Transportation"
	ExpenseCategoryOther          ExpenseCategory = "Other"
)

// ExpenseCategories returns the fixed category list in display order
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategoryUtilities,
		ExpenseCategorySupplies,
		ExpenseCategoryRent,
		ExpenseCategorySalaries,
		ExpenseCategoryEquipment,
		ExpenseCategoryMaintenance,
		ExpenseCategoryMarketing,
		ExpenseCategoryTransportation,
		ExpenseCategoryOther,
	}
}

// IsValid checks if the category is one of the fixed categories
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// Expense is an operating cost paid by the clinic
type Expense struct {
	shared.BaseAggregateRoot
	ExpenseNumber string
	Date          time.Time
	Category      ExpenseCategory
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
	Reference     string
	Notes         string
	CreatedBy     uuid.UUID
}

// ExpenseDetails carries the editable fields of an expense
type ExpenseDetails struct {
	Date          time.Time
	Category      ExpenseCategory
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
	Reference     string
	Notes         string
}

// Validate checks category, description and amount
func (d ExpenseDetails) Validate() error {
	if !d.Category.IsValid() {
		return shared.WrapDomainError("INVALID_CATEGORY", "Expense category must be one of: "+categoryList(), shared.ErrInvalidInput)
	}
	if strings.TrimSpace(d.Description) == "" {
		return shared.WrapDomainError("INVALID_DESCRIPTION", "Description is required", shared.ErrInvalidInput)
	}
	if !d.Amount.IsPositive() {
		return shared.WrapDomainError("INVALID_AMOUNT", "Amount must be positive", shared.ErrInvalidInput)
	}
	return nil
}

// NewExpense creates an expense with an already issued number
func NewExpense(number string, details ExpenseDetails, createdBy uuid.UUID) (*Expense, error) {
	if err := shared.RequireActor(createdBy); err != nil {
		return nil, err
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if details.Date.IsZero() {
		details.Date = time.Now()
	}
	e := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     number,
		CreatedBy:         createdBy,
	}
	e.apply(details)
	return e, nil
}

// Update replaces the editable fields; the number and author never change
func (e *Expense) Update(details ExpenseDetails) error {
	if details.Date.IsZero() {
		details.Date = e.Date
	}
	if err := details.Validate(); err != nil {
		return err
	}
	e.apply(details)
	e.Touch()
	e.IncrementVersion()
	return nil
}

func (e *Expense) apply(d ExpenseDetails) {
	e.Date = d.Date.UTC()
	e.Category = d.Category
	e.Description = strings.TrimSpace(d.Description)
	e.Amount = d.Amount
	e.PaymentMethod = d.PaymentMethod
	e.Reference = d.Reference
	e.Notes = d.Notes
}

// CategoryTotal is one row of the expense-by-category summary
type CategoryTotal struct {
	Category ExpenseCategory
	Count    int64
	Total    decimal.Decimal
}

// ExpenseStats summarises expenses over a date range
type ExpenseStats struct {
	ByCategory []CategoryTotal
	Total      decimal.Decimal
}

func categoryList() string {
	names := make([]string, 0, len(ExpenseCategories()))
	for _, c := range ExpenseCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
