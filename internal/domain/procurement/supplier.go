package procurement

import (
	"strings"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// SupplierDetails are the editable fields of a supplier
type SupplierDetails struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Notes         string
	IsActive      bool
}

func (d SupplierDetails) normalized() (SupplierDetails, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, shared.WrapDomainError("INVALID_NAME", "Supplier name is required", shared.ErrInvalidInput)
	}
	d.ContactPerson = strings.TrimSpace(d.ContactPerson)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Address = strings.TrimSpace(d.Address)
	return d, nil
}

// Supplier is a vendor purchase orders are placed with and deliveries come from
type Supplier struct {
	shared.BaseAggregateRoot
	SupplierDetails
}

// NewSupplier creates a supplier
func NewSupplier(details SupplierDetails) (*Supplier, error) {
	details, err := details.normalized()
	if err != nil {
		return nil, err
	}
	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierDetails:   details,
	}, nil
}

// Update replaces the supplier's details
func (s *Supplier) Update(details SupplierDetails) error {
	details, err := details.normalized()
	if err != nil {
		return err
	}
	s.SupplierDetails = details
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SupplierUsage counts the documents that reference a supplier
type SupplierUsage struct {
	PurchaseOrders   int64
	ReceivingReports int64
}

// InUse reports whether any document still names the supplier
func (u SupplierUsage) InUse() bool {
	return u.PurchaseOrders > 0 || u.ReceivingReports > 0
}
