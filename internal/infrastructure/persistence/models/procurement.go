package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/procurement"
)

// SupplierModel is the persistence model for the Supplier aggregate root.
type SupplierModel struct {
	AggregateModel
	Name          string `gorm:"type:varchar(200);not null;index"`
	ContactPerson string `gorm:"type:varchar(200)"`
	Phone         string `gorm:"type:varchar(50)"`
	Email         string `gorm:"type:varchar(200);index"`
	Address       string `gorm:"type:text"`
	Notes         string `gorm:"type:text"`
	IsActive      bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier.
func (m *SupplierModel) ToDomain() *procurement.Supplier {
	return &procurement.Supplier{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SupplierDetails: procurement.SupplierDetails{
			Name:          m.Name,
			ContactPerson: m.ContactPerson,
			Phone:         m.Phone,
			Email:         m.Email,
			Address:       m.Address,
			Notes:         m.Notes,
			IsActive:      m.IsActive,
		},
	}
}

// SupplierModelFromDomain creates a persistence model from a domain Supplier.
func SupplierModelFromDomain(s *procurement.Supplier) *SupplierModel {
	m := &SupplierModel{
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	PONumber     string                   `gorm:"column:po_number;type:varchar(30);not null;uniqueIndex"`
	SupplierID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	Supplier     *SupplierModel           `gorm:"foreignKey:SupplierID;references:ID;constraint:OnDelete:RESTRICT"`
	OrderDate    time.Time                `gorm:"not null;index"`
	ExpectedDate *time.Time
	Status       string                   `gorm:"type:varchar(30);not null;index"`
	TotalAmount  decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	Notes        string                   `gorm:"type:text"`
	CreatedBy    uuid.UUID                `gorm:"type:uuid;not null;index"`
	ApprovedAt   *time.Time
	Items        []PurchaseOrderItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItemModel is an ordered line with its cumulative received quantity
type PurchaseOrderItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName         string          `gorm:"type:varchar(200)"`
	OrderedQuantity  int             `gorm:"not null"`
	ReceivedQuantity int             `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	po := &procurement.PurchaseOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PONumber:          m.PONumber,
		SupplierID:        m.SupplierID,
		OrderDate:         m.OrderDate,
		ExpectedDate:      m.ExpectedDate,
		Status:            procurement.PurchaseOrderStatus(m.Status),
		TotalAmount:       m.TotalAmount,
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
		ApprovedAt:        m.ApprovedAt,
		Items:             make([]procurement.PurchaseOrderItem, len(m.Items)),
	}
	for i, it := range m.Items {
		po.Items[i] = procurement.PurchaseOrderItem{
			ID:               it.ID,
			PurchaseOrderID:  it.PurchaseOrderID,
			ItemID:           it.ItemID,
			ItemName:         it.ItemName,
			OrderedQuantity:  it.OrderedQuantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitPrice:        it.UnitPrice,
			Subtotal:         it.Subtotal,
			CreatedAt:        it.CreatedAt,
		}
	}
	return po
}

// PurchaseOrderModelFromDomain creates a persistence model, items included
func PurchaseOrderModelFromDomain(po *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		PONumber:     po.PONumber,
		SupplierID:   po.SupplierID,
		OrderDate:    po.OrderDate,
		ExpectedDate: po.ExpectedDate,
		Status:       string(po.Status),
		TotalAmount:  po.TotalAmount,
		Notes:        po.Notes,
		CreatedBy:    po.CreatedBy,
		ApprovedAt:   po.ApprovedAt,
		Items:        make([]PurchaseOrderItemModel, len(po.Items)),
	}
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	for i, it := range po.Items {
		m.Items[i] = PurchaseOrderItemModel{
			ID:               it.ID,
			PurchaseOrderID:  po.ID,
			ItemID:           it.ItemID,
			ItemName:         it.ItemName,
			OrderedQuantity:  it.OrderedQuantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitPrice:        it.UnitPrice,
			Subtotal:         it.Subtotal,
			CreatedAt:        it.CreatedAt,
		}
	}
	return m
}

// ReceivingReportModel is the persistence model for the ReceivingReport aggregate root.
type ReceivingReportModel struct {
	AggregateModel
	RRNumber        string                     `gorm:"column:rr_number;type:varchar(30);not null;uniqueIndex"`
	ReceiveDate     time.Time                  `gorm:"not null;index"`
	SupplierID      uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Supplier        *SupplierModel             `gorm:"foreignKey:SupplierID;references:ID;constraint:OnDelete:RESTRICT"`
	PurchaseOrderID *uuid.UUID                 `gorm:"type:uuid;index"`
	TotalAmount     decimal.Decimal            `gorm:"type:decimal(12,2);not null"`
	Notes           string                     `gorm:"type:text"`
	ReceivedBy      uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Items           []ReceivingReportItemModel `gorm:"foreignKey:ReceivingReportID;references:ID"`
}

// TableName returns the table name for GORM
func (ReceivingReportModel) TableName() string {
	return "receiving_reports"
}

// ReceivingReportItemModel is a received line of a receiving report
type ReceivingReportItemModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceivingReportID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName          string          `gorm:"type:varchar(200)"`
	QuantityReceived  int             `gorm:"not null"`
	QuantityRejected  int             `gorm:"not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes             string          `gorm:"type:text"`
	CreatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceivingReportItemModel) TableName() string {
	return "receiving_report_items"
}

// ToDomain converts the persistence model to a domain ReceivingReport.
func (m *ReceivingReportModel) ToDomain() *procurement.ReceivingReport {
	rr := &procurement.ReceivingReport{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RRNumber:          m.RRNumber,
		ReceiveDate:       m.ReceiveDate,
		SupplierID:        m.SupplierID,
		PurchaseOrderID:   m.PurchaseOrderID,
		TotalAmount:       m.TotalAmount,
		Notes:             m.Notes,
		ReceivedBy:        m.ReceivedBy,
		Items:             make([]procurement.ReceivingReportItem, len(m.Items)),
	}
	for i, it := range m.Items {
		rr.Items[i] = procurement.ReceivingReportItem{
			ID:                it.ID,
			ReceivingReportID: it.ReceivingReportID,
			ItemID:            it.ItemID,
			ItemName:          it.ItemName,
			QuantityReceived:  it.QuantityReceived,
			QuantityRejected:  it.QuantityRejected,
			UnitPrice:         it.UnitPrice,
			Subtotal:          it.Subtotal,
			Notes:             it.Notes,
			CreatedAt:         it.CreatedAt,
		}
	}
	return rr
}

// ReceivingReportModelFromDomain creates a persistence model, items included
func ReceivingReportModelFromDomain(rr *procurement.ReceivingReport) *ReceivingReportModel {
	m := &ReceivingReportModel{
		RRNumber:        rr.RRNumber,
		ReceiveDate:     rr.ReceiveDate,
		SupplierID:      rr.SupplierID,
		PurchaseOrderID: rr.PurchaseOrderID,
		TotalAmount:     rr.TotalAmount,
		Notes:           rr.Notes,
		ReceivedBy:      rr.ReceivedBy,
		Items:           make([]ReceivingReportItemModel, len(rr.Items)),
	}
	m.FromDomainAggregateRoot(rr.BaseAggregateRoot)
	for i, it := range rr.Items {
		m.Items[i] = ReceivingReportItemModel{
			ID:                it.ID,
			ReceivingReportID: rr.ID,
			ItemID:            it.ItemID,
			ItemName:          it.ItemName,
			QuantityReceived:  it.QuantityReceived,
			QuantityRejected:  it.QuantityRejected,
			UnitPrice:         it.UnitPrice,
			Subtotal:          it.Subtotal,
			Notes:             it.Notes,
			CreatedAt:         it.CreatedAt,
		}
	}
	return m
}
