package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/billing"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string             `gorm:"type:varchar(30);not null;uniqueIndex"`
	ClientID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Date          time.Time          `gorm:"not null;index"`
	TotalAmount   decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	Status        string             `gorm:"type:varchar(20);not null;index"`
	Notes         string             `gorm:"type:text"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is a priced line of an invoice
type InvoiceItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName  string          `gorm:"type:varchar(200)"`
	Quantity  int             `gorm:"not null"`
	PriceEach decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		ClientID:          m.ClientID,
		Date:              m.Date,
		TotalAmount:       m.TotalAmount,
		Status:            billing.InvoiceStatus(m.Status),
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
		Items:             make([]billing.InvoiceItem, len(m.Items)),
	}
	for i, it := range m.Items {
		inv.Items[i] = billing.InvoiceItem{
			ID:        it.ID,
			InvoiceID: it.InvoiceID,
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			PriceEach: it.PriceEach,
			Subtotal:  it.Subtotal,
			CreatedAt: it.CreatedAt,
		}
	}
	return inv
}

// InvoiceModelFromDomain creates a persistence model, items included
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		Date:          inv.Date,
		TotalAmount:   inv.TotalAmount,
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		Items:         make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:        it.ID,
			InvoiceID: inv.ID,
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			PriceEach: it.PriceEach,
			Subtotal:  it.Subtotal,
			CreatedAt: it.CreatedAt,
		}
	}
	return m
}

// WalkInInvoiceModel is the persistence model for the WalkInInvoice aggregate root.
// Customer and payment details are stored inline.
type WalkInInvoiceModel struct {
	AggregateModel
	InvoiceNumber  string                   `gorm:"type:varchar(30);not null;uniqueIndex"`
	Date           time.Time                `gorm:"not null;index"`
	CustomerName   string                   `gorm:"type:varchar(200);not null"`
	CustomerPhone  string                   `gorm:"type:varchar(30)"`
	CustomerAddr   string                   `gorm:"column:customer_address;type:text"`
	PetName        string                   `gorm:"type:varchar(100)"`
	PetSpecies     string                   `gorm:"type:varchar(50)"`
	TotalAmount    decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	Status         string                   `gorm:"type:varchar(20);not null;index"`
	PaymentMethod  string                   `gorm:"type:varchar(20)"`
	CashAmount     decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	GCashAmount    decimal.Decimal          `gorm:"column:gcash_amount;type:decimal(12,2);not null;default:0"`
	GCashReference string                   `gorm:"column:gcash_reference;type:varchar(100)"`
	Notes          string                   `gorm:"type:text"`
	PreparedBy     uuid.UUID                `gorm:"type:uuid;not null;index"`
	Items          []WalkInInvoiceItemModel `gorm:"foreignKey:WalkInInvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (WalkInInvoiceModel) TableName() string {
	return "walk_in_invoices"
}

// WalkInInvoiceItemModel is a priced line of a walk-in invoice
type WalkInInvoiceItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	WalkInInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName        string          `gorm:"type:varchar(200)"`
	Quantity        int             `gorm:"not null"`
	PriceEach       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WalkInInvoiceItemModel) TableName() string {
	return "walk_in_invoice_items"
}

// ToDomain converts the persistence model to a domain WalkInInvoice.
func (m *WalkInInvoiceModel) ToDomain() *billing.WalkInInvoice {
	inv := &billing.WalkInInvoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		Date:              m.Date,
		Customer: billing.Customer{
			Name:       m.CustomerName,
			Phone:      m.CustomerPhone,
			Address:    m.CustomerAddr,
			PetName:    m.PetName,
			PetSpecies: m.PetSpecies,
		},
		TotalAmount: m.TotalAmount,
		Status:      billing.WalkInStatus(m.Status),
		Payment: billing.Payment{
			Method:         billing.PaymentMethod(m.PaymentMethod),
			CashAmount:     m.CashAmount,
			GCashAmount:    m.GCashAmount,
			GCashReference: m.GCashReference,
		},
		Notes:      m.Notes,
		PreparedBy: m.PreparedBy,
		Items:      make([]billing.WalkInItem, len(m.Items)),
	}
	for i, it := range m.Items {
		inv.Items[i] = billing.WalkInItem{
			ID:              it.ID,
			WalkInInvoiceID: it.WalkInInvoiceID,
			ItemID:          it.ItemID,
			ItemName:        it.ItemName,
			Quantity:        it.Quantity,
			PriceEach:       it.PriceEach,
			Subtotal:        it.Subtotal,
			CreatedAt:       it.CreatedAt,
		}
	}
	return inv
}

// WalkInInvoiceModelFromDomain creates a persistence model, items included
func WalkInInvoiceModelFromDomain(inv *billing.WalkInInvoice) *WalkInInvoiceModel {
	m := &WalkInInvoiceModel{
		InvoiceNumber:  inv.InvoiceNumber,
		Date:           inv.Date,
		CustomerName:   inv.Customer.Name,
		CustomerPhone:  inv.Customer.Phone,
		CustomerAddr:   inv.Customer.Address,
		PetName:        inv.Customer.PetName,
		PetSpecies:     inv.Customer.PetSpecies,
		TotalAmount:    inv.TotalAmount,
		Status:         string(inv.Status),
		PaymentMethod:  string(inv.Payment.Method),
		CashAmount:     inv.Payment.CashAmount,
		GCashAmount:    inv.Payment.GCashAmount,
		GCashReference: inv.Payment.GCashReference,
		Notes:          inv.Notes,
		PreparedBy:     inv.PreparedBy,
		Items:          make([]WalkInInvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, it := range inv.Items {
		m.Items[i] = WalkInInvoiceItemModel{
			ID:              it.ID,
			WalkInInvoiceID: inv.ID,
			ItemID:          it.ItemID,
			ItemName:        it.ItemName,
			Quantity:        it.Quantity,
			PriceEach:       it.PriceEach,
			Subtotal:        it.Subtotal,
			CreatedAt:       it.CreatedAt,
		}
	}
	return m
}
