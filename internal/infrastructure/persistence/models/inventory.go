package models

import (
	"github.com/shopspring/decimal"

	"github.com/vetclinic/backend/internal/domain/inventory"
)

// StockItemModel is the persistence model for the StockItem aggregate root.
type StockItemModel struct {
	AggregateModel
	Code             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(200);not null;index"`
	Description      string          `gorm:"type:text"`
	Kind             string          `gorm:"type:varchar(20);not null;default:'Product'"`
	Unit             string          `gorm:"type:varchar(20)"`
	QuantityOnHand   int             `gorm:"not null;default:0"`
	ReorderThreshold int             `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		Kind:              inventory.ItemKind(m.Kind),
		Unit:              m.Unit,
		QuantityOnHand:    m.QuantityOnHand,
		ReorderThreshold:  m.ReorderThreshold,
		UnitPrice:         m.UnitPrice,
	}
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockItemModel) FromDomain(i *inventory.StockItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Code = i.Code
	m.Name = i.Name
	m.Description = i.Description
	m.Kind = string(i.Kind)
	m.Unit = i.Unit
	m.QuantityOnHand = i.QuantityOnHand
	m.ReorderThreshold = i.ReorderThreshold
	m.UnitPrice = i.UnitPrice
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem entity.
func StockItemModelFromDomain(i *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(i)
	return m
}
