// Package document holds what every numbered line-item document shares:
// its kind, its series, its ledger direction and line pricing.
package document

import (
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/sequence"
)

// Kind identifies a document type
type Kind string

const (
	KindInvoice         Kind = "invoice"
	KindWalkInInvoice   Kind = "walk_in_invoice"
	KindPurchaseOrder   Kind = "purchase_order"
	KindReceivingReport Kind = "receiving_report"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindInvoice, KindWalkInInvoice, KindPurchaseOrder, KindReceivingReport:
		return true
	}
	return false
}

// String returns the kind name
func (k Kind) String() string {
	return string(k)
}

// Series returns the numbering series for the kind
func (k Kind) Series() sequence.Series {
	switch k {
	case KindInvoice:
		return sequence.SeriesInvoice
	case KindWalkInInvoice:
		return sequence.SeriesWalkInInvoice
	case KindPurchaseOrder:
		return sequence.SeriesPurchaseOrder
	case KindReceivingReport:
		return sequence.SeriesReceivingReport
	}
	return ""
}

// Direction returns how creating a document of this kind moves product stock
func (k Kind) Direction() inventory.Direction {
	switch k {
	case KindInvoice, KindWalkInInvoice:
		return inventory.DirectionConsume
	case KindReceivingReport:
		return inventory.DirectionSupply
	}
	return inventory.DirectionNone
}

// Module is the audit module name for the kind
func (k Kind) Module() string {
	switch k {
	case KindInvoice:
		return "Invoice"
	case KindWalkInInvoice:
		return "WalkInInvoice"
	case KindPurchaseOrder:
		return "PurchaseOrder"
	case KindReceivingReport:
		return "ReceivingReport"
	}
	return "Document"
}
