package inventory

import (
	"fmt"
	"strings"
)

// NegativeStockPolicy decides whether consumption may drive a product below zero
type NegativeStockPolicy string

const (
	// AllowNegative lets quantities go below zero, matching historical clinic behavior
	AllowNegative NegativeStockPolicy = "allow"
	// RejectInsufficient refuses any adjustment that would leave a product below zero
	RejectInsufficient NegativeStockPolicy = "reject"
)

// ParseNegativeStockPolicy parses a configured policy value. Empty means AllowNegative.
func ParseNegativeStockPolicy(raw string) (NegativeStockPolicy, error) {
	switch NegativeStockPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", AllowNegative:
		return AllowNegative, nil
	case RejectInsufficient:
		return RejectInsufficient, nil
	default:
		return "", fmt.Errorf("unknown negative stock policy %q (want allow or reject)", raw)
	}
}

// Guards reports whether the policy needs a floor check on decrements
func (p NegativeStockPolicy) Guards() bool {
	return p == RejectInsufficient
}

// Direction is the ledger sign a document kind applies to product lines
type Direction int

const (
	// DirectionNone documents never move stock (purchase orders)
	DirectionNone Direction = 0
	// DirectionConsume removes stock (invoices, walk-in invoices)
	DirectionConsume Direction = -1
	// DirectionSupply adds stock (receiving reports)
	DirectionSupply Direction = 1
)

// Delta returns the signed adjustment for quantity units moving in this direction
func (d Direction) Delta(quantity int) int {
	return int(d) * quantity
}

// Reverse returns the opposite direction, used when a document is deleted
func (d Direction) Reverse() Direction {
	return -d
}

// String names the direction for logs and metrics
func (d Direction) String() string {
	switch d {
	case DirectionConsume:
		return "consume"
	case DirectionSupply:
		return "supply"
	default:
		return "none"
	}
}
