// Package sequence models the human-readable document numbers issued per
// series and calendar year, e.g. INV-2025-0001.
package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// Series identifies one numbering sequence
type Series string

const (
	SeriesInvoice         Series = "INV"
	SeriesPurchaseOrder   Series = "PO"
	SeriesReceivingReport Series = "RR"
	SeriesExpense         Series = "EXP"
	SeriesEmployee        Series = "EMP"
	SeriesCreditDeposit   Series = "CD"
	SeriesWalkInInvoice   Series = "WI"
)

// AllSeries lists every series the clinic issues numbers for
func AllSeries() []Series {
	return []Series{
		SeriesInvoice,
		SeriesPurchaseOrder,
		SeriesReceivingReport,
		SeriesExpense,
		SeriesEmployee,
		SeriesCreditDeposit,
		SeriesWalkInInvoice,
	}
}

// IsValid reports whether s is a known series
func (s Series) IsValid() bool {
	for _, known := range AllSeries() {
		if s == known {
			return true
		}
	}
	return false
}

// String returns the series code
func (s Series) String() string {
	return string(s)
}

// Prefix returns "{series}-{year}-", the common prefix of every number in that year
func (s Series) Prefix(year int) string {
	return fmt.Sprintf("%s-%04d-", s, year)
}

// ParseSeries validates a raw series code
func ParseSeries(raw string) (Series, error) {
	s := Series(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.WrapDomainError("INVALID_SERIES", fmt.Sprintf("Unknown document series %q", raw), shared.ErrInvalidInput)
	}
	return s, nil
}

// Format renders a document number. Sequences are zero padded to four digits.
func Format(s Series, year, seq int) string {
	return fmt.Sprintf("%s%04d", s.Prefix(year), seq)
}

// ParseSequence extracts the numeric sequence from a stored number of the given
// series and year. A number that does not have that shape means the stored
// history is corrupt; the error wraps shared.ErrDataIntegrity and must not be retried.
func ParseSequence(number string, s Series, year int) (int, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return 0, malformed(number, "expected three dash separated parts")
	}
	if parts[0] != string(s) {
		return 0, malformed(number, fmt.Sprintf("series %q does not match %q", parts[0], s))
	}
	if parts[1] != fmt.Sprintf("%04d", year) {
		return 0, malformed(number, fmt.Sprintf("year %q does not match %d", parts[1], year))
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, malformed(number, "sequence is not numeric")
	}
	if seq < 1 {
		return 0, malformed(number, "sequence must be positive")
	}
	return seq, nil
}

func malformed(number, reason string) error {
	return shared.WrapDomainError(
		shared.ErrDataIntegrity.Code,
		fmt.Sprintf("Malformed document number %q: %s", number, reason),
		shared.ErrDataIntegrity,
	)
}
