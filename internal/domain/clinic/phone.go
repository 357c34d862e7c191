package clinic

import (
	"strings"

	"github.com/ttacon/libphonenumber"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// NormalizePhone parses a phone number in the given default region and returns
// it in E.164 form, e.g. "0917 123 4567" in PH becomes "+639171234567".
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", shared.WrapDomainError("INVALID_PHONE", "Phone number is required", shared.ErrInvalidInput)
	}
	num, err := libphonenumber.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", shared.WrapDomainError("INVALID_PHONE", "Phone number is not valid", shared.ErrInvalidInput)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", shared.WrapDomainError("INVALID_PHONE", "Phone number is not valid", shared.ErrInvalidInput)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
