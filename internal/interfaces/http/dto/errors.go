package dto

import (
	"errors"
	"net/http"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// Transport-level error codes. Domain errors keep their own codes.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_FAILED"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeBodyTooLarge = "BODY_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:  http.StatusInternalServerError,
	"DATA_INTEGRITY": http.StatusInternalServerError,

	// validation -> 400
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	"INVALID_INPUT":      http.StatusBadRequest,
	"INVALID_LINE_ITEMS": http.StatusBadRequest,
	"MISSING_ACTOR":      http.StatusBadRequest,

	// auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// resources
	ErrCodeNotFound:             http.StatusNotFound,
	"ALREADY_EXISTS":            http.StatusConflict,
	"DUPLICATE_DOCUMENT_NUMBER": http.StatusConflict,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,

	// business rules -> 422
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT": http.StatusUnprocessableEntity,

	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping folds alternative spellings into the codes above
var LegacyErrorCodeMapping = map[string]string{
	"VALIDATION_ERROR":  ErrCodeValidation,
	"INTERNAL":          ErrCodeInternal,
	"ERR_NOT_FOUND":     ErrCodeNotFound,
	"TOO_MANY_REQUESTS": ErrCodeRateLimited,
}

// NormalizeErrorCode converts an alternative code to its canonical form.
// Other codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

// sentinelStatus is checked in order when an error's own code is not in the table
var sentinelStatus = []struct {
	err    error
	status int
}{
	{shared.ErrDataIntegrity, http.StatusInternalServerError},
	{shared.ErrRateLimited, http.StatusTooManyRequests},
	{shared.ErrMissingActor, http.StatusBadRequest},
	{shared.ErrInvalidInput, http.StatusBadRequest},
	{shared.ErrUnauthorized, http.StatusUnauthorized},
	{shared.ErrForbidden, http.StatusForbidden},
	{shared.ErrNotFound, http.StatusNotFound},
	{shared.ErrDuplicateNumber, http.StatusConflict},
	{shared.ErrAlreadyExists, http.StatusConflict},
	{shared.ErrConcurrencyConflict, http.StatusConflict},
	{shared.ErrInsufficientStock, http.StatusUnprocessableEntity},
	{shared.ErrInvalidState, http.StatusUnprocessableEntity},
}

// ErrorStatus resolves the response for err. A domain error answers with its
// own code and message; its status comes from the code table, or else from
// the first sentinel it wraps. Anything else is an internal error whose
// message is not exposed.
func ErrorStatus(err error) (status int, code, message string) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred"
	}
	code = NormalizeErrorCode(domainErr.Code)
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status, code, domainErr.Message
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.status, code, domainErr.Message
		}
	}
	return http.StatusInternalServerError, code, domainErr.Message
}
