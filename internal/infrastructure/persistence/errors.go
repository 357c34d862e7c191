package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// isUniqueViolation reports whether err is a unique-constraint failure.
// TranslateError covers connections opened by NewDatabase; the message checks
// cover handles opened without it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// translateNotFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// duplicateNumber wraps a unique violation on a document number
func duplicateNumber(number string, err error) error {
	return shared.WrapDomainError(shared.ErrDuplicateNumber.Code, "Document number "+number+" already issued", err)
}

// staleOrMissing explains a versioned update that matched no row: the record
// is gone, or another writer saved it first.
func staleOrMissing(db *gorm.DB, model interface{}, id uuid.UUID) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}
