package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueConstraintViolation relies on GORM's TranslateError and falls back
// to the driver message for dialects that do not translate.
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "duplicate entry") ||
		strings.Contains(errMsg, "23505") // postgres unique_violation
}
