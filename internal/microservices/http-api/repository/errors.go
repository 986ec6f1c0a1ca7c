package repository

import (
	"errors"

	"gorm.io/gorm"

	"mediahub/database"
)

// ErrConflict is returned when a write violates a store constraint, such as
// a duplicate subscription or a reference to a missing user or media row.
// Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func mapWriteError(err error) error {
	if database.IsForeignKeyViolation(err) || database.IsUniqueViolation(err) {
		return errors.Join(ErrConflict, err)
	}
	return err
}
