package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is gorm's not-found error, re-exported so services need
	// not import gorm.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrNotDeleted is returned when restoring a row that is live.
	ErrNotDeleted = errors.New("record is not deleted")
	// ErrStaleToken means the refresh token was rotated, revoked or
	// expired between read and write.
	ErrStaleToken = errors.New("refresh token is no longer active")
	// ErrJuryPromotion means fewer users were promoted than requested.
	ErrJuryPromotion = errors.New("jury promotion affected an unexpected number of users")
)

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
