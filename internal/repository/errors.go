package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrDuplicate      = errors.New("duplicate record")
	ErrCarNotFound    = errors.New("car not found")
	ErrCarUnavailable = errors.New("car is out of service")
	ErrBookingOverlap = errors.New("booking overlaps an existing booking")
)

// isDuplicateKey relies on gorm.Config.TranslateError being enabled.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
