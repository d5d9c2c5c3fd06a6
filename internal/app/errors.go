package app

import "errors"

// Kind classifies failures that are safe to show to a client. Errors that are
// not an *Error are internal and must be reported generically.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindNotFound
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports the kind of err, or false for internal errors.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}

var (
	ErrFieldsRequired      = newError(KindValidation, "All fields are required")
	ErrUsernameTooShort    = newError(KindValidation, "Username must be at least 3 characters long")
	ErrPasswordTooShort    = newError(KindValidation, "Password must be at least 6 characters long")
	ErrPasswordTooLong     = newError(KindValidation, "Password must be at most 72 bytes long")
	ErrInvalidEmail        = newError(KindValidation, "Please enter a valid email")
	ErrCredentialsRequired = newError(KindValidation, "Username and password are required")

	ErrUsernameExists = newError(KindConflict, "Username already exists")
	ErrEmailExists    = newError(KindConflict, "Email already registered")
	ErrAccountExists  = newError(KindConflict, "Username or email already exists")

	ErrInvalidCredential = newError(KindAuth, "Invalid username or password")
	ErrUserNotFound      = newError(KindNotFound, "User not found")

	ErrDatesRequired    = newError(KindValidation, "startDate and endDate are required")
	ErrInvalidDate      = newError(KindValidation, "Dates must be formatted as YYYY-MM-DD or RFC 3339")
	ErrInvalidDateRange = newError(KindValidation, "endDate must not be before startDate")
	ErrBookingFields    = newError(KindValidation, "carId, customerName and mobileNumber are required")
	ErrNegativeAmount   = newError(KindValidation, "estimatedKm and totalAmount must not be negative")
	ErrInvalidBookingID = newError(KindValidation, "Invalid booking id")

	ErrCarNotFound    = newError(KindNotFound, "Car not found")
	ErrCarUnavailable = newError(KindConflict, "Car is not available for the selected dates")
)
