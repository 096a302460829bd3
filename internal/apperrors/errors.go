package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidAmount indicates a non-positive amount or price.
var ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrValidation)

// ErrSelfTransferNotAllowed indicates a transfer whose sender and recipient are the same owner.
var ErrSelfTransferNotAllowed = fmt.Errorf("%w: cannot transfer to yourself", ErrValidation)

// ErrInsufficientFunds indicates that a debit would take a balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrItemNotFound indicates that no shop item exists under the given name.
var ErrItemNotFound = fmt.Errorf("%w: shop item", ErrNotFound)

// ErrDuplicateItem indicates that a shop item with the same name already exists in the community.
var ErrDuplicateItem = fmt.Errorf("%w: shop item", ErrDuplicate)

// ErrCooldownActive indicates that a daily grant was already issued in the current window.
var ErrCooldownActive = errors.New("cooldown active")

// ErrPreconditionFailed indicates that a guarded field changed between read and write.
var ErrPreconditionFailed = errors.New("precondition failed")

// ErrStorageUnavailable indicates a transient storage failure. Callers may retry.
var ErrStorageUnavailable = errors.New("storage unavailable")

// CooldownError carries the next time a grant becomes available for a scope.
type CooldownError struct {
	Scope          string
	NextEligibleAt time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: %s grant available at %s", ErrCooldownActive, e.Scope, e.NextEligibleAt.Format(time.RFC3339))
}

// Unwrap lets errors.Is match ErrCooldownActive.
func (e *CooldownError) Unwrap() error {
	return ErrCooldownActive
}

// AppError is an error with an associated status code, used for infrastructure failures.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// NewAppError wraps err with a status code and a caller-facing message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unavailable wraps cause as a transient storage failure.
func Unavailable(op string, cause error) error {
	return NewAppError(http.StatusServiceUnavailable, op, fmt.Errorf("%w: %w", ErrStorageUnavailable, cause))
}
