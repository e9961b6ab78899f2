package businessflow

import (
	"errors"
	"fmt"

	"github.com/amirphl/concept-studio/app/services"
)

// Business flow error constants
var (
	// Input errors
	ErrValidation         = errors.New("validation failed")
	ErrInvalidRemixPolicy = errors.New("invalid remix policy")
	ErrInvalidID          = errors.New("invalid identifier")

	// Audience-related errors
	ErrAudienceNotFound = errors.New("audience not found")

	// Concept-related errors
	ErrConceptNotFound = errors.New("concept not found")
	ErrParentMismatch  = errors.New("parent concept belongs to a different audience")
	ErrConceptBusy     = errors.New("another mutation is in progress for this concept")
	ErrConceptModified = errors.New("concept was modified since it was read")

	// Upstream errors
	ErrLLMUnavailable     = services.ErrLLMUnavailable
	ErrMalformedLLMOutput = services.ErrMalformedLLMOutput
	ErrPersistence        = errors.New("persistence error")
	ErrLockUnavailable    = errors.New("lock backend unavailable")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// persistenceError tags a store failure so callers can classify it
func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// validationError tags a rule violation with a human readable reason
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidRemixPolicy(err error) bool {
	return errors.Is(err, ErrInvalidRemixPolicy)
}

func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}

func IsAudienceNotFound(err error) bool {
	return errors.Is(err, ErrAudienceNotFound)
}

func IsConceptNotFound(err error) bool {
	return errors.Is(err, ErrConceptNotFound)
}

func IsParentMismatch(err error) bool {
	return errors.Is(err, ErrParentMismatch)
}

func IsConceptBusy(err error) bool {
	return errors.Is(err, ErrConceptBusy)
}

func IsConceptModified(err error) bool {
	return errors.Is(err, ErrConceptModified)
}

func IsLLMUnavailable(err error) bool {
	return errors.Is(err, ErrLLMUnavailable)
}

func IsMalformedLLMOutput(err error) bool {
	return errors.Is(err, ErrMalformedLLMOutput)
}

func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

func IsLockUnavailable(err error) bool {
	return errors.Is(err, ErrLockUnavailable)
}
