package ledger

import (
	"errors"
	"fmt"

	"diamondpad/internal/storage"
)

// Sentinel errors. Every failure is terminal for its operation and leaves no
// partial mutation behind.
var (
	// ErrNotInitialized indicates the protocol record has not been bootstrapped.
	ErrNotInitialized = errors.New("protocol not initialized")

	// ErrOverflow indicates a checked addition or multiplication would wrap.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrUnauthorized indicates the caller is not the protocol authority.
	ErrUnauthorized = errors.New("caller is not the protocol authority")

	// ErrInvalidTransition indicates an illegal launch status transition.
	ErrInvalidTransition = errors.New("invalid launch status transition")
)

// ValidationError reports a rejected input parameter. The operation mutated
// nothing; resubmission with corrected parameters is safe.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// errorType maps an error to a stable metrics label.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidationError(err):
		return "validation"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrDuplicateKey):
		return "duplicate"
	default:
		return "storage"
	}
}

// isNotFound reports whether err wraps the store's missing-record sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
