package ports

import "fmt"

// ValidationError is returned by services for input that fails a business rule.
// Infrastructure renders Message to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
