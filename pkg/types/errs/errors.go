package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound          = errors.New("object not found")
	ErrUnableToDetermineFormat = errors.New("an image format could not be determined. Make sure the extension or the content-type header is sensible")
	ErrInvalidResizeTarget     = errors.New("a string with two numbers and an x in between")
)

// ValidationError carries every violated limit, in the order they were checked.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

// NewValidationError returns nil for an empty problem list.
func NewValidationError(problems []string) *ValidationError {
	if len(problems) == 0 {
		return nil
	}

	return &ValidationError{Messages: problems}
}

type BadSignatureError struct {
	Signature string
}

func (e *BadSignatureError) Error() string {
	return fmt.Sprintf("The signature you provided [%s] was not correct", e.Signature)
}
