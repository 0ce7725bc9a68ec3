package errs

import (
	"fmt"
)

// Err represents structure of a custom error
type Err struct {
	Code    string
	Message string
}

func (e Err) Error() string {
	return fmt.Sprintf("%s : %s ", e.Code, e.Message)
}

// Error represents a json-encoded API error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}

var (
	// ErrNoClassRoots is returned when neither --classes nor --root resolve to a directory.
	ErrNoClassRoots = New("at least one class directory is required")
	// ErrNoBaseline is returned when the baseline execution record set is empty.
	ErrNoBaseline = New("at least one baseline execution record file is required")
	// ErrNoComparison is returned when the comparison execution record set is empty.
	ErrNoComparison = New("at least one comparison execution record file is required")
	// ErrInvalidLoggerInstance is returned when logger instance is not supported.
	ErrInvalidLoggerInstance = New("Invalid logger instance")
	// ErrNotFound is returned when a blob or a report resource does not exist.
	ErrNotFound = New("not found")
	// ErrAzureCredentials is returned when the azure credentials are invalid.
	ErrAzureCredentials = New("azure client requires credentials")
)
