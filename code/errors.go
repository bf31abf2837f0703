package code

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrCodeExecution indicates an error during snippet execution, such as
	// a syntax error or an uncaught exception.
	ErrCodeExecution = errors.New("code execution error")

	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrLimitExceeded indicates that an execution limit was reached,
	// such as the run timeout.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrRunInProgress indicates that a run was requested while another
	// run's capture window was still open.
	ErrRunInProgress = errors.New("another run is in progress")
)

// CodeError represents an error that occurred during snippet execution.
// It includes optional source location information for debugging.
type CodeError struct {
	// Message is the failure's own message. It may be empty when the thrown
	// value carried none.
	Message string

	// Value is the string form of the thrown value, used when Message is
	// empty.
	Value string

	// Line is the 1-based line number where the error occurred.
	// Zero indicates the line is unknown.
	Line int

	// Column is the 1-based column number where the error occurred.
	// Zero indicates the column is unknown.
	Column int

	// Err is the underlying error, if any.
	Err error
}

// Error returns the error message, including line and column if available.
func (e *CodeError) Error() string {
	msg := e.text()
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, col %d)", msg, e.Line, e.Column)
	}
	return msg
}

func (e *CodeError) text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Value != "" {
		return e.Value
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrCodeExecution.Error()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CodeError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// CodeError matches ErrCodeExecution to allow sentinel-style error checking.
func (e *CodeError) Is(target error) bool {
	return target == ErrCodeExecution
}

// FailureMessage returns the text shown for a failed run: the failure's own
// message if it has one, otherwise its string form. Location information is
// not included. The executor appends it as a string value, so the rendered
// entry is quoted like any other logged string: "boom".
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.text()
	}
	return err.Error()
}
