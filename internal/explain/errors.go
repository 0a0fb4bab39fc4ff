package explain

import "fmt"

// SyntaxError is the single error kind this package reports.
//
// It covers empty input, grammar rejection, and any unexpected internal
// failure during rendering or serialization - callers see one kind even
// when root causes differ. The underlying message is preserved for
// diagnostics.
type SyntaxError struct {
	// Query is the raw input that failed.
	Query string

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid query syntax: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("invalid query syntax: %s", e.Message)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
