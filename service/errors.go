package service

import "fmt"

// ValidationError reports malformed request parameters. It is raised
// before any external call and maps to a client error at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidParam(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
