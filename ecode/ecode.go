// Package ecode defines the business error codes used in API responses.
//
// Codes follow the negative-number convention: request/validation errors in the
// -400 range, resource errors in the -300/-400 range, server errors at -500 and
// below. Zero means success.
package ecode

// Common business codes.
const (
	OK = 0

	RequestErr = -400
	ParamErr   = -401

	AccessDenied = -403
	NothingFound = -404
	Conflict     = -409

	MethodNotAllowed = -405

	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var texts = map[int]string{
	OK:                 "success",
	RequestErr:         "invalid request",
	ParamErr:           "invalid parameters",
	AccessDenied:       "access denied",
	NothingFound:       "resource not found",
	Conflict:           "resource conflict",
	MethodNotAllowed:   "method not allowed",
	ServerErr:          "internal server error",
	ServiceUnavailable: "service unavailable",
	Deadline:           "deadline exceeded",
}

// Text returns the human-readable message for a code. Unknown codes fall back
// to the generic server error message.
func Text(code int) string {
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}
