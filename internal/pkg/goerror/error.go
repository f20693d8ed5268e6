// Package goerror carries user facing failures from usecases to transports.
//
// Usecases return *Error values built with NewServer, NewBusiness,
// NewInvalidInput or NewInvalidFormat. The HTTP layer renders Msg and Fields
// with the status from StatusCode. Repositories report ErrNotFound and
// ErrConflict, which usecases translate.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	// TypeServer represents server-side failures.
	TypeServer Type = iota
	// TypeBusiness represents business rule violations.
	TypeBusiness
	// TypeValidation represents input validation failures.
	TypeValidation
)

var typeInfo = map[Type]struct{ name, fallback string }{
	TypeServer:     {name: "ERROR_TYPE_SERVER", fallback: "Internal error"},
	TypeBusiness:   {name: "ERROR_TYPE_BUSINESS", fallback: "Logical business not meet with requirement"},
	TypeValidation: {name: "ERROR_TYPE_VALIDATION", fallback: "Validation violation"},
}

// String returns the string representation of the error type.
func (t Type) String() string {
	if info, ok := typeInfo[t]; ok {
		return info.name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates invalid request format.
	CodeInvalidFormat
	// CodeInvalidInput indicates invalid request input.
	CodeInvalidInput
	// CodeNotFound indicates a missing resource.
	CodeNotFound
	// CodeConflict indicates a conflict (e.g., duplicate).
	CodeConflict
	// CodeTooManyRequest indicates rate limiting.
	CodeTooManyRequest
	// CodeUnauthorized indicates authentication failure.
	CodeUnauthorized
	// CodeForbidden indicates authorization failure.
	CodeForbidden
	// CodeTimeout indicates a timeout.
	CodeTimeout
	// CodeBadRequest indicates a request that breaks a business rule.
	CodeBadRequest
	// CodeGone indicates a resource that existed but can no longer be used.
	CodeGone
	// CodeBadGateway indicates a failed call to an upstream provider.
	CodeBadGateway
)

var codeInfo = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:       {name: "ERROR_CODE_INTERNAL", status: http.StatusInternalServerError},
	CodeInvalidFormat:  {name: "ERROR_CODE_INVALID_FORMAT", status: http.StatusBadRequest},
	CodeInvalidInput:   {name: "ERROR_CODE_INVALID_INPUT", status: http.StatusUnprocessableEntity},
	CodeNotFound:       {name: "ERROR_CODE_NOT_FOUND", status: http.StatusNotFound},
	CodeConflict:       {name: "ERROR_CODE_CONFLICT", status: http.StatusConflict},
	CodeTooManyRequest: {name: "ERROR_CODE_TOO_MANY_REQUESTS", status: http.StatusTooManyRequests},
	CodeUnauthorized:   {name: "ERROR_CODE_UNAUTHORIZED", status: http.StatusUnauthorized},
	CodeForbidden:      {name: "ERROR_CODE_FORBIDDEN", status: http.StatusForbidden},
	CodeTimeout:        {name: "ERROR_CODE_TIMEOUT", status: http.StatusRequestTimeout},
	CodeBadRequest:     {name: "ERROR_CODE_BAD_REQUEST", status: http.StatusBadRequest},
	CodeGone:           {name: "ERROR_CODE_GONE", status: http.StatusGone},
	CodeBadGateway:     {name: "ERROR_CODE_BAD_GATEWAY", status: http.StatusBadGateway},
}

// String returns the string representation of the error code.
func (c Code) String() string {
	if info, ok := codeInfo[c]; ok {
		return info.name
	}
	return codeInfo[CodeInternal].name
}

// Status maps the code to an HTTP status. Unknown codes are 500.
func (c Code) Status() int {
	if info, ok := codeInfo[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is a structured error used across the application.
//
// It can wrap an underlying error while also carrying a user-facing message,
// a high-level type, and a stable error code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface. The wrapped error wins over the
// user-facing message so logs keep the root cause.
func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	}

	if info, ok := typeInfo[e.errType]; ok {
		return info.fallback
	}
	return "Unknown error"
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v", e.errType, e.code, e.msg, e.err)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string { return e.msg }

// Type returns the high-level error type.
func (e *Error) Type() Type { return e.errType }

// Code returns the stable error code.
func (e *Error) Code() Code { return e.code }

// Fields returns validation errors (field to message map), if any.
func (e *Error) Fields() map[string]string { return e.fields }

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int { return e.code.Status() }

// CodeOf returns the code carried by err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.code
	}
	return CodeInternal
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput creates a validation error. With a non-nil err (usually a
// validator error) the field messages come from err. Otherwise kv holds
// field/message pairs; an odd count is a programming error and reported as an
// invalid body.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}

	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat creates a validation error for an invalid request body format.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
