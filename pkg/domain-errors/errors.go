// Package domainerrors provides coded errors shared across service and
// transport layers. Handlers translate codes to HTTP statuses via
// pkg/platform/httputil; services attach structured detail (upstream status,
// retry-after seconds) with Add and read it back with Load.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeMissingConfiguration Code = "missing_configuration"
	CodeRateLimited          Code = "rate_limited"
	CodeUpstream             Code = "upstream_error"
	CodeTransport            Code = "transport_error"
	CodeNotFound             Code = "not_found"
	CodeBadRequest           Code = "bad_request"
	CodeValidation           Code = "validation"
	CodeInternal             Code = "internal_error"
)

// Detail keys used across the codebase.
const (
	DetailRetryAfter     = "retry_after"     // int, seconds
	DetailUpstreamStatus = "upstream_status" // int, HTTP status from upstream
	DetailUpstreamBody   = "upstream_body"   // any, parsed upstream payload
)

// Error is a coded domain error. Construct via New or Wrap.
type Error struct {
	Code    Code
	Message string
	Err     error
	details map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a caller-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while preserving the cause for
// errors.Is/As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readable alias for HasCode at call sites that test a single code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the nearest domain error in the chain, or
// CodeInternal when err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Add attaches a structured detail to the nearest domain error in the chain.
// When err is not a domain error it is wrapped as CodeInternal first.
func Add(err error, key string, value any) error {
	var de *Error
	if !errors.As(err, &de) {
		de = Wrap(err, CodeInternal, "unexpected error")
		err = de
	}
	if de.details == nil {
		de.details = make(map[string]any)
	}
	de.details[key] = value
	return err
}

// Load reads a structured detail from the nearest domain error in the chain.
func Load(err error, key string) (any, bool) {
	var de *Error
	if !errors.As(err, &de) || de.details == nil {
		return nil, false
	}
	v, ok := de.details[key]
	return v, ok
}

// LoadInt reads an integer detail, tolerating the zero value when absent.
func LoadInt(err error, key string) (int, bool) {
	v, ok := Load(err, key)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}
