// Package apperr carries the pipeline error taxonomy and its mapping onto
// HTTP status classes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation and status mapping.
type Kind string

const (
	KindValidation    Kind = "validation"     // malformed input
	KindNotFound      Kind = "not_found"      // unknown recipe/idea id or blob key
	KindUpstreamAuth  Kind = "upstream_auth"  // listing API rejected credentials
	KindUpstream      Kind = "upstream"       // listing or LLM HTTP failure
	KindEmptyResult   Kind = "empty_result"   // no launches for the requested day
	KindModelResponse Kind = "model_response" // unparsable or missing JSON in model output
	KindConfiguration Kind = "configuration"  // missing credential or unwired collaborator
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a classified error.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Upstream(format string, args ...any) *Error {
	return New(KindUpstream, format, args...)
}

func UpstreamAuth(format string, args ...any) *Error {
	return New(KindUpstreamAuth, format, args...)
}

func EmptyResult(format string, args ...any) *Error {
	return New(KindEmptyResult, format, args...)
}

func ModelResponse(format string, args ...any) *Error {
	return New(KindModelResponse, format, args...)
}

func Configuration(format string, args ...any) *Error {
	return New(KindConfiguration, format, args...)
}

// KindOf extracts the kind from an error chain; unclassified errors report
// an empty kind.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error onto its status class: 400 for validation, 404
// for not-found, 500 for everything else including upstream and model
// failures.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
