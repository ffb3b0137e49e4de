// apierror/apierror.go
// Package apierror defines the typed failure returned by every pipeline operation.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the discriminant of an API service error. Two errors are the same failure
// when their kinds match, independent of any attached payload.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindInvalidEndpoint
	KindInvalidResponse
	KindNoData
	KindDecode
	KindSuccessWithError
	KindNotFound404
	KindInternalServerError500
	KindValidationErrors422
	KindSuccessWith204
	KindIO
	KindRequestEncoding
)

var kindNames = map[Kind]string{
	KindTransport:              "transportError",
	KindInvalidEndpoint:        "invalidEndpoint",
	KindInvalidResponse:        "invalidResponse",
	KindNoData:                 "noData",
	KindDecode:                 "decodeError",
	KindSuccessWithError:       "successWithError",
	KindNotFound404:            "notFound404",
	KindInternalServerError500: "internalServerError500",
	KindValidationErrors422:    "validationErrors422",
	KindSuccessWith204:         "successWith204",
	KindIO:                     "ioError",
	KindRequestEncoding:        "requestEncodingError",
}

// String returns the kind's stable name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the typed failure of a pipeline call.
type Error struct {
	Kind       Kind
	StatusCode int    // HTTP status, when the failure came from a response
	Detail     string // human readable detail extracted from the response body, if any
	Payload    any    // only set for KindSuccessWithError
	Err        error  // underlying cause
}

// Sentinels for errors.Is checks. Matching is by kind only.
var (
	ErrTransport              = &Error{Kind: KindTransport}
	ErrInvalidEndpoint        = &Error{Kind: KindInvalidEndpoint}
	ErrInvalidResponse        = &Error{Kind: KindInvalidResponse}
	ErrNoData                 = &Error{Kind: KindNoData}
	ErrDecode                 = &Error{Kind: KindDecode}
	ErrSuccessWithError       = &Error{Kind: KindSuccessWithError}
	ErrNotFound404            = &Error{Kind: KindNotFound404}
	ErrInternalServerError500 = &Error{Kind: KindInternalServerError500}
	ErrValidationErrors422    = &Error{Kind: KindValidationErrors422}
	ErrSuccessWith204         = &Error{Kind: KindSuccessWith204}
	ErrIO                     = &Error{Kind: KindIO}
	ErrRequestEncoding        = &Error{Kind: KindRequestEncoding}
)

// New returns an error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap returns an error of the given kind caused by err.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// SuccessWithError returns a KindSuccessWithError carrying payload.
func SuccessWithError(payload any) *Error {
	return &Error{Kind: KindSuccessWithError, Payload: payload}
}

// FromStatus maps a non-success HTTP status to its error kind: 404, 500 and 422 have
// dedicated kinds, anything else is an invalid response.
func FromStatus(statusCode int, detail string) *Error {
	kind := KindInvalidResponse
	switch statusCode {
	case http.StatusNotFound:
		kind = KindNotFound404
	case http.StatusInternalServerError:
		kind = KindInternalServerError500
	case http.StatusUnprocessableEntity:
		kind = KindValidationErrors422
	}
	return &Error{Kind: kind, StatusCode: statusCode, Detail: detail}
}

// Error returns a string representation of the error.
func (e *Error) Error() string {
	msg := "api service error: " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
