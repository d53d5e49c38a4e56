// Package apierr defines the tagged error type shared by the upstream
// clients and the HTTP layer. Handlers match on Kind instead of probing
// error strings.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the failure class of an upstream call.
type Kind int

const (
	// KindInvalid is a client input error (missing image, bad field).
	KindInvalid Kind = iota
	// KindTimeout is an upstream call that ran out of time.
	KindTimeout
	// KindNotFound is the semantic "nothing detected" sentinel from the model.
	KindNotFound
	// KindMalformed is model output with no parseable payload.
	KindMalformed
	// KindTransport is any other upstream/transport failure.
	KindTransport
)

// Error carries the failure class plus the HTTP status the handler layer
// should relay.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Invalid reports a client input error.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Timeout reports an upstream timeout.
func Timeout(format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Status: http.StatusRequestTimeout, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports the model's "nothing detected" sentinel.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Malformed reports model output that carried no usable payload.
func Malformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Status: http.StatusInternalServerError, Message: fmt.Sprintf(format, args...)}
}

// Transport reports an upstream failure, preserving its status when known.
// A zero status falls back to 500.
func Transport(status int, format string, args ...any) *Error {
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: KindTransport, Status: status, Message: fmt.Sprintf(format, args...)}
}

// StatusOf extracts the HTTP status to relay for err. Unknown error shapes
// map to 500 with their message preserved.
func StatusOf(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status, ae.Message
	}
	return http.StatusInternalServerError, err.Error()
}
