package hubapi

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the client can return. Use
// errors.Is to test for them; the concrete value is always *Error.
var (
	// ErrFetchFailed means the node tree or pending-update list could not
	// be retrieved. Nothing partial is returned alongside it.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUpdateRejected means the hub answered a mutation with a non-2xx
	// status or a non-success body.
	ErrUpdateRejected = errors.New("update rejected")

	// ErrTransport means the request never produced an HTTP response.
	ErrTransport = errors.New("transport error")
)

// GenericFailureMessage is used when the hub rejects a mutation without
// saying why.
const GenericFailureMessage = "An unexpected error occurred."

// Error is the concrete error returned by Client methods.
type Error struct {
	Op      string // client method, e.g. "UpdateNodeHistory"
	Kind    error  // one of the sentinel errors above
	Status  int    // HTTP status code, 0 when no response was received
	Message string // human-readable text suitable for a status line
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("hubapi: %s: %v (HTTP %d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("hubapi: %s: %v: %s", e.Op, e.Kind, msg)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// MessageOf returns the display message carried by err, or fallback when
// err is not a *Error or carries no message.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func transportError(op string, cause error) *Error {
	return &Error{Op: op, Kind: ErrTransport, Err: cause}
}
