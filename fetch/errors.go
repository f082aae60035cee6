package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is the sentinel wrapped by [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedStatus is the sentinel wrapped by [AJAXError].
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrDecode is the sentinel wrapped by [DecodeError].
	ErrDecode = errors.New("decode failure")
)

// unauthorizedHint replaces the raw 401 status text when the request
// URL matches the client's hosted-API pattern. It points the caller at
// credential misconfiguration rather than a generic auth failure.
const unauthorizedHint = "Unauthorized: you may have provided an invalid API access token, " +
	"or your token may not be authorized for this endpoint"

// TransportError is returned when the network exchange never
// completed: DNS failure, connection reset, context expiry mid-read.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %v: %s", ErrTransport, e.Err, e.URL)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// AJAXError is returned when the exchange completed but the response is
// unacceptable: a status outside [200,300) that is not the opaque
// success sentinel 0. Status and URL are exposed for programmatic
// handling, e.g. distinguishing auth failures.
type AJAXError struct {
	Status  int
	URL     string
	Message string
}

func (e *AJAXError) Error() string {
	return fmt.Sprintf("AJAXError: %s (%d): %s", e.Message, e.Status, e.URL)
}

func (e *AJAXError) Unwrap() error {
	return ErrUnexpectedStatus
}

// DecodeError is returned when a body arrived but could not be parsed
// or decoded: a malformed JSON payload, or image bytes the decoder
// rejects.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %v: %s", ErrDecode, e.Err, e.URL)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// ErrorKind tags the three failure variants a callback can receive.
// Callers match on it instead of relying on concrete error types.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindProtocol
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Kind classifies err into one of the failure variants. Errors that
// originate outside the dispatcher, such as validation failures, report
// KindUnknown.
func Kind(err error) ErrorKind {
	var (
		te *TransportError
		ae *AJAXError
		de *DecodeError
	)
	switch {
	case errors.As(err, &te):
		return KindTransport
	case errors.As(err, &ae):
		return KindProtocol
	case errors.As(err, &de):
		return KindDecode
	default:
		return KindUnknown
	}
}
