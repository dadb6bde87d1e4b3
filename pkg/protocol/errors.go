// Package protocol defines the error taxonomy shared by the gateway client
// and the stats extractor. The types encode retry semantics: only transport
// failures are worth retrying with a fresh handshake, protocol and
// credential failures are terminal.
package protocol

import (
	"errors"
	"fmt"
)

// TransportError indicates a connection, timeout, or unexpected HTTP status
// failure unrelated to credentials. The caller may retry with a fresh
// handshake.
type TransportError struct {
	Op     string // the request that failed, e.g. "authenticate"
	Status int    // HTTP status code, 0 if the request never completed
	Err    error  // underlying network error, if any
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected HTTP status %d", e.Op, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates the gateway sent something the client cannot
// accept: a malformed CSRF token, an undecodable challenge, a zero server
// ephemeral. This is a server/API mismatch, not retryable.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// CredentialError indicates the gateway explicitly rejected the client
// proof. Never retry with the same credentials.
type CredentialError struct {
	Detail string
}

func (e *CredentialError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("authentication rejected: %s", e.Detail)
	}
	return "authentication rejected"
}

// ExtractionError indicates the diagnostic page did not contain the
// expected pair of values for a metric label. Fatal for the run; no
// partial result is produced.
type ExtractionError struct {
	Label string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract %q values from page", e.Label)
}

// IsRetryable reports whether err represents a transport-layer failure
// that may succeed on a fresh attempt.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsCredentialError reports whether err is a credential rejection.
func IsCredentialError(err error) bool {
	var ce *CredentialError
	return errors.As(err, &ce)
}
