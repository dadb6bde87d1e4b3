package protocol_test

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dslstats/tgstat/pkg/protocol"
)

func TestTransportError_Error(t *testing.T) {
	err := &protocol.TransportError{Op: "authenticate", Status: 503}
	assert.Equal(t, "authenticate: unexpected HTTP status 503", err.Error())

	wrapped := &protocol.TransportError{Op: "getcsrf", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	assert.Contains(t, wrapped.Error(), "getcsrf")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := errors.New("timeout")
	err := &protocol.TransportError{Op: "fetch", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestProtocolError_Error(t *testing.T) {
	err := &protocol.ProtocolError{Reason: "bad csrf"}
	assert.Equal(t, "bad csrf", err.Error())

	wrapped := &protocol.ProtocolError{Reason: "malformed challenge", Err: errors.New("empty B")}
	assert.Equal(t, "malformed challenge: empty B", wrapped.Error())
}

func TestCredentialError_Error(t *testing.T) {
	assert.Equal(t, "authentication rejected: Invalid password",
		(&protocol.CredentialError{Detail: "Invalid password"}).Error())
	assert.Equal(t, "authentication rejected",
		(&protocol.CredentialError{}).Error())
}

func TestExtractionError_Error(t *testing.T) {
	err := &protocol.ExtractionError{Label: "Line Rate"}
	assert.Contains(t, err.Error(), `"Line Rate"`)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, protocol.IsRetryable(&protocol.TransportError{Op: "fetch", Status: 500}))
	assert.True(t, protocol.IsRetryable(fmt.Errorf("wrapped: %w", &protocol.TransportError{Op: "fetch", Status: 500})))

	assert.False(t, protocol.IsRetryable(&protocol.ProtocolError{Reason: "bad csrf"}))
	assert.False(t, protocol.IsRetryable(&protocol.CredentialError{}))
	assert.False(t, protocol.IsRetryable(errors.New("other")))
}

func TestIsCredentialError(t *testing.T) {
	assert.True(t, protocol.IsCredentialError(&protocol.CredentialError{Detail: "nope"}))
	assert.True(t, protocol.IsCredentialError(fmt.Errorf("login: %w", &protocol.CredentialError{})))
	assert.False(t, protocol.IsCredentialError(&protocol.TransportError{Op: "x", Status: 401}))
}
