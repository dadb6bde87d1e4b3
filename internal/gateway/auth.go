package gateway

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/dslstats/tgstat/pkg/protocol"
	"github.com/dslstats/tgstat/pkg/srp"
)

const (
	csrfPath = "/login.lp?action=getcsrf"
	authPath = "/authenticate"

	// The CSRF endpoint returns the bare token as the response body.
	csrfTokenLength = 64
)

// challengeResponse is the JSON body of the first /authenticate reply.
type challengeResponse struct {
	Salt string `json:"s"`
	B    string `json:"B"`
}

// proofResponse is the JSON body of the second /authenticate reply.
// On success the object is empty; on rejection it carries an error string.
type proofResponse struct {
	Error string `json:"error"`
}

// Login runs the SRP-6a handshake against the modem. On success the
// client's cookie jar holds the authenticated session. Each call starts
// from scratch with a fresh CSRF token and a fresh ephemeral; a failed
// handshake cannot be resumed.
func (c *Client) Login() error {
	csrf, err := c.fetchCSRF()
	if err != nil {
		return err
	}

	srpClient := srp.NewClient(c.creds.Username, c.creds.Password)
	defer srpClient.ClearSecrets()

	AHex, err := srpClient.StartAuthentication()
	if err != nil {
		return &protocol.ProtocolError{Reason: "failed to generate ephemeral", Err: err}
	}
	c.log.WithField("A", AHex).Debug("sending public ephemeral")

	// First POST: identity and public ephemeral, bound to the CSRF token
	status, body, err := c.postForm(authPath, url.Values{
		"I":         {c.creds.Username},
		"A":         {AHex},
		"CSRFtoken": {csrf},
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		c.log.WithField("body", string(body)).Debug("authenticate returned non-200")
		return &protocol.TransportError{Op: "authenticate", Status: status}
	}

	var challenge challengeResponse
	if err := json.Unmarshal(body, &challenge); err != nil {
		return &protocol.ProtocolError{Reason: "malformed challenge", Err: err}
	}
	c.log.WithFields(logrus.Fields{
		"s": challenge.Salt,
		"B": challenge.B,
	}).Debug("received server challenge")

	MHex, err := srpClient.ProcessChallenge(challenge.Salt, challenge.B)
	if err != nil {
		return &protocol.ProtocolError{Reason: "malformed challenge", Err: err}
	}
	c.log.WithField("M", MHex).Debug("sending client proof")

	// Second POST: client proof, same CSRF token as the first POST.
	// The token is not refreshed mid-handshake.
	status, body, err = c.postForm(authPath, url.Values{
		"M":         {MHex},
		"CSRFtoken": {csrf},
	})
	if err != nil {
		return err
	}

	// An explicit error field is a credential rejection regardless of
	// status; nothing else in the reply matters at that point. The modem
	// sends no server proof (M2), so there is nothing further to verify.
	var proof proofResponse
	if json.Unmarshal(body, &proof) == nil && proof.Error != "" {
		c.log.WithField("error", proof.Error).Debug("proof rejected")
		return &protocol.CredentialError{Detail: proof.Error}
	}
	if status != http.StatusOK {
		c.log.WithField("body", string(body)).Debug("proof POST returned non-200")
		return &protocol.TransportError{Op: "authenticate", Status: status}
	}

	c.authenticated = true
	c.log.Info("authenticated with modem")
	return nil
}

// fetchCSRF retrieves the per-session CSRF token. The modem returns the
// token as a bare 64-character body; anything else is a protocol violation.
func (c *Client) fetchCSRF() (string, error) {
	status, body, err := c.get(csrfPath)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &protocol.TransportError{Op: "getcsrf", Status: status}
	}

	csrf := string(body)
	if len(csrf) != csrfTokenLength {
		c.log.WithField("csrf", csrf).Debug("unexpected csrf response")
		return "", &protocol.ProtocolError{Reason: "bad csrf"}
	}
	c.log.WithField("csrf", csrf).Debug("fetched csrf token")

	return csrf, nil
}
