// Package gateway implements the HTTP session against a Technicolor
// TGiiNet-family modem: the SRP-6a login handshake and the authenticated
// retrieval of the broadband diagnostics page.
//
// The modem speaks plain HTTP; authentication state lives in session
// cookies set by the two /authenticate POSTs. At debug verbosity the
// handshake values (CSRF token, A, s, B, M) are logged for protocol
// diagnostics; the password and derived session key never are.
package gateway

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dslstats/tgstat/pkg/protocol"
)

const defaultTimeout = 20 * time.Second

// Credentials holds the login identity for one session. Never transmitted
// in cleartext: only SRP proof material derived from it goes on the wire.
type Credentials struct {
	Username string
	Password string
}

// Client is an HTTP client for the modem's web management interface.
// It is single-session and not safe for concurrent use.
type Client struct {
	baseURL       string
	creds         Credentials
	httpClient    *http.Client
	log           *logrus.Logger
	authenticated bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger supplies the logger used for handshake diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for the modem at the given address (host or
// host:port, no scheme).
func New(address string, creds Credentials, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: fmt.Sprintf("http://%s", address),
		creds:   creds,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
		log: logrus.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// get performs a GET request and returns the status code and body.
// Connection-level failures come back as *protocol.TransportError.
func (c *Client) get(path string) (int, []byte, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return 0, nil, &protocol.TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &protocol.TransportError{Op: path, Err: err}
	}

	return resp.StatusCode, body, nil
}

// postForm performs a form-encoded POST and returns the status code and body.
func (c *Client) postForm(path string, form url.Values) (int, []byte, error) {
	resp, err := c.httpClient.PostForm(c.baseURL+path, form)
	if err != nil {
		return 0, nil, &protocol.TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &protocol.TransportError{Op: path, Err: err}
	}

	return resp.StatusCode, body, nil
}
