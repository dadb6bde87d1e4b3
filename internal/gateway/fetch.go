package gateway

import (
	"net/http"

	"github.com/dslstats/tgstat/pkg/protocol"
)

const statsPath = "/modals/broadband-bridge-modal.lp"

// FetchStats retrieves the raw HTML of the broadband diagnostics page,
// logging in first if this client has not authenticated yet. The body is
// returned verbatim; extraction is the caller's concern.
func (c *Client) FetchStats() (string, error) {
	if !c.authenticated {
		if err := c.Login(); err != nil {
			return "", err
		}
	}

	status, body, err := c.get(statsPath)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &protocol.TransportError{Op: "stats page", Status: status}
	}

	return string(body), nil
}
