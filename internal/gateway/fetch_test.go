package gateway_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dslstats/tgstat/pkg/protocol"
)

func TestFetchStats_AuthenticatesFirst(t *testing.T) {
	modem := newFakeModem()
	client := newTestClient(t, modem)

	body, err := client.FetchStats()
	require.NoError(t, err)
	assert.Equal(t, statsHTML, body, "page body must be returned verbatim")

	assert.Len(t, modem.authPosts, 2)
	assert.Equal(t, 1, modem.statsHits)
	assert.True(t, modem.sawCookie, "stats request must carry the session cookie")
}

func TestFetchStats_ReusesSession(t *testing.T) {
	modem := newFakeModem()
	client := newTestClient(t, modem)

	_, err := client.FetchStats()
	require.NoError(t, err)
	_, err = client.FetchStats()
	require.NoError(t, err)

	assert.Len(t, modem.authPosts, 2, "second fetch must not re-run the handshake")
	assert.Equal(t, 2, modem.statsHits)
}

func TestFetchStats_NoFetchAfterRejection(t *testing.T) {
	modem := newFakeModem()
	modem.proofReply = `{"error": "Invalid password"}`
	client := newTestClient(t, modem)

	_, err := client.FetchStats()
	require.Error(t, err)
	assert.True(t, protocol.IsCredentialError(err))
	assert.Zero(t, modem.statsHits, "no page fetch may be attempted after a rejected handshake")
}
