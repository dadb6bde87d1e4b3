package srp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Client holds the client-side state for a single SRP-6a handshake.
// A Client is single-use: a failed or completed handshake cannot be
// restarted, a new Client must be created instead.
type Client struct {
	Username string
	Password string
	Salt     []byte
	a        *big.Int // Client ephemeral private value
	A        *big.Int // Client ephemeral public value
	B        *big.Int // Server ephemeral public value (received from server)
	S        *big.Int // Premaster secret
	K        []byte   // Session key
	M        []byte   // Client proof
}

// NewClient creates a new SRP client for one authentication attempt.
func NewClient(username, password string) *Client {
	return &Client{
		Username: username,
		Password: password,
	}
}

// StartAuthentication generates the client's ephemeral keypair and returns
// the public value A = g^a mod N, hex-encoded for transmission.
func (c *Client) StartAuthentication() (string, error) {
	// 256 bits of entropy for the ephemeral private value a
	aBytes := make([]byte, 32)
	if _, err := rand.Read(aBytes); err != nil {
		return "", fmt.Errorf("failed to generate random a: %w", err)
	}
	return c.startWithEphemeral(new(big.Int).SetBytes(aBytes))
}

// startWithEphemeral computes A from a caller-supplied private value.
// Split out so the handshake math can be driven with a fixed ephemeral
// against reference vectors.
func (c *Client) startWithEphemeral(a *big.Int) (string, error) {
	c.a = a
	c.A = new(big.Int).Exp(G, c.a, N)

	if new(big.Int).Mod(c.A, N).Sign() == 0 {
		return "", fmt.Errorf("invalid A: A mod N == 0")
	}

	return hex.EncodeToString(c.A.Bytes()), nil
}

// ProcessChallenge consumes the server's challenge (hex-encoded salt and
// public ephemeral B), computes the premaster secret, session key, and
// client proof M, and returns M hex-encoded for transmission.
//
//nolint:gocritic // BHex is capitalized per RFC 5054 SRP-6a specification
func (c *Client) ProcessChallenge(saltHex, BHex string) (string, error) {
	if c.a == nil || c.A == nil {
		return "", fmt.Errorf("must call StartAuthentication first")
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("invalid salt encoding: %w", err)
	}
	if len(salt) == 0 {
		return "", fmt.Errorf("empty salt")
	}
	c.Salt = salt

	BBytes, err := hex.DecodeString(BHex)
	if err != nil {
		return "", fmt.Errorf("invalid B encoding: %w", err)
	}
	if len(BBytes) == 0 {
		return "", fmt.Errorf("empty B")
	}
	c.B = new(big.Int).SetBytes(BBytes)

	// Classic SRP safety check: B == 0 mod N would let the server force
	// a known premaster secret.
	if new(big.Int).Mod(c.B, N).Sign() == 0 {
		return "", fmt.Errorf("invalid B: B mod N == 0")
	}

	c.computeSessionKey()
	c.computeProof()

	return hex.EncodeToString(c.M), nil
}

// computeSessionKey computes the premaster secret S and session key K.
// Client formula: S = (B - k*g^x)^(a + u*x) mod N, K = H(S).
// k is the device's fixed multiplier constant (see params.go).
func (c *Client) computeSessionKey() {
	x := c.derivePrivateKey()
	u := c.computeU()

	gx := new(big.Int).Exp(G, x, N)

	kgx := new(big.Int).Mul(K, gx)
	kgx.Mod(kgx, N)

	base := new(big.Int).Sub(c.B, kgx)
	base.Mod(base, N)

	ux := new(big.Int).Mul(u, x)
	exponent := new(big.Int).Add(c.a, ux)

	c.S = new(big.Int).Exp(base, exponent, N)

	hash := sha256.New()
	hash.Write(c.S.Bytes())
	c.K = hash.Sum(nil)
}

// derivePrivateKey derives the private key x from username, password, and salt.
// x = H(salt | H(username | ":" | password))
func (c *Client) derivePrivateKey() *big.Int {
	innerHash := sha256.Sum256([]byte(c.Username + ":" + c.Password))

	outerHash := sha256.New()
	outerHash.Write(c.Salt)
	outerHash.Write(innerHash[:])

	return new(big.Int).SetBytes(outerHash.Sum(nil))
}

// computeU computes the scrambling parameter u = H(PAD(A) | PAD(B)),
// both values left-padded to the byte length of N.
func (c *Client) computeU() *big.Int {
	hash := sha256.New()

	maxLen := len(N.Bytes())
	ABytes := make([]byte, maxLen)
	BBytes := make([]byte, maxLen)

	ACopy := c.A.Bytes()
	BCopy := c.B.Bytes()

	copy(ABytes[maxLen-len(ACopy):], ACopy)
	copy(BBytes[maxLen-len(BCopy):], BCopy)

	hash.Write(ABytes)
	hash.Write(BBytes)

	return new(big.Int).SetBytes(hash.Sum(nil))
}

// computeProof computes the client proof
// M = H(H(N) XOR H(g) | H(username) | salt | A | B | K)
// with A and B as unpadded big-endian bytes.
func (c *Client) computeProof() {
	hashN := sha256.Sum256(N.Bytes())
	hashG := sha256.Sum256(G.Bytes())

	hashNXorG := make([]byte, len(hashN))
	for i := 0; i < len(hashN); i++ {
		hashNXorG[i] = hashN[i] ^ hashG[i]
	}

	hashUsername := sha256.Sum256([]byte(c.Username))

	hash := sha256.New()
	hash.Write(hashNXorG)
	hash.Write(hashUsername[:])
	hash.Write(c.Salt)
	hash.Write(c.A.Bytes())
	hash.Write(c.B.Bytes())
	hash.Write(c.K)

	c.M = hash.Sum(nil)
}

// SessionKey returns the computed session key K.
func (c *Client) SessionKey() []byte {
	return c.K
}

// ClearSecrets clears sensitive values from memory (best effort).
func (c *Client) ClearSecrets() {
	c.Password = ""

	if c.a != nil {
		c.a.SetInt64(0)
		c.a = nil
	}
	if c.S != nil {
		c.S.SetInt64(0)
		c.S = nil
	}

	for _, b := range [][]byte{c.Salt, c.K, c.M} {
		for i := range b {
			b[i] = 0
		}
	}
	c.Salt = nil
	c.K = nil
	c.M = nil
}
