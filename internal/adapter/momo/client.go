// Package momo speaks the private protocol of the MoMo wallet app: the
// request envelope, the checksum scheme and the login/transfer calls.
package momo

import (
	"net/http"
	"time"

	"momo-bridge/pkg/logger"

	"github.com/rs/zerolog"
)

// ephemeralKeyLength is the size of the per-request AES secret.
const ephemeralKeyLength = 32

// rkeyLength is the size of the per-registration random key.
const rkeyLength = 20

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs wallet operations. It holds no per-user state and is safe
// for concurrent use.
type Client struct {
	httpClient HTTPClient
	profile    AppProfile
	endpoints  Endpoints
	log        zerolog.Logger

	now       func() time.Time
	randomKey func(n int) (string, error)
}

// NewClient creates a wallet client for the given app profile.
func NewClient(httpClient HTTPClient, profile AppProfile, endpoints Endpoints, log zerolog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		profile:    profile,
		endpoints:  endpoints,
		log:        logger.Component(log, "momo"),
		now:        time.Now,
		randomKey:  RandomKey,
	}
}

// Profile returns the app profile the client impersonates.
func (c *Client) Profile() AppProfile {
	return c.profile
}

func (c *Client) nowMillis() int64 {
	return c.now().UnixMilli()
}
