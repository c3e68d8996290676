// Package client implements a client of the Weave HTTP API.
package client

import (
	"log/slog"
	"net/http"
	"time"
)

// Client is a friendly interface over the Weave HTTP API.
type Client struct {
	*http.Client
	address string
	token   string
	logger  *slog.Logger
}

// New returns a new client of the server listening on address, in host:port
// format.
func New(address string, logger *slog.Logger) *Client {
	return &Client{
		Client: &http.Client{
			Timeout: time.Minute,
			Transport: &http.Transport{
				DisableCompression: false,
			},
		},
		address: address,
		logger:  logger.With("component", "web-client"),
	}
}

// WithToken returns a copy of the client that authenticates requests with the
// bearer token.
func (c *Client) WithToken(token string) *Client {
	cc := *c
	cc.token = token
	return &cc
}
