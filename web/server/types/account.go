package types

import "time"

// Grant is a scope granted by an issuer.
type Grant struct {
	Issuer string `json:"issuer"`
	Scope  string `json:"scope"`
}

// MeGetResponse describes the authenticated principal.
type MeGetResponse struct {
	Response
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	Roles     []string  `json:"roles"`
	Scopes    []Grant   `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MessageResponse is a response with a human readable message.
type MessageResponse struct {
	Response
	Message string `json:"message"`
}
