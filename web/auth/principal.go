package auth

import (
	"slices"
	"time"
)

// Grant is a scope granted by an issuer.
type Grant struct {
	Issuer string `json:"iss"`
	Scope  string `json:"scope"`
}

// Principal is an authenticated identity.
type Principal struct {
	Subject   string
	Issuer    string
	Roles     []string
	Scopes    []Grant
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// InRole returns true if the principal is a member of role.
func (p *Principal) InRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// claims is the signed token payload.
type claims struct {
	Subject   string   `json:"sub"`
	Issuer    string   `json:"iss"`
	Roles     []string `json:"roles,omitempty"`
	Scopes    []Grant  `json:"scopes,omitempty"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
}

func (p *Principal) claims() claims {
	return claims{
		Subject:   p.Subject,
		Issuer:    p.Issuer,
		Roles:     p.Roles,
		Scopes:    p.Scopes,
		IssuedAt:  p.IssuedAt.Unix(),
		ExpiresAt: p.ExpiresAt.Unix(),
	}
}

func (cl claims) principal() *Principal {
	p := &Principal{
		Subject:   cl.Subject,
		Issuer:    cl.Issuer,
		Roles:     cl.Roles,
		Scopes:    make([]Grant, 0, len(cl.Scopes)),
		IssuedAt:  time.Unix(cl.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(cl.ExpiresAt, 0).UTC(),
	}
	for _, g := range cl.Scopes {
		if g.Issuer == "" {
			g.Issuer = cl.Issuer
		}
		p.Scopes = append(p.Scopes, g)
	}

	return p
}
