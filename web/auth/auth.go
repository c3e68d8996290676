// Package auth implements token based authentication for handler chains.
//
// Tokens are signed with a key derived from the application secret, and carry
// the subject, its roles and the scopes granted to it. They're accepted as
// bearer tokens in the Authorization header, or in a session cookie.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.hackfix.me/weave/crypto"
	"go.hackfix.me/weave/web/common"
	"go.hackfix.me/weave/web/server/handler"
	"go.hackfix.me/weave/xtime"
)

// Supported authentication schemes.
const (
	SchemeBearer = "Bearer"
	SchemeCookie = "Cookie"
)

// CookieName is the name of the session cookie read by the Cookie scheme.
const CookieName = "weave_session"

const signerPurpose = "weave auth token"

var (
	// ErrNoCredentials is returned when the request carries no token for the
	// requested scheme.
	ErrNoCredentials = errors.New("no credentials")
	// ErrExpired is returned for tokens past their expiration time.
	ErrExpired = errors.New("token expired")
)

// Authenticator validates signed tokens. It implements handler.Authenticator.
type Authenticator struct {
	signer     *crypto.Signer
	issuer     string
	expiration time.Duration
	roles      Roles
	timeSource xtime.Source
	logger     *slog.Logger
}

var _ handler.Authenticator = (*Authenticator)(nil)

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithIssuer sets the issuer of the tokens created by the Authenticator.
// Scopes in tokens without an explicit issuer are attributed to it.
func WithIssuer(issuer string) Option {
	return func(a *Authenticator) {
		a.issuer = issuer
	}
}

// WithExpiration sets the lifetime of issued tokens.
func WithExpiration(d time.Duration) Option {
	return func(a *Authenticator) {
		a.expiration = d
	}
}

// WithRoles sets the role definitions used to resolve scopes.
func WithRoles(roles Roles) Option {
	return func(a *Authenticator) {
		a.roles = roles
	}
}

// WithTimeSource sets the clock used for issuing and expiring tokens.
func WithTimeSource(ts xtime.Source) Option {
	return func(a *Authenticator) {
		a.timeSource = ts
	}
}

// WithLogger sets the logger of the Authenticator.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger.With("component", "auth")
	}
}

// New returns a new Authenticator that signs and verifies tokens with a key
// derived from secret.
func New(secret []byte, opts ...Option) (*Authenticator, error) {
	signer, err := crypto.NewSigner(secret, signerPurpose)
	if err != nil {
		return nil, fmt.Errorf("failed creating token signer: %w", err)
	}

	a := &Authenticator{
		signer:     signer,
		issuer:     "weave",
		expiration: 24 * time.Hour,
		roles:      Roles{},
		timeSource: xtime.System{},
		logger:     slog.Default().With("component", "auth"),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Issuer returns the issuer of the tokens created by a.
func (a *Authenticator) Issuer() string {
	return a.issuer
}

// Issue creates a signed token for subject.
func (a *Authenticator) Issue(subject string, roles []string, scopes []Grant) (string, *Principal, error) {
	if subject == "" {
		return "", nil, errors.New("empty subject")
	}
	for _, r := range roles {
		if _, ok := a.roles[r]; !ok {
			return "", nil, fmt.Errorf("unknown role '%s'", r)
		}
	}

	now := a.timeSource.Now().UTC()
	p := &Principal{
		Subject:   subject,
		Issuer:    a.issuer,
		Roles:     slices.Clone(roles),
		Scopes:    slices.Clone(scopes),
		IssuedAt:  now.Truncate(time.Second),
		ExpiresAt: now.Add(a.expiration).Truncate(time.Second),
	}

	payload, err := json.Marshal(p.claims())
	if err != nil {
		return "", nil, fmt.Errorf("failed encoding token claims: %w", err)
	}

	return common.EncodeToken(payload, a.signer), p, nil
}

// Verify parses token, and returns its principal if the signature is valid and
// the token hasn't expired.
func (a *Authenticator) Verify(token string) (*Principal, error) {
	payload, err := common.DecodeToken(token, a.signer)
	if err != nil {
		return nil, err //nolint:wrapcheck // The token errors are descriptive enough.
	}

	var cl claims
	if err = json.Unmarshal(payload, &cl); err != nil {
		return nil, fmt.Errorf("failed decoding token claims: %w", err)
	}

	p := cl.principal()
	if !a.timeSource.Now().Before(p.ExpiresAt) {
		return nil, ErrExpired
	}

	return p, nil
}

// Authenticate implements handler.Authenticator. On success, the principal is
// associated with the request, so that the predicates and PrincipalFrom can
// access it.
func (a *Authenticator) Authenticate(c *handler.Context, scheme string) handler.AuthResult {
	token, err := credentials(c.Request, scheme)
	if err != nil {
		return handler.AuthFailure(err)
	}

	p, err := a.Verify(token)
	if err != nil {
		a.logger.Debug("rejected token", "scheme", scheme, "error", err.Error())
		return handler.AuthFailure(err)
	}
	c.Set(principalKey{}, p)

	return handler.AuthSuccess(p)
}

// IsAuthenticated implements handler.Authenticator. If no scheme was run
// explicitly, the bearer and cookie schemes are tried in that order.
func (a *Authenticator) IsAuthenticated(c *handler.Context) bool {
	_, ok := a.principal(c)
	return ok
}

// IsInRole implements handler.Authenticator.
func (a *Authenticator) IsInRole(c *handler.Context, roles []string) bool {
	p, ok := a.principal(c)
	if !ok {
		return false
	}

	return slices.ContainsFunc(roles, p.InRole)
}

// HasScope implements handler.Authenticator. The scope is held if it was
// granted explicitly in the token, or if it's granted to one of the roles of
// the principal by the role definitions of a, in which case issuer must be
// the issuer of a.
func (a *Authenticator) HasScope(c *handler.Context, issuer, scope string) bool {
	p, ok := a.principal(c)
	if !ok {
		return false
	}

	if slices.Contains(p.Scopes, Grant{Issuer: issuer, Scope: scope}) {
		return true
	}
	if issuer != p.Issuer {
		return false
	}

	return a.roles.Can(p.Roles, issuer, scope)
}

// principal returns the principal associated with the request, trying all
// schemes if no authentication was done yet.
func (a *Authenticator) principal(c *handler.Context) (*Principal, bool) {
	if p, ok := PrincipalFrom(c); ok {
		return p, true
	}
	if _, ok := c.Value(attemptedKey{}).(bool); ok {
		return nil, false
	}

	for _, scheme := range []string{SchemeBearer, SchemeCookie} {
		if res := a.Authenticate(c, scheme); res.Succeeded() {
			return res.Principal().(*Principal), true //nolint:forcetypeassert // Always a *Principal.
		}
	}
	c.Set(attemptedKey{}, true)

	return nil, false
}

type (
	principalKey struct{}
	attemptedKey struct{}
)

// PrincipalFrom returns the principal authenticated for the request, if any.
func PrincipalFrom(c *handler.Context) (*Principal, bool) {
	p, ok := c.Value(principalKey{}).(*Principal)
	return p, ok
}

func credentials(r *http.Request, scheme string) (string, error) {
	switch scheme {
	case SchemeBearer:
		authz := r.Header.Get("Authorization")
		prefix, token, found := strings.Cut(authz, " ")
		if !found || !strings.EqualFold(prefix, SchemeBearer) || token == "" {
			return "", ErrNoCredentials
		}
		return strings.TrimSpace(token), nil
	case SchemeCookie:
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return "", ErrNoCredentials
		}
		return cookie.Value, nil
	default:
		return "", fmt.Errorf("unsupported authentication scheme '%s'", scheme)
	}
}
