package cli

import (
	"fmt"
	"strings"
	"time"

	actx "go.hackfix.me/weave/app/context"
	aerrors "go.hackfix.me/weave/app/errors"
	"go.hackfix.me/weave/web/auth"
)

// The Token command issues a signed bearer token for a subject.
type Token struct {
	Subject string   `arg:"" help:"Identifier of the token subject, e.g. a user name."`
	Role    []string `short:"r" help:"Role granted to the subject. Can be specified multiple times."`
	//nolint:lll // Long struct tags are unavoidable.
	Scope      []string      `short:"s" help:"Scope granted to the subject, in [issuer=]scope format. Can be specified multiple times."`
	Expiration time.Duration `type:"lifetime" help:"Token expiration as a duration from now or a timestamp in RFC 3339 format (e.g. 1d or %s). Default: the configured token expiration."`
}

// Run the token command.
func (c *Token) Run(appCtx *actx.Context) error {
	secret, err := appCtx.Secret()
	if err != nil {
		return err
	}

	cfg := appCtx.Config
	cfg.SetDefaults()

	expiration := cfg.Auth.TokenExpiration.V
	if c.Expiration != 0 {
		expiration = c.Expiration
	}

	authn, err := auth.New(secret,
		auth.WithIssuer(cfg.Auth.Issuer.V),
		auth.WithExpiration(expiration),
		auth.WithRoles(auth.NewRoles(cfg.Auth.Roles)),
		auth.WithTimeSource(appCtx.TimeSource),
		auth.WithLogger(appCtx.Logger),
	)
	if err != nil {
		return fmt.Errorf("failed creating authenticator: %w", err)
	}

	scopes := make([]auth.Grant, 0, len(c.Scope))
	for _, s := range c.Scope {
		var g auth.Grant
		if issuer, scope, ok := strings.Cut(s, "="); ok {
			g = auth.Grant{Issuer: issuer, Scope: scope}
		} else {
			g = auth.Grant{Scope: s}
		}
		if g.Scope == "" {
			return aerrors.NewWith("empty scope", "value", s)
		}
		scopes = append(scopes, g)
	}

	token, p, err := authn.Issue(c.Subject, c.Role, scopes)
	if err != nil {
		return aerrors.NewWithCause("failed issuing token", err,
			"subject", c.Subject, "available_roles", strings.Join(cfg.RoleNames(), ","))
	}

	_, err = fmt.Fprintln(appCtx.Stdout, token)
	if err != nil {
		return fmt.Errorf("failed writing token: %w", err)
	}

	appCtx.Logger.Info("issued token",
		"subject", p.Subject, "issuer", p.Issuer,
		"expires_at", p.ExpiresAt.Format(time.RFC3339))

	return nil
}
