package api

import (
	"net/http"

	"go.hackfix.me/weave/web/auth"
	"go.hackfix.me/weave/web/server/handler"
	"go.hackfix.me/weave/web/server/types"
)

// MeGet describes the principal of the bearer token.
func (h *Handler) MeGet() handler.Handler {
	return handler.Authenticate(h.auth, auth.SchemeBearer, func(res handler.AuthResult) handler.Handler {
		if !res.Succeeded() {
			return handler.JSON(http.StatusUnauthorized, handler.NewResponse(http.StatusUnauthorized, res.Err()))
		}

		p := res.Principal().(*auth.Principal) //nolint:forcetypeassert // The Authenticator always returns a *Principal.
		resp := types.MeGetResponse{
			Response:  types.OK(http.StatusOK),
			Subject:   p.Subject,
			Issuer:    p.Issuer,
			Roles:     append([]string{}, p.Roles...),
			Scopes:    make([]types.Grant, 0, len(p.Scopes)),
			ExpiresAt: p.ExpiresAt,
		}
		for _, g := range p.Scopes {
			resp.Scopes = append(resp.Scopes, types.Grant{Issuer: g.Issuer, Scope: g.Scope})
		}

		return handler.JSON(http.StatusOK, resp)
	})
}

// PrivateGet is only accessible to authenticated clients.
func (h *Handler) PrivateGet() handler.Handler {
	return handler.IfAuthenticated(h.auth,
		message(http.StatusOK, "welcome back"),
		handler.Fail(http.StatusUnauthorized, "authentication required"))
}

// LoginHintGet explains how to authenticate. Authenticated clients are
// redirected to their profile.
func (h *Handler) LoginHintGet() handler.Handler {
	return handler.IfNotAuthenticated(h.auth,
		message(http.StatusOK, "send a token created with 'weave token' in the Authorization header"),
		handler.Redirect(Prefix+"/me", http.StatusSeeOther))
}

// AdminGet is only accessible to members of the admin role.
func (h *Handler) AdminGet() handler.Handler {
	return handler.IfAuthenticatedInRole(h.auth, []string{"admin"},
		message(http.StatusOK, "hello, admin"),
		handler.Fail(http.StatusForbidden, "the admin role is required"))
}

// ReportsGet is only accessible to principals holding the reports:read scope
// issued by this server.
func (h *Handler) ReportsGet() handler.Handler {
	return func(c *handler.Context) error {
		return handler.IfAuthenticatedWithScope(h.auth, h.auth.Issuer(), "reports:read",
			handler.JSON(http.StatusOK, map[string]any{
				"reports": []string{"daily-usage", "weekly-errors"},
			}),
			handler.Fail(http.StatusForbidden, "the reports:read scope is required"))(c)
	}
}

func message(statusCode int, msg string) handler.Handler {
	return handler.JSON(statusCode, types.MessageResponse{
		Response: types.OK(statusCode),
		Message:  msg,
	})
}
