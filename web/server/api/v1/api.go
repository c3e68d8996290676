package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.hackfix.me/weave/web/auth"
	"go.hackfix.me/weave/web/csrf"
	"go.hackfix.me/weave/web/server/handler"
)

// Prefix is the path prefix of all API endpoints.
const Prefix = "/api/v1"

// Handler is the API endpoint handler.
type Handler struct {
	auth   *auth.Authenticator
	csrf   *csrf.Validator
	logger *slog.Logger
}

// Route is an API endpoint.
type Route struct {
	Method      string
	Path        string
	Description string
	handler     handler.Handler
}

// Pattern returns the http.ServeMux pattern of the route.
func (r Route) Pattern() string {
	return fmt.Sprintf("%s %s%s", r.Method, Prefix, r.Path)
}

// New returns a new API Handler. The capabilities are only used while
// serving requests, so they can be nil if only the routes are inspected.
func New(authn *auth.Authenticator, csrfv *csrf.Validator, logger *slog.Logger) *Handler {
	return &Handler{auth: authn, csrf: csrfv, logger: logger}
}

// Routes returns all API endpoints.
func (h *Handler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/hello/{name}", "Greet by name (route value, optional greeting query)", h.HelloGet()},
		{http.MethodGet, "/search", "Search the proverbs (bound query)", h.SearchGet()},
		{http.MethodGet, "/prefs", "Show the preferences stored in cookies", h.PrefsGet()},
		{http.MethodGet, "/agent", "Describe the client (headers)", h.AgentGet()},
		{http.MethodPost, "/echo", "Echo the text body", h.EchoPost()},
		{http.MethodPost, "/people", "Register a person (JSON body)", h.PeoplePost()},
		{http.MethodGet, "/csrf", "Issue an anti-forgery token", h.CSRFGet()},
		{http.MethodPost, "/contact", "Submit the contact form (CSRF protected)", h.ContactPost()},
		{http.MethodPost, "/upload", "Upload files (CSRF protected, streamed)", h.UploadPost()},
		{http.MethodGet, "/me", "Describe the bearer token principal", h.MeGet()},
		{http.MethodGet, "/private", "Authenticated only", h.PrivateGet()},
		{http.MethodGet, "/login-hint", "Unauthenticated only", h.LoginHintGet()},
		{http.MethodGet, "/admin", "Authenticated with the admin role", h.AdminGet()},
		{http.MethodGet, "/reports", "Authenticated with the reports:read scope", h.ReportsGet()},
	}
}

// SetupHandlers registers the API endpoints on mux. The options configure how
// requests are processed, see handler.Serve.
func (h *Handler) SetupHandlers(mux *http.ServeMux, opts ...handler.Option) {
	for _, r := range h.Routes() {
		mux.Handle(r.Pattern(), handler.Serve(r.handler, opts...))
	}
}

// fail returns a Handler that fails with err.
func fail(err error) handler.Handler {
	return func(*handler.Context) error {
		return err
	}
}
