// Package csrf implements anti-forgery token validation using signed double
// submit cookies.
//
// A token is issued in a cookie, and must be submitted back with every unsafe
// request in a header or a form field. Since the cookie can't be set by other
// origins, a matching pair proves that the request came from a page served by
// the application.
package csrf

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"go.hackfix.me/weave/crypto"
	"go.hackfix.me/weave/web/common"
	"go.hackfix.me/weave/web/server/handler"
)

// Default names of the token cookie, header and form field.
const (
	DefaultCookieName = "weave_csrf"
	DefaultHeaderName = "X-CSRF-Token"
	DefaultFieldName  = "_csrf"
)

const (
	signerPurpose = "weave csrf token"
	nonceSize     = 32
)

// Validator issues and validates anti-forgery tokens. It implements
// handler.CSRFValidator.
type Validator struct {
	signer     *crypto.Signer
	cookieName string
	headerName string
	fieldName  string
	secure     bool
	logger     *slog.Logger
}

var _ handler.CSRFValidator = (*Validator)(nil)

// Option configures a Validator.
type Option func(*Validator)

// WithCookieName sets the name of the token cookie.
func WithCookieName(name string) Option {
	return func(v *Validator) {
		v.cookieName = name
	}
}

// WithHeaderName sets the name of the header the token is submitted in.
func WithHeaderName(name string) Option {
	return func(v *Validator) {
		v.headerName = name
	}
}

// WithFieldName sets the name of the form field the token is submitted in.
func WithFieldName(name string) Option {
	return func(v *Validator) {
		v.fieldName = name
	}
}

// WithSecureCookie sets the Secure attribute of the token cookie.
func WithSecureCookie(secure bool) Option {
	return func(v *Validator) {
		v.secure = secure
	}
}

// WithLogger sets the logger of the Validator.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger.With("component", "csrf")
	}
}

// New returns a new Validator that signs tokens with a key derived from secret.
func New(secret []byte, opts ...Option) (*Validator, error) {
	signer, err := crypto.NewSigner(secret, signerPurpose)
	if err != nil {
		return nil, fmt.Errorf("failed creating token signer: %w", err)
	}

	v := &Validator{
		signer:     signer,
		cookieName: DefaultCookieName,
		headerName: DefaultHeaderName,
		fieldName:  DefaultFieldName,
		logger:     slog.Default().With("component", "csrf"),
	}
	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// HeaderName returns the name of the header the token is submitted in.
func (v *Validator) HeaderName() string {
	return v.headerName
}

// FieldName returns the name of the form field the token is submitted in.
func (v *Validator) FieldName() string {
	return v.fieldName
}

// Issue returns the token of the request, and sets it in the response cookie.
// The token in the request cookie is reused if it's valid.
func (v *Validator) Issue(c *handler.Context) (string, error) {
	if token, ok := v.cookieToken(c.Request); ok {
		return token, nil
	}

	nonce, err := crypto.RandomData(nonceSize)
	if err != nil {
		return "", fmt.Errorf("failed generating CSRF token: %w", err)
	}
	token := common.EncodeToken(nonce, v.signer)

	http.SetCookie(c.Response, &http.Cookie{
		Name:     v.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   v.secure,
		SameSite: http.SameSiteStrictMode,
	})
	// Make the token visible to validation within the same request.
	c.Request.AddCookie(&http.Cookie{Name: v.cookieName, Value: token})

	return token, nil
}

// Token issues a token and passes it to next.
func (v *Validator) Token(next func(string) handler.Handler) handler.Handler {
	return func(c *handler.Context) error {
		token, err := v.Issue(c)
		if err != nil {
			return err
		}
		return next(token)(c)
	}
}

// ValidateToken implements handler.CSRFValidator. Requests with safe methods
// are always valid. Otherwise, the submitted token must match the one in the
// cookie. The token is looked up in the header first, and then in the form
// body, unless the body is reserved for a streaming reader. A form that can't
// be read makes the token invalid, and handler.MapFormSecure then responds with
// the read error.
func (v *Validator) ValidateToken(c *handler.Context) bool {
	switch c.Verb() {
	case handler.GET, handler.HEAD, handler.OPTIONS, handler.TRACE:
		return true
	}

	expected, ok := v.cookieToken(c.Request)
	if !ok {
		v.logger.Debug("missing or invalid CSRF cookie", "path", c.Request.URL.Path)
		return false
	}

	submitted := c.Request.Header.Get(v.headerName)
	if submitted == "" && !c.BodyReserved() {
		form, err := handler.ReadForm(c)
		if err != nil {
			v.logger.Debug("failed reading CSRF form field", "error", err.Error())
			return false
		}
		submitted = form.GetOr(v.fieldName, "")
	}

	if subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) != 1 {
		v.logger.Debug("CSRF token mismatch", "path", c.Request.URL.Path)
		return false
	}

	return true
}

// cookieToken returns the token in the request cookie, if it's present and
// validly signed.
func (v *Validator) cookieToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(v.cookieName)
	if err != nil {
		return "", false
	}
	if _, err = common.DecodeToken(cookie.Value, v.signer); err != nil {
		return "", false
	}

	return cookie.Value, true
}
