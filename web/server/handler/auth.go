package handler

// Authenticator is the interface to the identity subsystem. Only Authenticate
// may block; the predicates evaluate the identity already associated with the
// request.
type Authenticator interface {
	// Authenticate runs the named authentication scheme against the request.
	Authenticate(c *Context, scheme string) AuthResult
	// IsAuthenticated returns true if the request carries a valid identity.
	IsAuthenticated(c *Context) bool
	// IsInRole returns true if the identity is a member of any of the roles.
	IsInRole(c *Context, roles []string) bool
	// HasScope returns true if the identity holds the scope issued by issuer.
	HasScope(c *Context, issuer, scope string) bool
}

// AuthResult is the outcome of an authentication attempt. Its zero value means
// that no identity was found.
type AuthResult struct {
	principal any
	err       error
}

// AuthSuccess returns a successful result for the authenticated principal.
func AuthSuccess(principal any) AuthResult {
	return AuthResult{principal: principal}
}

// AuthFailure returns a failed result.
func AuthFailure(err error) AuthResult {
	return AuthResult{err: err}
}

// Succeeded returns true if authentication was successful.
func (r AuthResult) Succeeded() bool {
	return r.err == nil && r.principal != nil
}

// Principal returns the authenticated principal, or nil.
func (r AuthResult) Principal() any {
	return r.principal
}

// Err returns the reason authentication failed, if any.
func (r AuthResult) Err() error {
	return r.err
}

// Authenticate runs the named scheme and passes the result to next, whether
// authentication succeeded or not.
func Authenticate(auth Authenticator, scheme string, next func(AuthResult) Handler) Handler {
	return func(c *Context) error {
		return next(auth.Authenticate(c, scheme))(c)
	}
}

// IfAuthenticated invokes ok if the request is authenticated, and fail
// otherwise.
func IfAuthenticated(auth Authenticator, ok, fail Handler) Handler {
	return func(c *Context) error {
		if auth.IsAuthenticated(c) {
			return ok(c)
		}
		return fail(c)
	}
}

// IfNotAuthenticated invokes ok if the request is not authenticated, and fail
// otherwise.
func IfNotAuthenticated(auth Authenticator, ok, fail Handler) Handler {
	return func(c *Context) error {
		if !auth.IsAuthenticated(c) {
			return ok(c)
		}
		return fail(c)
	}
}

// IfAuthenticatedInRole invokes ok if the request is authenticated and the
// identity is a member of at least one of the roles, and fail otherwise.
func IfAuthenticatedInRole(auth Authenticator, roles []string, ok, fail Handler) Handler {
	return func(c *Context) error {
		if auth.IsAuthenticated(c) && auth.IsInRole(c, roles) {
			return ok(c)
		}
		return fail(c)
	}
}

// IfAuthenticatedWithScope invokes ok if the request is authenticated and the
// identity holds scope issued by issuer, and fail otherwise.
func IfAuthenticatedWithScope(auth Authenticator, issuer, scope string, ok, fail Handler) Handler {
	return func(c *Context) error {
		if auth.IsAuthenticated(c) && auth.HasScope(c, issuer, scope) {
			return ok(c)
		}
		return fail(c)
	}
}
