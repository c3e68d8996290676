package handler

// CSRFValidator validates the anti-forgery token of a request.
//
// Tokens of streamed multipart forms must be sent out-of-band, e.g. in a
// header, since the body hasn't been read when the validator runs. See
// Context.BodyReserved.
type CSRFValidator interface {
	ValidateToken(c *Context) bool
}

// ValidateCSRFToken invokes ok if the request has a valid anti-forgery token,
// and invalid otherwise.
func ValidateCSRFToken(v CSRFValidator, ok, invalid Handler) Handler {
	return func(c *Context) error {
		if v.ValidateToken(c) {
			return ok(c)
		}
		return invalid(c)
	}
}

// MapFormSecure validates the anti-forgery token, and only then reads the form
// like MapForm. If the token is invalid, invalid is invoked and the form body
// is never parsed by MapFormSecure itself.
//
// A validator may read the token from the form with ReadForm. If that read
// failed, e.g. because the body is too large or malformed, the read error is
// returned instead of invoking invalid, so Serve responds with 413 or 400.
func MapFormSecure[T any](v CSRFValidator, project func(FormReader) T, next func(T) Handler, invalid Handler) Handler {
	return ValidateCSRFToken(v, MapForm(project, next), func(c *Context) error {
		if c.formErr != nil {
			return c.formErr
		}
		return invalid(c)
	})
}

// MapFormStreamSecure validates the anti-forgery token, and only then streams
// the form like MapFormStream. The body is reserved before validation, so the
// token must be sent out-of-band.
func MapFormStreamSecure[T any](v CSRFValidator, project func(FormReader) T, next func(T) Handler, invalid Handler) Handler {
	validate := ValidateCSRFToken(v, MapFormStream(project, next), invalid)
	return func(c *Context) error {
		c.bodyReserved = true
		return validate(c)
	}
}
