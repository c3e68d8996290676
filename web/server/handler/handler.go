package handler

import (
	"net/http"
)

// Handler processes a request. It must fully resolve the request, by writing
// a response or invoking another Handler.
//
// Returning an error is reserved for failures the Handler can't resolve
// itself, such as a malformed JSON body. Expected outcomes, like a failed
// authentication, are routed to a Handler instead.
type Handler func(c *Context) error

// ServeHTTP runs h on a new Context with default options, so that a Handler
// can be used anywhere an http.Handler is expected.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	Serve(h).ServeHTTP(w, r)
}

// Serve returns an http.Handler that creates a Context for each request, runs
// h, and releases the resources acquired by the Context.
//
// If h returns an error, and no response was written yet, an error response is
// written: 400 for a *DeserializationError, 413 if the body exceeds the
// maximum size, the status code of an *Error, and 500 for any other error.
// Error messages are sanitized according to the configured ErrorLevel.
func Serve(h Handler, opts ...Option) http.Handler {
	o := newOptions(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, o)
		defer func() {
			if err := c.Release(); err != nil {
				o.logger.Warn("failed releasing request resources", "error", err.Error())
			}
		}()

		if err := h(c); err != nil {
			handleError(c, err, o)
		}
	})
}

func handleError(c *Context, err error, o *options) {
	terr := toHTTPError(err)

	logArgs := []any{
		"method", c.Request.Method, "path", c.Request.URL.Path,
		"status_code", terr.StatusCode, "error", err.Error(),
	}
	if terr.StatusCode >= http.StatusInternalServerError {
		o.logger.Error("failed handling request", logArgs...)
	} else {
		o.logger.Debug("rejected request", logArgs...)
	}

	if c.Written() {
		return
	}

	resp := NewResponse(terr.StatusCode, sanitizeError(terr, o.errorLevel))
	if werr := c.WriteJSON(terr.StatusCode, resp); werr != nil {
		o.logger.Error("failed writing response", "error", werr.Error())
	}
}
