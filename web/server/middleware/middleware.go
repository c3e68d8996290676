package middleware

import (
	"net/http"
)

// Middleware is a function that wraps an http.Handler to provide additional
// functionality such as logging or metrics collection.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with the middlewares. The first middleware is the outermost
// one, so requests flow through them from left to right before reaching h.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}
