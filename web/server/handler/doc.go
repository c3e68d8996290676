// Package handler contains helpers to assemble HTTP handler implementations
// by composing small functions, instead of registering middleware or building
// type hierarchies.
//
// A Handler is a function of a request Context that fully resolves the
// request: it either writes a response, or delegates to another Handler.
// Combinators such as MapQuery, MapForm and MapJSON project a typed value out
// of the request, and pass it to a continuation that returns the next Handler.
// Security gates such as ValidateCSRFToken and IfAuthenticated route the
// request to exactly one of two Handlers.
//
// For example:
//
//	greet := handler.MapRoute(
//		func(r handler.RouteReader) string { return r.GetOr("name", "stranger") },
//		func(name string) handler.Handler {
//			return handler.Text(http.StatusOK, "Hello, "+name)
//		},
//	)
//	mux.Handle("GET /hello/{name}", handler.Serve(greet))
//
// Every combinator performs its extraction step before invoking its
// continuation, and invokes exactly one continuation. Handlers share no state
// other than the Context of the request they were invoked with.
package handler
