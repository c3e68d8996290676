package types

import "go.hackfix.me/weave/web/server/handler"

// Response is the base HTTP response structure embedded in every API response.
type Response = handler.Response

// OK returns a base response with the given successful status code.
func OK(statusCode int) Response {
	return *handler.NewResponse(statusCode, nil)
}
