package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the body of a generic JSON response.
type Response struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// NewResponse returns a new generic response with the specified status code and
// optional error.
func NewResponse(statusCode int, err error) *Response {
	resp := &Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
	}

	if err != nil {
		resp.Error = err.Error()
	}

	return resp
}

// WriteJSON writes v encoded as JSON with the given status code.
func (c *Context) WriteJSON(statusCode int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed marshalling response into JSON: %w", err)
	}

	c.Response.Header().Set("Content-Type", "application/json")
	c.Response.WriteHeader(statusCode)
	if _, err = c.Response.Write(data); err != nil {
		return fmt.Errorf("failed writing response: %w", err)
	}

	return nil
}

// WriteText writes s as plain text with the given status code.
func (c *Context) WriteText(statusCode int, s string) error {
	c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(statusCode)
	if _, err := c.Response.Write([]byte(s)); err != nil {
		return fmt.Errorf("failed writing response: %w", err)
	}

	return nil
}

// Status returns a Handler that responds with an empty body.
func Status(statusCode int) Handler {
	return func(c *Context) error {
		c.Response.WriteHeader(statusCode)
		return nil
	}
}

// Text returns a Handler that responds with plain text.
func Text(statusCode int, s string) Handler {
	return func(c *Context) error {
		return c.WriteText(statusCode, s)
	}
}

// JSON returns a Handler that responds with v encoded as JSON.
func JSON(statusCode int, v any) Handler {
	return func(c *Context) error {
		return c.WriteJSON(statusCode, v)
	}
}

// Redirect returns a Handler that redirects the request to url.
func Redirect(url string, statusCode int) Handler {
	return func(c *Context) error {
		http.Redirect(c.Response, c.Request, url, statusCode)
		return nil
	}
}

// Fail returns a Handler that fails with an *Error, leaving the response to
// the error handling of Serve.
func Fail(statusCode int, message string) Handler {
	return func(*Context) error {
		return NewError(statusCode, message)
	}
}
