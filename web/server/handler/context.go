package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// Context is the handle to an inbound request and its response. It is created
// once per request, and passed through every Handler in the chain.
//
// A Context must not be shared between requests.
type Context struct {
	Response http.ResponseWriter
	Request  *http.Request

	logger       *slog.Logger
	routeValues  map[string]string
	maxMemory    int64
	spoolFS      vfs.FileSystem
	spoolDir     string
	bodyReserved bool
	formErr      error
	wroteHeader  bool
	cleanup      []func() error
}

// NewContext returns a new Context for the given response writer and request.
// Serve calls this for every request, so it's only needed when invoking a
// Handler directly.
func NewContext(w http.ResponseWriter, r *http.Request, opts ...Option) *Context {
	return newContext(w, r, newOptions(opts))
}

func newContext(w http.ResponseWriter, r *http.Request, o *options) *Context {
	c := &Context{
		Request:   r,
		logger:    o.logger,
		maxMemory: o.maxMemory,
		spoolFS:   o.spoolFS,
		spoolDir:  o.spoolDir,
	}

	c.Response = httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				c.wroteHeader = true
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				c.wroteHeader = true
				return next(b)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				c.wroteHeader = true
				return next(src)
			}
		},
	})

	if o.maxBodySize > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(c.Response, r.Body, o.maxBodySize)
	}

	if o.routeValues != nil {
		c.routeValues = o.routeValues
	} else {
		c.routeValues = patternRouteValues(r)
	}

	return c
}

// Context returns the context of the request. It's done when the client
// disconnects, or the server cancels the request.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Verb returns the HTTP verb of the request.
func (c *Context) Verb() Verb {
	return ParseVerb(c.Request.Method)
}

// Logger returns the logger of the request.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Set stores a request-scoped value.
func (c *Context) Set(key, val any) {
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), key, val))
}

// Value returns a request-scoped value stored with Set, or nil.
func (c *Context) Value(key any) any {
	return c.Request.Context().Value(key)
}

// RouteValues returns a copy of the values matched by the router.
func (c *Context) RouteValues() map[string]string {
	vals := make(map[string]string, len(c.routeValues))
	for k, v := range c.routeValues {
		vals[k] = v
	}
	return vals
}

// BodyReserved returns true if the request body is reserved for a streaming
// reader. Components that run before the body is read, such as CSRF
// validators, must not consume the body if this is true.
func (c *Context) BodyReserved() bool {
	return c.bodyReserved
}

// Written returns true if the response status or body were written.
func (c *Context) Written() bool {
	return c.wroteHeader
}

// OnRelease registers a function that is called once the request is complete.
func (c *Context) OnRelease(fn func() error) {
	c.cleanup = append(c.cleanup, fn)
}

// Release frees resources acquired while processing the request, such as
// spooled upload files. Serve calls it automatically.
func (c *Context) Release() error {
	var errs []error
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		if err := c.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.cleanup = nil

	return errors.Join(errs...)
}

// patternRouteValues extracts the wildcard values of the http.ServeMux pattern
// that matched the request.
func patternRouteValues(r *http.Request) map[string]string {
	vals := map[string]string{}
	pat := r.Pattern
	for {
		start := strings.IndexByte(pat, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(pat[start:], '}')
		if end < 0 {
			break
		}
		name := strings.TrimSuffix(pat[start+1:start+end], "...")
		pat = pat[start+end+1:]
		if name == "" || name == "$" {
			continue
		}
		if v := r.PathValue(name); v != "" {
			vals[name] = v
		}
	}

	return vals
}
