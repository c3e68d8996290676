package handler

// MapCookie projects a value out of the request cookies and passes it to next.
func MapCookie[T any](project func(CookieReader) T, next func(T) Handler) Handler {
	return func(c *Context) error {
		return next(project(NewCookieReader(c.Request)))(c)
	}
}

// MapHeader projects a value out of the request headers and passes it to next.
func MapHeader[T any](project func(HeaderReader) T, next func(T) Handler) Handler {
	return func(c *Context) error {
		return next(project(NewHeaderReader(c.Request.Header)))(c)
	}
}

// MapRoute projects a value out of the route values and passes it to next.
// Keys not matched by the router are looked up in the query string.
func MapRoute[T any](project func(RouteReader) T, next func(T) Handler) Handler {
	return func(c *Context) error {
		return next(project(NewRouteReader(c.routeValues, c.Request.URL.Query())))(c)
	}
}

// MapQuery projects a value out of the query string and passes it to next.
func MapQuery[T any](project func(QueryReader) T, next func(T) Handler) Handler {
	return func(c *Context) error {
		return next(project(NewQueryReader(c.Request.URL.Query())))(c)
	}
}

// MapForm reads the request body as a form, projects a value out of it and
// passes it to next. See ReadForm.
func MapForm[T any](project func(FormReader) T, next func(T) Handler) Handler {
	return func(c *Context) error {
		form, err := ReadForm(c)
		if err != nil {
			return err
		}
		return next(project(form))(c)
	}
}

// MapFormStream streams the request body as a multipart form, projects a value
// out of it and passes it to next. See StreamForm for the preconditions.
func MapFormStream[T any](project func(FormReader) T, next func(T) Handler) Handler {
	return func(c *Context) error {
		form, err := StreamForm(c)
		if err != nil {
			return err
		}
		return next(project(form))(c)
	}
}

// MapJSON decodes the request body into a value of type T using the default
// options, and passes it to next. A *DeserializationError is returned as is,
// and next is not invoked.
func MapJSON[T any](next func(T) Handler) Handler {
	return MapJSONOption(DefaultJSONOptions(), next)
}

// MapJSONOption is like MapJSON, but with custom decoding options.
func MapJSONOption[T any](opts JSONOptions, next func(T) Handler) Handler {
	return func(c *Context) error {
		v, err := ReadJSON[T](c, opts)
		if err != nil {
			return err
		}
		return next(v)(c)
	}
}

// BodyString reads the request body as text and passes it to next.
func BodyString(next func(string) Handler) Handler {
	return func(c *Context) error {
		s, err := ReadString(c)
		if err != nil {
			return err
		}
		return next(s)(c)
	}
}
