package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"

	"github.com/zenazn/goji/param"
)

// CookieReader is a typed view over the request cookies. Cookie names are
// case-sensitive.
type CookieReader struct {
	Values
}

// NewCookieReader returns a CookieReader over the cookies of r. If a cookie is
// sent multiple times, every value is kept in the order received.
func NewCookieReader(r *http.Request) CookieReader {
	vals := map[string][]string{}
	for _, ck := range r.Cookies() {
		vals[ck.Name] = append(vals[ck.Name], ck.Value)
	}

	return CookieReader{Values: newValues(vals, false)}
}

// HeaderReader is a typed view over the request headers. Header names are
// matched ignoring case.
type HeaderReader struct {
	Values
}

// NewHeaderReader returns a HeaderReader over a copy of h.
func NewHeaderReader(h http.Header) HeaderReader {
	return HeaderReader{Values: NewValues(h)}
}

// QueryReader is a typed view over the URL query string.
type QueryReader struct {
	Values
}

// NewQueryReader returns a QueryReader over a copy of q.
func NewQueryReader(q url.Values) QueryReader {
	return QueryReader{Values: NewValues(q)}
}

// Bind decodes the query values into target, which must be a pointer to a
// struct. Fields are matched using the "param" struct tag, or the field name.
// Slices use the key[] syntax, and nested values the key[subkey] syntax. Keys
// that match no field are rejected.
func (r QueryReader) Bind(target any) error {
	return bindValues(r.Values, target)
}

// RouteReader is a typed view over the values matched by the router. Keys that
// weren't matched by the router are looked up in the query string instead. A
// route value hides every query parameter with the same name in any case.
type RouteReader struct {
	Values
}

// NewRouteReader returns a RouteReader over the route values, falling back to
// the query values.
func NewRouteReader(route map[string]string, query url.Values) RouteReader {
	vals := make(map[string][]string, len(route)+len(query))
	for k, v := range query {
		if !hasKeyFold(route, k) {
			vals[k] = v
		}
	}
	for k, v := range route {
		vals[k] = []string{v}
	}

	return RouteReader{Values: NewValues(vals)}
}

// FormReader is a typed view over the fields of a form submitted in the request
// body, and its uploaded files, if any.
type FormReader struct {
	Values
	Files FormFiles
}

// Bind decodes the form values into target. See QueryReader.Bind.
func (r FormReader) Bind(target any) error {
	return bindValues(r.Values, target)
}

// FormFiles maps form field names to uploaded files.
type FormFiles map[string][]*FormFile

// Get returns the first file uploaded with the field name.
func (f FormFiles) Get(field string) (*FormFile, bool) {
	files := f[field]
	if len(files) == 0 {
		return nil, false
	}

	return files[0], true
}

// GetAll returns all files uploaded with the field name.
func (f FormFiles) GetAll(field string) []*FormFile {
	return f[field]
}

// Fields returns the sorted names of the fields with uploaded files.
func (f FormFiles) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields
}

// Count returns the total amount of uploaded files.
func (f FormFiles) Count() int {
	var n int
	for _, files := range f {
		n += len(files)
	}

	return n
}

// FormFile is a file uploaded in a multipart form.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Header      textproto.MIMEHeader

	open func() (io.ReadCloser, error)
}

// Open returns a reader of the file contents. The caller must close it.
func (f *FormFile) Open() (io.ReadCloser, error) {
	rc, err := f.open()
	if err != nil {
		return nil, fmt.Errorf("failed opening uploaded file '%s': %w", f.Filename, err)
	}

	return rc, nil
}

func bindValues(vals Values, target any) error {
	if err := param.Parse(url.Values(vals.m), target); err != nil {
		return NewErrorWithCause(http.StatusBadRequest, "failed binding request values", err)
	}

	return nil
}

func hasKeyFold(m map[string]string, key string) bool {
	for k := range m {
		if strings.EqualFold(k, key) {
			return true
		}
	}

	return false
}
