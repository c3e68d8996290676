package handler_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/weave/web/server/handler"
)

func TestReadString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		exp  string
	}{
		{name: "ok/ascii", body: "hello, world", exp: "hello, world"},
		{name: "ok/multibyte", body: "héllo wörld, 日本語, 🦫", exp: "héllo wörld, 日本語, 🦫"},
		{name: "ok/empty", body: "", exp: ""},
		{name: "ok/bom", body: "\uFEFFtext", exp: "text"},
		{name: "ok/invalid_utf8", body: "a\xffb", exp: "a\uFFFDb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c := handler.NewContext(httptest.NewRecorder(), req)

			s, err := handler.ReadString(c)
			require.NoError(t, err)
			assert.Equal(t, tt.exp, s)
		})
	}

	t.Run("ok/single_read", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("once"))
		c := handler.NewContext(httptest.NewRecorder(), req)

		s, err := handler.ReadString(c)
		require.NoError(t, err)
		assert.Equal(t, "once", s)

		s, err = handler.ReadString(c)
		require.NoError(t, err)
		assert.Empty(t, s)
	})

	t.Run("err/too_large", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 100)))
		c := handler.NewContext(httptest.NewRecorder(), req, handler.WithMaxBodySize(10))

		_, err := handler.ReadString(c)
		var maxErr *http.MaxBytesError
		require.ErrorAs(t, err, &maxErr)
		assert.Equal(t, int64(10), maxErr.Limit)
	})
}

func TestReadForm(t *testing.T) {
	t.Parallel()

	t.Run("ok/urlencoded", func(t *testing.T) {
		t.Parallel()

		body := url.Values{"name": {"Ada"}, "langs": {"go", "c"}}.Encode()
		req := httptest.NewRequest(http.MethodPost, "/?name=query", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		c := handler.NewContext(httptest.NewRecorder(), req)

		form, err := handler.ReadForm(c)
		require.NoError(t, err)
		name, ok := form.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "Ada", name)
		assert.Equal(t, []string{"go", "c"}, form.GetAll("langs"))
		assert.Equal(t, 0, form.Files.Count())
	})

	t.Run("ok/multipart", func(t *testing.T) {
		t.Parallel()

		body, contentType := newMultipartBody(t,
			map[string]string{"title": "report"},
			map[string]string{"doc": "contents of the doc"})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		c := handler.NewContext(httptest.NewRecorder(), req)
		defer c.Release()

		form, err := handler.ReadForm(c)
		require.NoError(t, err)
		assert.Equal(t, "report", form.GetOr("title", ""))

		f, ok := form.Files.Get("doc")
		require.True(t, ok)
		assert.Equal(t, "doc.txt", f.Filename)
		assert.Equal(t, int64(len("contents of the doc")), f.Size)
		assert.Equal(t, "contents of the doc", readFormFile(t, f))
	})

	t.Run("ok/not_a_form", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		c := handler.NewContext(httptest.NewRecorder(), req)

		form, err := handler.ReadForm(c)
		require.NoError(t, err)
		assert.Empty(t, form.Keys())
	})

	t.Run("err/malformed_multipart", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("garbage"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		c := handler.NewContext(httptest.NewRecorder(), req)

		_, err := handler.ReadForm(c)
		var terr *handler.Error
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusBadRequest, terr.StatusCode)
	})
}

func TestStreamForm(t *testing.T) {
	t.Parallel()

	t.Run("ok/spooled", func(t *testing.T) {
		t.Parallel()

		fs := memoryfs.New()
		body, contentType := newMultipartBody(t,
			map[string]string{"title": "photos"},
			map[string]string{"upload": "binary data"})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		c := handler.NewContext(httptest.NewRecorder(), req, handler.WithSpool(fs, "/spool"))

		form, err := handler.StreamForm(c)
		require.NoError(t, err)
		assert.Equal(t, "photos", form.GetOr("title", ""))

		f, ok := form.Files.Get("upload")
		require.True(t, ok)
		assert.Equal(t, "upload.txt", f.Filename)
		assert.Equal(t, int64(len("binary data")), f.Size)
		assert.Equal(t, "binary data", readFormFile(t, f))

		entries, err := vfs.ReadDir(fs, "/spool")
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		require.NoError(t, c.Release())
		entries, err = vfs.ReadDir(fs, "/spool")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("err/field_too_large", func(t *testing.T) {
		t.Parallel()

		body, contentType := newMultipartBody(t,
			map[string]string{"bio": strings.Repeat("x", 64)}, nil)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		c := handler.NewContext(httptest.NewRecorder(), req,
			handler.WithMaxMemory(16), handler.WithSpool(memoryfs.New(), "/spool"))

		_, err := handler.StreamForm(c)
		var terr *handler.Error
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusRequestEntityTooLarge, terr.StatusCode)
	})

	t.Run("err/not_multipart", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		c := handler.NewContext(httptest.NewRecorder(), req)

		_, err := handler.StreamForm(c)
		assert.ErrorIs(t, err, http.ErrNotMultipart)
	})
}

// newMultipartBody encodes fields and files as a multipart form. File parts
// are named after their field, with a .txt extension.
func newMultipartBody(t *testing.T, fields, files map[string]string) (io.Reader, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for k, v := range files {
		fw, err := mw.CreateFormFile(k, k+".txt")
		require.NoError(t, err)
		_, err = fw.Write([]byte(v))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return buf, mw.FormDataContentType()
}

func readFormFile(t *testing.T, f *handler.FormFile) string {
	t.Helper()

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	return string(data)
}
