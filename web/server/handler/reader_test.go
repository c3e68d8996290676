package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/weave/web/server/handler"
)

func TestValuesAccessors(t *testing.T) {
	t.Parallel()

	vals := handler.NewValues(map[string][]string{
		"name":    {"Ada", "Grace"},
		"age":     {" 37 "},
		"ratio":   {"0.75"},
		"big":     {"9007199254740993"},
		"admin":   {"on"},
		"active":  {"false"},
		"since":   {"2025-01-01T10:00:00Z"},
		"ttl":     {"1h30m"},
		"ids":     {"1", "x", "3"},
		"invalid": {"abc"},
		"Mixed":   {"case"},
	})

	t.Run("ok/present", func(t *testing.T) {
		t.Parallel()

		s, ok := vals.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "Ada", s)
		assert.Equal(t, []string{"Ada", "Grace"}, vals.GetAll("name"))

		i, ok := vals.Int("age")
		assert.True(t, ok)
		assert.Equal(t, 37, i)

		i64, ok := vals.Int64("big")
		assert.True(t, ok)
		assert.Equal(t, int64(9007199254740993), i64)

		f, ok := vals.Float64("ratio")
		assert.True(t, ok)
		assert.InDelta(t, 0.75, f, 1e-9)

		b, ok := vals.Bool("admin")
		assert.True(t, ok)
		assert.True(t, b)

		b, ok = vals.Bool("active")
		assert.True(t, ok)
		assert.False(t, b)

		ts, ok := vals.Time("since")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), ts)

		d, ok := vals.Duration("ttl")
		assert.True(t, ok)
		assert.Equal(t, 90*time.Minute, d)

		assert.Equal(t, []int{1, 3}, vals.Ints("ids"))
		assert.Equal(t, []string{
			"Mixed", "active", "admin", "age", "big", "ids", "invalid", "name", "ratio", "since", "ttl",
		}, vals.Keys())
	})

	t.Run("ok/case_insensitive", func(t *testing.T) {
		t.Parallel()

		s, ok := vals.Get("mixed")
		assert.True(t, ok)
		assert.Equal(t, "case", s)
		assert.True(t, vals.Has("NAME"))
	})

	t.Run("ok/absent", func(t *testing.T) {
		t.Parallel()

		_, ok := vals.Get("missing")
		assert.False(t, ok)
		assert.False(t, vals.Has("missing"))
		assert.Empty(t, vals.GetAll("missing"))
		_, ok = vals.Int("missing")
		assert.False(t, ok)
		_, ok = vals.Bool("missing")
		assert.False(t, ok)
		_, ok = vals.Time("missing")
		assert.False(t, ok)
		assert.Equal(t, "def", vals.GetOr("missing", "def"))
		assert.Equal(t, 5, vals.IntOr("missing", 5))
		assert.True(t, vals.BoolOr("missing", true))
	})

	t.Run("ok/unparseable", func(t *testing.T) {
		t.Parallel()

		_, ok := vals.Int("invalid")
		assert.False(t, ok)
		_, ok = vals.Int64("invalid")
		assert.False(t, ok)
		_, ok = vals.Float64("invalid")
		assert.False(t, ok)
		_, ok = vals.Bool("invalid")
		assert.False(t, ok)
		_, ok = vals.Time("invalid")
		assert.False(t, ok)
		_, ok = vals.Duration("invalid")
		assert.False(t, ok)
		assert.Equal(t, 7, vals.IntOr("invalid", 7))
	})

	t.Run("ok/nil_values", func(t *testing.T) {
		t.Parallel()

		var empty handler.Values
		_, ok := empty.Get("x")
		assert.False(t, ok)
		assert.Empty(t, empty.Keys())
	})
}

func TestValuesCaseFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values map[string][]string
		key    string
		exp    string
		expOk  bool
	}{
		{name: "ok/exact", values: map[string][]string{"Name": {"title"}, "name": {"lower"}}, key: "name", exp: "lower", expOk: true},
		{name: "ok/first_sorted", values: map[string][]string{"Name": {"title"}, "NAME": {"upper"}}, key: "name", exp: "upper", expOk: true},
		{name: "ok/single", values: map[string][]string{"Token": {"abc"}}, key: "TOKEN", exp: "abc", expOk: true},
		{name: "ok/absent", values: map[string][]string{"Token": {"abc"}}, key: "tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for range 50 {
				got, ok := handler.NewValues(tt.values).Get(tt.key)
				require.Equal(t, tt.expOk, ok)
				require.Equal(t, tt.exp, got)
			}
		})
	}
}

func TestRouteReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		route  map[string]string
		query  url.Values
		key    string
		expInt int
		expOk  bool
	}{
		{
			name:   "ok/route_wins",
			route:  map[string]string{"id": "42"},
			query:  url.Values{"id": {"99"}},
			key:    "id",
			expInt: 42,
			expOk:  true,
		},
		{
			name:   "ok/query_fallback",
			route:  map[string]string{"slug": "post"},
			query:  url.Values{"id": {"99"}},
			key:    "id",
			expInt: 99,
			expOk:  true,
		},
		{
			name:  "ok/absent",
			route: map[string]string{},
			query: url.Values{},
			key:   "id",
		},
		{
			name:   "ok/route_wins_other_case",
			route:  map[string]string{"id": "42"},
			query:  url.Values{"ID": {"99"}},
			key:    "Id",
			expInt: 42,
			expOk:  true,
		},
		{
			name:   "ok/route_hides_exact_query_key",
			route:  map[string]string{"id": "42"},
			query:  url.Values{"ID": {"99"}},
			key:    "ID",
			expInt: 42,
			expOk:  true,
		},
		{
			name:  "ok/unparseable_route",
			route: map[string]string{"id": "abc"},
			query: url.Values{"id": {"99"}},
			key:   "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Map iteration order is random, so repeat to catch unstable
			// selection.
			for range 50 {
				r := handler.NewRouteReader(tt.route, tt.query)
				i, ok := r.Int(tt.key)
				require.Equal(t, tt.expOk, ok)
				require.Equal(t, tt.expInt, i)
			}
		})
	}
}

func TestCookieAndHeaderReaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	req.AddCookie(&http.Cookie{Name: "visits", Value: "3"})
	req.Header.Add("X-Forwarded-For", "10.0.0.1")
	req.Header.Add("X-Forwarded-For", "10.0.0.2")

	cookies := handler.NewCookieReader(req)
	theme, ok := cookies.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", theme)
	assert.Equal(t, 3, cookies.IntOr("visits", 0))
	_, ok = cookies.Get("session")
	assert.False(t, ok)
	_, ok = cookies.Get("THEME")
	assert.False(t, ok, "cookie names are case-sensitive")

	headers := handler.NewHeaderReader(req.Header)
	xff, ok := headers.Get("x-forwarded-for")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.1", xff)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, headers.GetAll("X-Forwarded-For"))

	// Readers are detached from the request.
	req.Header.Set("X-Forwarded-For", "changed")
	xff, _ = headers.Get("X-Forwarded-For")
	assert.Equal(t, "10.0.0.1", xff)
}

func TestQueryReaderBind(t *testing.T) {
	t.Parallel()

	type search struct {
		Term  string   `param:"q"`
		Page  int      `param:"page"`
		Tags  []string `param:"tags"`
		Exact bool     `param:"exact"`
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		q := handler.NewQueryReader(url.Values{
			"q": {"gophers"}, "page": {"2"}, "tags[]": {"go", "web"}, "exact": {"true"},
		})
		var s search
		require.NoError(t, q.Bind(&s))
		assert.Equal(t, search{Term: "gophers", Page: 2, Tags: []string{"go", "web"}, Exact: true}, s)
	})

	t.Run("err/type_mismatch", func(t *testing.T) {
		t.Parallel()

		q := handler.NewQueryReader(url.Values{"page": {"two"}})
		var s search
		err := q.Bind(&s)
		require.Error(t, err)
		var terr *handler.Error
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusBadRequest, terr.StatusCode)
	})
}
