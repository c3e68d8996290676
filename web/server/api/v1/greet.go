package api

import (
	"net/http"
	"slices"
	"strings"

	"go.hackfix.me/weave/web/server/handler"
	"go.hackfix.me/weave/web/server/types"
)

const searchPageSize = 5

var proverbs = []string{
	"Don't communicate by sharing memory, share memory by communicating.",
	"Concurrency is not parallelism.",
	"Channels orchestrate; mutexes serialize.",
	"The bigger the interface, the weaker the abstraction.",
	"Make the zero value useful.",
	"interface{} says nothing.",
	"Gofmt's style is no one's favorite, yet gofmt is everyone's favorite.",
	"A little copying is better than a little dependency.",
	"Syscall must always be guarded with build tags.",
	"Cgo must always be guarded with build tags.",
	"Cgo is not Go.",
	"With the unsafe package there are no guarantees.",
	"Clear is better than clever.",
	"Reflection is never clear.",
	"Errors are values.",
	"Don't just check errors, handle them gracefully.",
	"Design the architecture, name the components, document the details.",
	"Documentation is for users.",
	"Don't panic.",
}

// HelloGet greets the name in the route, with an optional greeting from the
// query string.
func (h *Handler) HelloGet() handler.Handler {
	type params struct {
		name     string
		greeting string
	}

	return handler.MapRoute(func(r handler.RouteReader) params {
		return params{
			name:     r.GetOr("name", ""),
			greeting: r.GetOr("greeting", "Hello"),
		}
	}, func(p params) handler.Handler {
		return handler.JSON(http.StatusOK, types.HelloGetResponse{
			Response: types.OK(http.StatusOK),
			Greeting: p.greeting + ", " + p.name + "!",
		})
	})
}

// SearchGet searches the proverbs. The query is bound to
// types.SearchGetRequestData, so unknown parameters are rejected.
func (h *Handler) SearchGet() handler.Handler {
	type bound struct {
		data types.SearchGetRequestData
		err  error
	}

	return handler.MapQuery(func(r handler.QueryReader) bound {
		b := bound{data: types.SearchGetRequestData{Page: 1}}
		b.err = r.Bind(&b.data)
		return b
	}, func(b bound) handler.Handler {
		if b.err != nil {
			return fail(b.err)
		}
		if b.data.Page < 1 {
			return handler.Fail(http.StatusBadRequest, "page must be greater than 0")
		}

		matches := search(b.data)
		start := min((b.data.Page-1)*searchPageSize, len(matches))
		end := min(start+searchPageSize, len(matches))

		return handler.JSON(http.StatusOK, types.SearchGetResponse{
			Response: types.OK(http.StatusOK),
			Query:    b.data,
			Total:    len(matches),
			Results:  matches[start:end],
		})
	})
}

func search(q types.SearchGetRequestData) []string {
	terms := append([]string{q.Query}, q.Tags...)
	matches := []string{}
	for _, p := range proverbs {
		match := slices.ContainsFunc(terms, func(term string) bool {
			if term == "" {
				return false
			}
			if q.Exact {
				return strings.Contains(p, term)
			}
			return strings.Contains(strings.ToLower(p), strings.ToLower(term))
		})
		if match || (q.Query == "" && len(q.Tags) == 0) {
			matches = append(matches, p)
		}
	}

	return matches
}

// PrefsGet returns the preferences stored in the client cookies.
func (h *Handler) PrefsGet() handler.Handler {
	return handler.MapCookie(func(r handler.CookieReader) types.PrefsGetResponse {
		return types.PrefsGetResponse{
			Response: types.OK(http.StatusOK),
			Theme:    r.GetOr("theme", "light"),
			Language: r.GetOr("lang", "en"),
			Compact:  r.BoolOr("compact", false),
		}
	}, func(resp types.PrefsGetResponse) handler.Handler {
		return handler.JSON(http.StatusOK, resp)
	})
}

// AgentGet describes the client from the request headers.
func (h *Handler) AgentGet() handler.Handler {
	return handler.MapHeader(func(r handler.HeaderReader) types.AgentGetResponse {
		langs := []string{}
		for _, l := range strings.Split(r.GetOr("Accept-Language", ""), ",") {
			// Drop quality values, e.g. "en;q=0.8".
			l, _, _ = strings.Cut(l, ";")
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}

		return types.AgentGetResponse{
			Response:  types.OK(http.StatusOK),
			UserAgent: r.GetOr("User-Agent", "unknown"),
			Languages: langs,
		}
	}, func(resp types.AgentGetResponse) handler.Handler {
		return handler.JSON(http.StatusOK, resp)
	})
}
