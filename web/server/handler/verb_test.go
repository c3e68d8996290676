package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.hackfix.me/weave/web/server/handler"
)

func TestParseVerb(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		exp    handler.Verb
	}{
		{"GET", handler.GET},
		{"get", handler.GET},
		{"Head", handler.HEAD},
		{"POST", handler.POST},
		{"put", handler.PUT},
		{"PATCH", handler.PATCH},
		{"delete", handler.DELETE},
		{"OPTIONS", handler.OPTIONS},
		{"trace", handler.TRACE},
		{"CONNECT", handler.ANY},
		{"PROPFIND", handler.ANY},
		{"GETS", handler.ANY},
		{" GET", handler.ANY},
		{"", handler.ANY},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.exp, handler.ParseVerb(tt.method))
		})
	}
}

func TestVerbString(t *testing.T) {
	t.Parallel()

	for _, m := range []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE"} {
		assert.Equal(t, m, handler.ParseVerb(m).String())
	}
	assert.Equal(t, "ANY", handler.ANY.String())
	assert.Equal(t, "ANY", handler.ParseVerb("MKCOL").String())
}
