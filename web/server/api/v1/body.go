package api

import (
	"net/http"

	"go.hackfix.me/weave/web/server/handler"
	"go.hackfix.me/weave/web/server/types"
)

// EchoPost responds with the text body of the request.
func (h *Handler) EchoPost() handler.Handler {
	return handler.BodyString(func(s string) handler.Handler {
		return handler.Text(http.StatusOK, s)
	})
}

// PeoplePost registers a person from the JSON body of the request.
func (h *Handler) PeoplePost() handler.Handler {
	return handler.MapJSON(func(p types.PeoplePostRequestData) handler.Handler {
		if err := p.Validate(); err != nil {
			return fail(handler.NewErrorWithCause(http.StatusUnprocessableEntity, "invalid person", err))
		}

		h.logger.Info("registered person", "name", p.Name)

		return handler.JSON(http.StatusCreated, types.PeoplePostResponse{
			Response: types.OK(http.StatusCreated),
			Person:   p,
		})
	})
}
