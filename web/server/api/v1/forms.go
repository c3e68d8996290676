package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.hackfix.me/weave/web/server/handler"
	"go.hackfix.me/weave/web/server/types"
)

// CSRFGet issues an anti-forgery token in a cookie, and returns it so that it
// can be submitted with the protected forms.
func (h *Handler) CSRFGet() handler.Handler {
	return h.csrf.Token(func(token string) handler.Handler {
		return handler.JSON(http.StatusOK, types.CSRFGetResponse{
			Response:   types.OK(http.StatusOK),
			Token:      token,
			HeaderName: h.csrf.HeaderName(),
			FieldName:  h.csrf.FieldName(),
		})
	})
}

// ContactPost receives the contact form. The form is only read if the request
// has a valid anti-forgery token.
func (h *Handler) ContactPost() handler.Handler {
	return handler.MapFormSecure(h.csrf, func(r handler.FormReader) types.ContactPostRequestData {
		return types.ContactPostRequestData{
			Name:    strings.TrimSpace(r.GetOr("name", "")),
			Email:   strings.TrimSpace(r.GetOr("email", "")),
			Message: r.GetOr("message", ""),
		}
	}, func(d types.ContactPostRequestData) handler.Handler {
		if d.Name == "" || d.Message == "" {
			return handler.Fail(http.StatusUnprocessableEntity, "name and message are required")
		}

		h.logger.Info("received contact message", "name", d.Name, "email", d.Email)

		return handler.JSON(http.StatusOK, types.ContactPostResponse{
			Response: types.OK(http.StatusOK),
			Name:     d.Name,
			Length:   len([]rune(d.Message)),
		})
	}, handler.Fail(http.StatusForbidden, "invalid CSRF token"))
}

// UploadPost receives files in a streamed multipart form. Since the body is
// streamed, the anti-forgery token must be sent in a header.
func (h *Handler) UploadPost() handler.Handler {
	return handler.MapFormStreamSecure(h.csrf, func(r handler.FormReader) handler.FormReader {
		return r
	}, func(form handler.FormReader) handler.Handler {
		return func(c *handler.Context) error {
			if form.Files.Count() == 0 {
				return handler.NewError(http.StatusBadRequest, "no files uploaded")
			}

			resp := types.UploadPostResponse{
				Response: types.OK(http.StatusCreated),
				Title:    form.GetOr("title", ""),
				Files:    []types.UploadedFile{},
			}
			for _, field := range form.Files.Fields() {
				for _, f := range form.Files.GetAll(field) {
					sum, err := checksum(f)
					if err != nil {
						return err
					}
					resp.Files = append(resp.Files, types.UploadedFile{
						Field:       f.Field,
						Filename:    f.Filename,
						ContentType: f.ContentType,
						Size:        f.Size,
						SHA256:      sum,
					})
				}
			}

			return c.WriteJSON(http.StatusCreated, resp)
		}
	}, handler.Fail(http.StatusForbidden, "invalid CSRF token"))
}

func checksum(f *handler.FormFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	h := sha256.New()
	if _, err = io.Copy(h, rc); err != nil {
		return "", fmt.Errorf("failed reading uploaded file '%s': %w", f.Filename, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
