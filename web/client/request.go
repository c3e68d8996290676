package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	aerrors "go.hackfix.me/weave/app/errors"
	"go.hackfix.me/weave/web/server/handler"
)

// StatusError is returned when the server responds with an unexpected status.
type StatusError struct {
	StatusCode int
	// Message is the error message in the response body, if any.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// request sends a request to the API endpoint at path, with reqData encoded as
// JSON, and decodes the JSON response into respData. A response with a status
// different from expStatus is returned as a *StatusError.
func (c *Client) request(
	ctx context.Context, method, path string, query url.Values,
	reqData, respData any, expStatus int,
) (rerr error) {
	u := &url.URL{Scheme: "http", Host: c.address, Path: path, RawQuery: query.Encode()}
	errFields := []any{"url", u.String(), "method", method}

	var body io.Reader
	if reqData != nil {
		reqDataJSON, err := json.Marshal(reqData)
		if err != nil {
			return aerrors.NewWithCause("failed marshalling request data", err, errFields...)
		}
		body = bytes.NewReader(reqDataJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return aerrors.NewWithCause("failed creating request", err, errFields...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("sending request", errFields...)
	resp, err := c.Do(req)
	if err != nil {
		return aerrors.NewWithCause("failed sending request", err, errFields...)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("failed closing response body: %w", err)
		}
	}()
	errFields = append(errFields, "status_code", resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return aerrors.NewWithCause("failed reading response body", err, errFields...)
	}

	if resp.StatusCode != expStatus {
		var errResp handler.Response
		_ = json.Unmarshal(respBody, &errResp)
		return aerrors.With(&StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}, errFields...)
	}

	if respData == nil {
		return nil
	}
	if err = json.Unmarshal(respBody, respData); err != nil {
		return aerrors.NewWithCause("failed unmarshalling response body", err, errFields...)
	}

	return nil
}
