package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	api "go.hackfix.me/weave/web/server/api/v1"
	"go.hackfix.me/weave/web/server/types"
)

// Hello requests a greeting for name. The default greeting is used if greeting
// is empty.
func (c *Client) Hello(ctx context.Context, name, greeting string) (string, error) {
	query := url.Values{}
	if greeting != "" {
		query.Set("greeting", greeting)
	}

	var resp types.HelloGetResponse
	err := c.request(ctx, http.MethodGet, api.Prefix+"/hello/"+name,
		query, nil, &resp, http.StatusOK)
	if err != nil {
		return "", err
	}

	return resp.Greeting, nil
}

// Search searches the proverbs.
func (c *Client) Search(ctx context.Context, data types.SearchGetRequestData) (*types.SearchGetResponse, error) {
	query := url.Values{}
	query.Set("q", data.Query)
	if data.Page != 0 {
		query.Set("page", strconv.Itoa(data.Page))
	}
	for _, tag := range data.Tags {
		query.Add("tags[]", tag)
	}
	if data.Exact {
		query.Set("exact", "true")
	}

	var resp types.SearchGetResponse
	err := c.request(ctx, http.MethodGet, api.Prefix+"/search", query, nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// RegisterPerson registers a person, and returns the registered data.
func (c *Client) RegisterPerson(
	ctx context.Context, person types.PeoplePostRequestData,
) (*types.PeoplePostRequestData, error) {
	var resp types.PeoplePostResponse
	err := c.request(ctx, http.MethodPost, api.Prefix+"/people", nil, person, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	return &resp.Person, nil
}

// Me describes the principal of the client token.
func (c *Client) Me(ctx context.Context) (*types.MeGetResponse, error) {
	var resp types.MeGetResponse
	err := c.request(ctx, http.MethodGet, api.Prefix+"/me", nil, nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}
