package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// GetUser fetches a user profile; also used to validate a persisted token at
// startup by requesting the token owner's own record.
func (c *Client) GetUser(ctx context.Context, id string) (*types.User, error) {
	req := request{
		method:   http.MethodGet,
		path:     "/users/" + url.PathEscape(id),
		authed:   true,
		fallback: "Unable to load the profile.",
	}
	var user types.User
	if err := c.do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserInput carries the editable profile fields.
type UpdateUserInput struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// UpdateUser saves profile changes for the given user.
func (c *Client) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*types.User, error) {
	req, err := jsonRequest(http.MethodPut, "/users/"+url.PathEscape(id), input, true, "Unable to save your profile.")
	if err != nil {
		return nil, err
	}
	var user types.User
	if err := c.do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
