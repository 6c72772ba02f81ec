package apiclient

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// LoginInput carries the sign-in credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries the account creation form. Avatar is optional and
// sent as a multipart file part when present.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string

	AvatarFilename string
	Avatar         io.Reader
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, input LoginInput) (*types.Tokens, error) {
	req, err := jsonRequest(http.MethodPost, "/users/auth/login", input, false, "Unable to sign in. Please try again.")
	if err != nil {
		return nil, err
	}
	var tokens types.Tokens
	if err := c.do(ctx, req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Register creates an account; the body is multipart to carry the avatar.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*types.Tokens, error) {
	fallback := "Unable to create your account. Please try again."

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":     input.Name,
		"email":    input.Email,
		"password": input.Password,
		"role":     input.Role,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
		}
	}
	if input.Avatar != nil {
		part, err := writer.CreateFormFile("avatar", input.AvatarFilename)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
		}
		if _, err := io.Copy(part, input.Avatar); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}

	req := request{
		method:   http.MethodPost,
		path:     "/users/auth/register",
		payload:  buf.Bytes(),
		contentT: writer.FormDataContentType(),
		authed:   false,
		fallback: fallback,
	}
	var tokens types.Tokens
	if err := c.do(ctx, req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Logout asks the backend to invalidate the refresh token. Callers treat this
// as best-effort; local state is reset regardless of the outcome.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req, err := jsonRequest(http.MethodPost, "/users/auth/logout", map[string]string{
		"refreshToken": refreshToken,
	}, true, FallbackMessage)
	if err != nil {
		return err
	}
	req.noRetry = true
	return c.do(ctx, req, nil)
}

// RefreshTokens exchanges the refresh token for a new pair.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*types.Tokens, error) {
	req, err := jsonRequest(http.MethodPost, "/users/auth/refresh", map[string]string{
		"refreshToken": refreshToken,
	}, false, "Your session has expired. Please sign in again.")
	if err != nil {
		return nil, err
	}
	var tokens types.Tokens
	if err := c.do(ctx, req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}
