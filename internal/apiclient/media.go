package apiclient

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// UploadMediaInput carries a multipart media upload.
type UploadMediaInput struct {
	Filename string
	Kind     string
	Content  io.Reader
}

// ListMedia returns the seller's media library.
func (c *Client) ListMedia(ctx context.Context) ([]types.Media, error) {
	req := request{
		method:   http.MethodGet,
		path:     "/media",
		authed:   true,
		fallback: "Unable to load your media library.",
	}
	var media []types.Media
	if err := c.do(ctx, req, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// UploadMedia stores a new asset for the authenticated seller.
func (c *Client) UploadMedia(ctx context.Context, input UploadMediaInput) (*types.Media, error) {
	fallback := "Unable to upload the file."

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("kind", input.Kind); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}
	part, err := writer.CreateFormFile("file", input.Filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}
	if _, err := io.Copy(part, input.Content); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}

	req := request{
		method:   http.MethodPost,
		path:     "/media",
		payload:  buf.Bytes(),
		contentT: writer.FormDataContentType(),
		authed:   true,
		fallback: fallback,
	}
	var media types.Media
	if err := c.do(ctx, req, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

// DeleteMedia removes an asset from the library.
func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	req := request{
		method:   http.MethodDelete,
		path:     "/media/" + url.PathEscape(id),
		authed:   true,
		fallback: "Unable to delete the file.",
	}
	return c.do(ctx, req, nil)
}
