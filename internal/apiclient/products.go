package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductQuery filters and paginates the catalog listing.
type ProductQuery struct {
	Search   string
	Category string
	SellerID string
	Page     int
	PerPage  int
}

func (q ProductQuery) encode() string {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.SellerID != "" {
		values.Set("sellerId", q.SellerID)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ListProducts returns a catalog page matching the query.
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (*types.Page[types.Product], error) {
	req := request{
		method:   http.MethodGet,
		path:     "/products" + query.encode(),
		authed:   false,
		fallback: "Unable to load products.",
	}
	var page types.Page[types.Product]
	if err := c.do(ctx, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	req := request{
		method:   http.MethodGet,
		path:     "/products/" + url.PathEscape(id),
		authed:   false,
		fallback: "Unable to load the product.",
	}
	var product types.Product
	if err := c.do(ctx, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductInput carries the seller dashboard create/update form.
type ProductInput struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Price          decimal.Decimal `json:"price"`
	AvailableStock int             `json:"availableStock"`
	ImageIDs       []string        `json:"imageIds,omitempty"`
}

// CreateProduct adds a product to the seller's catalog.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error) {
	req, err := jsonRequest(http.MethodPost, "/products", input, true, "Unable to create the product.")
	if err != nil {
		return nil, err
	}
	var product types.Product
	if err := c.do(ctx, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct saves changes to an existing product.
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (*types.Product, error) {
	req, err := jsonRequest(http.MethodPut, "/products/"+url.PathEscape(id), input, true, "Unable to save the product.")
	if err != nil {
		return nil, err
	}
	var product types.Product
	if err := c.do(ctx, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	req := request{
		method:   http.MethodDelete,
		path:     "/products/" + url.PathEscape(id),
		authed:   true,
		fallback: "Unable to delete the product.",
	}
	return c.do(ctx, req, nil)
}
