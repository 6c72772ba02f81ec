// Package products exposes the catalog surface: public browsing/search and
// the seller dashboard CRUD. Form validation runs client-side before any
// request leaves the device.
package products

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/internal/apiclient"
	"github.com/angelmondragon/packfinderz-storefront/internal/forms"
	"github.com/angelmondragon/packfinderz-storefront/pkg/debounce"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Catalog is the slice of the API client the service depends on.
type Catalog interface {
	ListProducts(ctx context.Context, query apiclient.ProductQuery) (*types.Page[types.Product], error)
	GetProduct(ctx context.Context, id string) (*types.Product, error)
	CreateProduct(ctx context.Context, input apiclient.ProductInput) (*types.Product, error)
	UpdateProduct(ctx context.Context, id string, input apiclient.ProductInput) (*types.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Service wraps the catalog endpoints with client-side validation.
type Service struct {
	api  Catalog
	logg *logger.Logger
}

// NewService builds the product service.
func NewService(api Catalog, logg *logger.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("catalog client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{api: api, logg: logg}, nil
}

// List returns a catalog page matching the query.
func (s *Service) List(ctx context.Context, query apiclient.ProductQuery) (*types.Page[types.Product], error) {
	return s.api.ListProducts(ctx, query)
}

// Get fetches a single product.
func (s *Service) Get(ctx context.Context, id string) (*types.Product, error) {
	return s.api.GetProduct(ctx, id)
}

// Create validates the dashboard form and creates the product.
func (s *Service) Create(ctx context.Context, form forms.Product) (*types.Product, error) {
	input, err := toInput(form)
	if err != nil {
		return nil, err
	}
	return s.api.CreateProduct(ctx, input)
}

// Update validates the dashboard form and saves the product.
func (s *Service) Update(ctx context.Context, id string, form forms.Product) (*types.Product, error) {
	input, err := toInput(form)
	if err != nil {
		return nil, err
	}
	return s.api.UpdateProduct(ctx, id, input)
}

// Delete removes the product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.api.DeleteProduct(ctx, id)
}

func toInput(form forms.Product) (apiclient.ProductInput, error) {
	if err := forms.Validate(form); err != nil {
		return apiclient.ProductInput{}, err
	}
	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		return apiclient.ProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must be a valid amount"})
	}
	if price.IsNegative() {
		return apiclient.ProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must not be negative"})
	}
	return apiclient.ProductInput{
		Name:           form.Name,
		Description:    form.Description,
		Category:       form.Category,
		Price:          price,
		AvailableStock: form.AvailableStock,
		ImageIDs:       form.ImageIDs,
	}, nil
}

// Searcher debounces free-text catalog search so keystroke bursts produce a
// single request for the final term.
type Searcher struct {
	svc      *Service
	debounce *debounce.Debouncer
}

// NewSearcher builds a debounced searcher with the given quiet window.
func NewSearcher(svc *Service, window time.Duration) *Searcher {
	return &Searcher{svc: svc, debounce: debounce.New(window)}
}

// Search schedules the query; fn receives the result of the last term typed
// within the window.
func (s *Searcher) Search(ctx context.Context, term string, fn func(*types.Page[types.Product], error)) {
	s.debounce.Do(func() {
		fn(s.svc.List(ctx, apiclient.ProductQuery{Search: term}))
	})
}

// Stop cancels any pending search.
func (s *Searcher) Stop() {
	s.debounce.Stop()
}
