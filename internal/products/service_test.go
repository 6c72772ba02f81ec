package products

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/internal/apiclient"
	"github.com/angelmondragon/packfinderz-storefront/internal/forms"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

type stubCatalog struct {
	listCalls   atomic.Int32
	lastSearch  string
	page        *types.Page[types.Product]
	createCalls int
	created     apiclient.ProductInput
}

func (s *stubCatalog) ListProducts(ctx context.Context, query apiclient.ProductQuery) (*types.Page[types.Product], error) {
	s.listCalls.Add(1)
	s.lastSearch = query.Search
	if s.page != nil {
		return s.page, nil
	}
	return &types.Page[types.Product]{}, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	return &types.Product{ID: id}, nil
}

func (s *stubCatalog) CreateProduct(ctx context.Context, input apiclient.ProductInput) (*types.Product, error) {
	s.createCalls++
	s.created = input
	return &types.Product{ID: "p-new", Name: input.Name}, nil
}

func (s *stubCatalog) UpdateProduct(ctx context.Context, id string, input apiclient.ProductInput) (*types.Product, error) {
	return &types.Product{ID: id, Name: input.Name}, nil
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, id string) error { return nil }

func newTestService(t *testing.T, catalog Catalog) *Service {
	t.Helper()
	svc, err := NewService(catalog, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestCreateValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{}
	svc := newTestService(t, catalog)

	_, err := svc.Create(context.Background(), forms.Product{Name: "", Price: ""})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.createCalls != 0 {
		t.Fatalf("expected no network call, got %d", catalog.createCalls)
	}
}

func TestCreateRejectsMalformedPrice(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCatalog{})

	_, err := svc.Create(context.Background(), forms.Product{Name: "Tea", Price: "ten dollars", AvailableStock: 1})
	if err == nil {
		t.Fatal("expected price validation failure")
	}
	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]string)
	if !ok || details["price"] == "" {
		t.Fatalf("expected price field detail, got %v", typed.Details())
	}
}

func TestCreatePassesDecimalPrice(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{}
	svc := newTestService(t, catalog)

	product, err := svc.Create(context.Background(), forms.Product{Name: "Tea", Price: "12.50", AvailableStock: 3})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if product.ID != "p-new" {
		t.Fatalf("unexpected product: %+v", product)
	}
	if got := catalog.created.Price.String(); got != "12.5" {
		t.Fatalf("unexpected price sent: %s", got)
	}
}

func TestSearcherCollapsesKeystrokeBursts(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{}
	svc := newTestService(t, catalog)
	searcher := NewSearcher(svc, 30*time.Millisecond)

	done := make(chan struct{})
	for _, term := range []string{"t", "te", "tea"} {
		term := term
		searcher.Search(context.Background(), term, func(*types.Page[types.Product], error) {
			if term == "tea" {
				close(done)
			}
		})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("final search never fired")
	}
	if got := catalog.listCalls.Load(); got != 1 {
		t.Fatalf("expected one request for the burst, got %d", got)
	}
	if catalog.lastSearch != "tea" {
		t.Fatalf("expected trailing term, got %q", catalog.lastSearch)
	}
}
