package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type productInput struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	AvailableStock int             `json:"availableStock"`
	ImageIDs       []string        `json:"imageIds"`
}

func (p productInput) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if p.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if p.AvailableStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "available stock must not be negative")
	}
	return nil
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("perPage"))

	result := s.state.listProducts(productFilter{
		search:   query.Get("search"),
		category: query.Get("category"),
		sellerID: query.Get("sellerId"),
		page:     page,
		perPage:  perPage,
	})
	writeSuccess(w, http.StatusOK, "ok", result)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.state.getProduct(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", product)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
		return
	}
	if err := input.validate(); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}

	product := s.state.createProduct(claimsFrom(r.Context()).UserID, input)
	writeSuccess(w, http.StatusCreated, "product created", product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
		return
	}
	if err := input.validate(); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}

	product, err := s.state.updateProduct(claimsFrom(r.Context()).UserID, chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product updated", product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.state.deleteProduct(claimsFrom(r.Context()).UserID, chi.URLParam(r, "id")); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product deleted", nil)
}
