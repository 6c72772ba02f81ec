package mockapi

import (
	"encoding/json"
	"net/http"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := chi.URLParam(r, "id")
	if claims == nil || claims.UserID != id {
		writeError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another user's profile"))
		return
	}

	user, err := s.state.findUser(id)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := chi.URLParam(r, "id")
	if claims == nil || claims.UserID != id {
		writeError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot edit another user's profile"))
		return
	}

	var body struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
		return
	}

	user, err := s.state.updateUser(id, body.Name, body.Email, body.Avatar)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "profile updated", user)
}
