package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	pkgauth "github.com/angelmondragon/packfinderz-storefront/pkg/auth"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

const maxMultipartMemory = 32 << 20

func (s *Server) issueTokens(user types.User) (types.Tokens, error) {
	access, err := pkgauth.MintAccessToken(s.cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Avatar: user.Avatar,
	})
	if err != nil {
		return types.Tokens{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh := s.state.issueRefresh(user.ID, s.cfg.JWT.RefreshTokenTTL())
	return types.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request must be multipart form data"))
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	role, err := enums.ParseUserRole(r.FormValue("role"))
	if err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "role must be client or seller"))
		return
	}
	if name == "" || email == "" || len(password) < 8 {
		writeError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "name, email and a password of at least 8 characters are required"))
		return
	}

	avatar := ""
	if _, header, err := r.FormFile("avatar"); err == nil {
		avatar = "http://localhost/media/avatars/" + header.Filename
	}

	user, err := s.state.createAccount(name, email, password, role, avatar)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "account created", tokens)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
		return
	}

	user, err := s.state.authenticate(body.Email, body.Password)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "signed in", tokens)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
		return
	}

	userID, err := s.state.redeemRefresh(body.RefreshToken)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	user, err := s.state.findUser(userID)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "tokens refreshed", tokens)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
		return
	}

	s.state.revokeRefresh(body.RefreshToken)
	writeSuccess(w, http.StatusOK, "signed out", nil)
}
