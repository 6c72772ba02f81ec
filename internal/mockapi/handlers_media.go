package mockapi

import (
	"io"
	"net/http"

	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	assets := s.state.listMedia(claimsFrom(r.Context()).UserID)
	writeSuccess(w, http.StatusOK, "ok", assets)
}

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request must be multipart form data"))
		return
	}

	kind := enums.MediaKind(r.FormValue("kind"))
	if !kind.IsValid() {
		writeError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "kind must be image or video"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file part is required"))
		return
	}
	defer file.Close()

	// The stub discards file bytes; only the metadata matters to the client.
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload"))
		return
	}

	asset := s.state.addMedia(claimsFrom(r.Context()).UserID, header.Filename, kind, size)
	writeSuccess(w, http.StatusCreated, "media uploaded", asset)
}

func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := s.state.deleteMedia(claimsFrom(r.Context()).UserID, chi.URLParam(r, "id")); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "media deleted", nil)
}
