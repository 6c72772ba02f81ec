package mockapi

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	env := types.Envelope{Status: status, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, types.Envelope{
				Status:  http.StatusInternalServerError,
				Message: "internal error",
			})
			return
		}
		env.Data = raw
	}
	writeJSON(w, status, env)
}

// writeError maps a typed error onto the envelope. Only codes whose message is
// safe for end users carry the original text; everything else gets the generic
// string for its code.
func writeError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	if logg != nil && meta.HTTPStatus >= http.StatusInternalServerError {
		logg.Error(ctx, "mockapi.request_failed", err)
	}

	writeJSON(w, meta.HTTPStatus, types.Envelope{Status: meta.HTTPStatus, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
