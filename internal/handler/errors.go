package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	appI18n "github.com/garvtayal-05/Interview-Platform-sub000/internal/i18n"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPStatus returns the status code for an error of the evaluation taxonomy.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoData), errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrGeneration), errors.Is(err, model.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageID returns the translation ID of the stable message for err.
func messageID(err error, path string) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "ErrValidation"
	case errors.Is(err, model.ErrNoData):
		if strings.Contains(path, "/performance/") {
			return "ErrNoAnalyticsData"
		}
		return "ErrNoData"
	case errors.Is(err, model.ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, model.ErrGeneration):
		return "ErrGeneration"
	case errors.Is(err, model.ErrParse):
		return "ErrParse"
	default:
		return "ErrInternal"
	}
}

// writeError reports err with a stable, localized message. Details stay in
// the log.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, userID string) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "user_id", userID, "status", status, "error", err)
	} else {
		slog.Warn("request rejected", "path", r.URL.Path, "user_id", userID, "status", status, "error", err)
	}

	msg := appI18n.Td(r.Context(), messageID(err, r.URL.Path), map[string]any{"UserID": userID})
	writeJSON(w, status, errorResponse{Error: msg})
}
