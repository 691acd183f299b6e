package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies. Recipe images travel inline as data URIs.
const maxBodyBytes = 10 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError maps err onto its HTTP status. Errors outside the apperr taxonomy become 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}

	if appErr.Code == apperr.CodeInternal {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}

	respondJSON(w, appErr.HTTPStatus(), ErrorResponse{Error: appErr.Message, Details: appErr.Details})
}

func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON reads the request body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Validation("request body is empty")
	case errors.As(err, &maxErr):
		return apperr.Validation("request body is too large")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperr.FieldValidation(typeErr.Field, "has an invalid type")
	default:
		return apperr.Validation("invalid request body")
	}
}

// orEmpty keeps empty listings encoded as [] instead of null
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
