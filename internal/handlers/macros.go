package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"essence-site/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		sugar.Error(err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeStoreError maps storage errors onto status codes, anything unexpected becomes a 500
// with a generic message.
func writeStoreError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		sugar.Debug(err)
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, storage.ErrConflict):
		sugar.Debug(err)
		writeError(w, http.StatusConflict, what+" already exists")
	case errors.Is(err, storage.ErrHasDependents):
		sugar.Debug(err)
		writeError(w, http.StatusConflict, what+" is still in use")
	case errors.Is(err, storage.ErrInvalidReference):
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		sugar.Error(err)
		writeError(w, http.StatusInternalServerError, "Failed to process "+what)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			return fmt.Errorf("invalid field %q: must be %s", typeErr.Field, typeErr.Type)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("malformed request body: %w", err)
		}
	}

	// the body has to be exactly one JSON value
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("malformed request body: unexpected data after JSON value")
	}
	return nil
}

// validationMessage names the first failing field.
func validationMessage(err error) string {
	var validateErrs validator.ValidationErrors
	if errors.As(err, &validateErrs) && len(validateErrs) > 0 {
		e := validateErrs[0]
		return fmt.Sprintf("invalid field %q: failed %s", e.Field(), e.Tag())
	}
	return err.Error()
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}
