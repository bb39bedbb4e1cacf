package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes the standard error body.
func WriteError(w http.ResponseWriter, status int, code, message string, details []domain.FieldError) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Status:  status,
		Code:    code,
		Details: details,
	})
}

// writeDomainError maps err to a status and error body. Unexpected errors
// are logged and reported without internal detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)

	if kind == domain.KindUnexpected {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		WriteError(w, status, string(kind), "internal server error", nil)
		return
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		WriteError(w, status, string(kind), verr.Error(), verr.Fields)
		return
	}

	WriteError(w, status, string(kind), err.Error(), nil)
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidState:
		return http.StatusUnprocessableEntity
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInsufficientFunds, domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate reads a JSON body into dst and validates its tags. An
// empty body is accepted when allowEmpty is set.
func decodeAndValidate(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return dto.Validate(dst)
		}
		return domain.NewValidationError("body", "must be a valid JSON object")
	}

	return dto.Validate(dst)
}

// pathID returns the {id} URL parameter, or a validation error.
func pathID(r *http.Request, field string) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return "", domain.NewValidationError(field, "is required")
	}
	return id, nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
