// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DecodeJSON reads the body into dst and validates it. On failure it has
// already written a 400 and returns false.
func DecodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	v *validator.Validate,
	dst any,
) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}

	if err := v.Struct(dst); err != nil {
		BadRequest(w, FormatValidationError(err))
		return false
	}

	return true
}

func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// PathUUID reads a UUID path parameter. A malformed value cannot name
// any row, so it is answered with 404 for resource and ok is false.
func PathUUID(
	w http.ResponseWriter,
	r *http.Request,
	param, resource string,
) (string, bool) {
	id := chi.URLParam(r, param)
	if _, err := uuid.Parse(id); err != nil {
		NotFound(w, resource)
		return "", false
	}
	return id, true
}
