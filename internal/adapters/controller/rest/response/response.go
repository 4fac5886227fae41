package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
)

// M is a JSON object merged into the {success, message} envelope.
type M map[string]any

const maxBodySize = 1 << 20

func JSON(w http.ResponseWriter, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes a successful envelope with extra fields.
func OK(w http.ResponseWriter, status int, message string, fields M) {
	body := M{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, status, body)
}

func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, M{"success": false, "message": message})
}

// Error maps domain errors onto HTTP statuses. Unexpected errors are logged and
// reported without details.
func Error(w http.ResponseWriter, logger *types.Logger, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("request failed: %v", err)
		Fail(w, status, "Internal server error")
		return
	}
	Fail(w, status, err.Error())
}

func Status(err error) int {
	switch {
	case errors.Is(err, errorz.ErrValidation), errors.Is(err, errorz.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, errorz.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errorz.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errorz.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errorz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errorz.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid request body", errorz.ErrValidation)
	}
	return nil
}

// PathID parses a numeric path wildcard.
func PathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s", errorz.ErrNotFound, name)
	}
	return uint(id), nil
}
