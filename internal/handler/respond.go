package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/02loveslollipop/MiPedido/models"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, ErrorResponse{Error: message})
}

// parseRequestBody decodes a JSON request body. Unknown fields are ignored
// so clients sending extra fields keep working.
func parseRequestBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

// statusFromError maps the engine's error taxonomy to HTTP status codes.
// Anything outside the taxonomy is a server-side failure, never surfaced as
// a validation error.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrParticipantNotFound),
		errors.Is(err, models.ErrRestaurantNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrInvalidIngredient):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidShortCode):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrOrderNotFinalized),
		errors.Is(err, models.ErrOrderFulfilled):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// errorMessage hides internal failure details from clients.
func errorMessage(err error, statusCode int) string {
	if statusCode == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
