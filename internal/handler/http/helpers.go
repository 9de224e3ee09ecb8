package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/bill"
	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/menu"
	"github.com/Raghav1000000000/cafe/internal/order"
	"github.com/Raghav1000000000/cafe/internal/otp"
	"github.com/Raghav1000000000/cafe/internal/phone"
	"github.com/Raghav1000000000/cafe/internal/report"
)

// errorResponse is the failure half of the wire envelope. Every error
// leaves the API as {"success":false,"message":"..."}.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Success: false, Message: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("handler: failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, bill.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, menu.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrOrderCompleted),
		errors.Is(err, order.ErrInvalidStatusTransition),
		errors.Is(err, bill.ErrOrderNotBillable):
		return http.StatusConflict
	case errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrInvalidItem),
		errors.Is(err, order.ErrInvalidTableNumber),
		errors.Is(err, order.ErrInvalidTotalAmount),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, bill.ErrNoItems),
		errors.Is(err, bill.ErrInvalidItem),
		errors.Is(err, menu.ErrInvalidItem),
		errors.Is(err, phone.ErrInvalidPhone),
		errors.Is(err, otp.ErrNoOTPRequested),
		errors.Is(err, otp.ErrInvalidCode),
		errors.Is(err, report.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError translates a service error into the envelope.
// Domain errors carry client-safe messages; anything unexpected gets the
// fallback so internals never leak.
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		respondWithError(w, code, fallback)
		return
	}
	respondWithError(w, code, err.Error())
}

// newValidator builds a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// handleValidationError renders validator output as a 400. Non-validator
// errors from Struct are internal.
func handleValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithError(w, http.StatusBadRequest, formatValidationErrors(validationErrors))
		return
	}
	log.Error().Err(err).Msg("handler: unexpected error type during validation")
	respondWithError(w, http.StatusInternalServerError, "Internal validation error")
}
