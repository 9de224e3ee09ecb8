package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/otp"
)

// OTPManager is the slice of the otp manager the handler needs.
type OTPManager interface {
	Request(ctx context.Context, rawPhone string) (otp.Challenge, error)
	Verify(ctx context.Context, rawPhone, code string) (string, error)
}

type RequestOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// otpChallengeResponse returns the code in-band. The notifier delivers it
// too; the response copy is what the kiosk flow reads.
type otpChallengeResponse struct {
	Success         bool   `json:"success"`
	Code            string `json:"code"`
	NormalizedPhone string `json:"normalizedPhone"`
}

type otpVerifiedResponse struct {
	Success         bool   `json:"success"`
	NormalizedPhone string `json:"normalizedPhone"`
}

type OTPHandler struct {
	manager  OTPManager
	validate *validator.Validate
}

func NewOTPHandler(manager OTPManager) *OTPHandler {
	return &OTPHandler{
		manager:  manager,
		validate: newValidator(),
	}
}

func (h *OTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/otp", h.handleRequestOTP)
	router.Post("/otp/verify", h.handleVerifyOTP)
}

func (h *OTPHandler) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var requestPayload RequestOTPRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode otp request")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		handleValidationError(w, err)
		return
	}

	challenge, err := h.manager.Request(r.Context(), requestPayload.Phone)
	if err != nil {
		log.Warn().Err(err).Msg("handler: failed to issue otp")
		respondWithServiceError(w, err, "Failed to issue code")
		return
	}

	respondWithJSON(w, http.StatusOK, otpChallengeResponse{
		Success:         true,
		Code:            challenge.Code,
		NormalizedPhone: challenge.Phone,
	})
}

func (h *OTPHandler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var requestPayload VerifyOTPRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode otp verification")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		handleValidationError(w, err)
		return
	}

	normalized, err := h.manager.Verify(r.Context(), requestPayload.Phone, requestPayload.Code)
	if err != nil {
		log.Warn().Err(err).Msg("handler: otp verification failed")
		respondWithServiceError(w, err, "Failed to verify code")
		return
	}

	respondWithJSON(w, http.StatusOK, otpVerifiedResponse{Success: true, NormalizedPhone: normalized})
}
