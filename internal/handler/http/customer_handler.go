package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/customer"
)

type customerResponse struct {
	Success  bool               `json:"success"`
	Customer *customer.Customer `json:"customer"`
}

type customersResponse struct {
	Success   bool                `json:"success"`
	Customers []customer.Customer `json:"customers"`
}

type CustomerHandler struct {
	service customer.Service
}

func NewCustomerHandler(service customer.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func (h *CustomerHandler) RegisterRoutes(router chi.Router) {
	router.Get("/customers", h.handleListCustomers)
	router.Get("/customers/{phone}", h.handleGetCustomer)
}

func (h *CustomerHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list customers")
		respondWithServiceError(w, err, "Failed to list customers")
		return
	}

	respondWithJSON(w, http.StatusOK, customersResponse{Success: true, Customers: customers})
}

func (h *CustomerHandler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	found, err := h.service.Get(r.Context(), phone)
	if err != nil {
		log.Warn().Err(err).Str("phone", phone).Msg("handler: failed to get customer")
		respondWithServiceError(w, err, "Failed to get customer")
		return
	}

	respondWithJSON(w, http.StatusOK, customerResponse{Success: true, Customer: found})
}
