package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/bill"
)

type CreateBillRequest struct {
	TableNumber   *int               `json:"tableNumber" validate:"omitempty,min=1"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Items         []orderItemPayload `json:"items" validate:"required,min=1,dive"`
	OrderID       string             `json:"orderId"`
}

type billResponse struct {
	Success bool       `json:"success"`
	Bill    *bill.Bill `json:"bill"`
}

type billsResponse struct {
	Success bool        `json:"success"`
	Bills   []bill.Bill `json:"bills"`
}

type BillHandler struct {
	service  bill.Service
	validate *validator.Validate
}

func NewBillHandler(service bill.Service) *BillHandler {
	return &BillHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *BillHandler) RegisterRoutes(router chi.Router) {
	router.Post("/bills", h.handleCreateBill)
	router.Get("/bills", h.handleListBills)
	router.Get("/bills/{id}", h.handleGetBill)
}

func (h *BillHandler) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateBillRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode create bill request")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		handleValidationError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), bill.CreateInput{
		TableNumber:   requestPayload.TableNumber,
		CustomerName:  requestPayload.CustomerName,
		CustomerPhone: requestPayload.CustomerPhone,
		Items:         toItems(requestPayload.Items),
		OrderID:       requestPayload.OrderID,
	})
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to create bill")
		respondWithServiceError(w, err, "Failed to create bill")
		return
	}

	respondWithJSON(w, http.StatusCreated, billResponse{Success: true, Bill: created})
}

func (h *BillHandler) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.service.List(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list bills")
		respondWithServiceError(w, err, "Failed to list bills")
		return
	}

	respondWithJSON(w, http.StatusOK, billsResponse{Success: true, Bills: bills})
}

func (h *BillHandler) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Str("bill_id", id).Msg("handler: failed to get bill")
		respondWithServiceError(w, err, "Failed to get bill")
		return
	}

	respondWithJSON(w, http.StatusOK, billResponse{Success: true, Bill: found})
}
