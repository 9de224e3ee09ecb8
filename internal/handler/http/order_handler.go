package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/order"
)

// orderItemPayload is the wire shape of a line item, shared by order and
// bill requests.
type orderItemPayload struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"min=0"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func (p orderItemPayload) toItem() order.Item {
	return order.Item{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
	}
}

func toItems(payloads []orderItemPayload) []order.Item {
	items := make([]order.Item, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, p.toItem())
	}
	return items
}

type CreateOrderRequest struct {
	TableNumber   *int               `json:"tableNumber" validate:"omitempty,min=1"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Items         []orderItemPayload `json:"items" validate:"required,min=1,dive"`
	TotalAmount   *int64             `json:"totalAmount" validate:"omitempty,min=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type createOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type orderResponse struct {
	Success bool         `json:"success"`
	Order   *order.Order `json:"order"`
}

type ordersResponse struct {
	Success bool          `json:"success"`
	Orders  []order.Order `json:"orders"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Patch("/orders/{id}", h.handleUpdateOrderStatus)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode create order request")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		handleValidationError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), order.CreateInput{
		TableNumber:   requestPayload.TableNumber,
		CustomerName:  requestPayload.CustomerName,
		CustomerPhone: requestPayload.CustomerPhone,
		Items:         toItems(requestPayload.Items),
		TotalAmount:   requestPayload.TotalAmount,
	})
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to create order")
		respondWithServiceError(w, err, "Failed to create order")
		return
	}

	respondWithJSON(w, http.StatusCreated, createOrderResponse{Success: true, OrderID: created.ID})
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	var filter order.Filter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := order.ParseStatus(raw)
		if err != nil {
			respondWithServiceError(w, err, "Invalid status parameter")
			return
		}
		filter.Status = status
	}

	if raw := r.URL.Query().Get("table"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid table parameter")
			return
		}
		filter.TableNumber = &n
	}

	orders, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list orders")
		respondWithServiceError(w, err, "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, ordersResponse{Success: true, Orders: orders})
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Str("order_id", id).Msg("handler: failed to get order")
		respondWithServiceError(w, err, "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, orderResponse{Success: true, Order: found})
}

func (h *OrderHandler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var requestPayload UpdateOrderStatusRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode status update request")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		handleValidationError(w, err)
		return
	}

	next, err := order.ParseStatus(requestPayload.Status)
	if err != nil {
		respondWithServiceError(w, err, "Invalid status")
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, next)
	if err != nil {
		log.Warn().Err(err).Str("order_id", id).Str("status", requestPayload.Status).Msg("handler: failed to update order status")
		respondWithServiceError(w, err, "Failed to update order status")
		return
	}

	respondWithJSON(w, http.StatusOK, orderResponse{Success: true, Order: updated})
}
