package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/menu"
)

type CreateMenuItemRequest struct {
	Name      string `json:"name" validate:"required"`
	Price     int64  `json:"price" validate:"min=0"`
	Category  string `json:"category"`
	Available *bool  `json:"available"`
}

type UpdateMenuItemRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Price     *int64  `json:"price" validate:"omitempty,min=0"`
	Category  *string `json:"category"`
	Available *bool   `json:"available"`
}

type menuItemResponse struct {
	Success bool       `json:"success"`
	Item    *menu.Item `json:"item"`
}

type menuItemsResponse struct {
	Success bool        `json:"success"`
	Items   []menu.Item `json:"items"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type MenuHandler struct {
	service  menu.Service
	validate *validator.Validate
}

func NewMenuHandler(service menu.Service) *MenuHandler {
	return &MenuHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *MenuHandler) RegisterRoutes(router chi.Router) {
	router.Get("/menu", h.handleListMenu)
	router.Post("/menu", h.handleCreateMenuItem)
	router.Put("/menu/{id}", h.handleUpdateMenuItem)
	router.Delete("/menu/{id}", h.handleDeleteMenuItem)
}

func (h *MenuHandler) handleListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list menu items")
		respondWithServiceError(w, err, "Failed to list menu items")
		return
	}

	respondWithJSON(w, http.StatusOK, menuItemsResponse{Success: true, Items: items})
}

func (h *MenuHandler) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateMenuItemRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode create menu item request")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		handleValidationError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), menu.CreateInput{
		Name:      requestPayload.Name,
		Price:     requestPayload.Price,
		Category:  requestPayload.Category,
		Available: requestPayload.Available,
	})
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to create menu item")
		respondWithServiceError(w, err, "Failed to create menu item")
		return
	}

	respondWithJSON(w, http.StatusCreated, menuItemResponse{Success: true, Item: created})
}

func (h *MenuHandler) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var requestPayload UpdateMenuItemRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode update menu item request")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		handleValidationError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, menu.UpdateInput{
		Name:      requestPayload.Name,
		Price:     requestPayload.Price,
		Category:  requestPayload.Category,
		Available: requestPayload.Available,
	})
	if err != nil {
		log.Warn().Err(err).Str("item_id", id).Msg("handler: failed to update menu item")
		respondWithServiceError(w, err, "Failed to update menu item")
		return
	}

	respondWithJSON(w, http.StatusOK, menuItemResponse{Success: true, Item: updated})
}

func (h *MenuHandler) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Warn().Err(err).Str("item_id", id).Msg("handler: failed to delete menu item")
		respondWithServiceError(w, err, "Failed to delete menu item")
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse{Success: true})
}
