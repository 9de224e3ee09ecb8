package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/report"
)

type reportResponse struct {
	Success bool           `json:"success"`
	Report  *report.Report `json:"report"`
}

type ReportHandler struct {
	service report.Service
}

func NewReportHandler(service report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(router chi.Router) {
	router.Get("/reports/daily", h.handleDailyReport)
}

func (h *ReportHandler) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	rep, err := h.service.Daily(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("handler: failed to build daily report")
		respondWithServiceError(w, err, "Failed to build report")
		return
	}

	respondWithJSON(w, http.StatusOK, reportResponse{Success: true, Report: rep})
}
