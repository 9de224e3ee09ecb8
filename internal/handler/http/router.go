package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/bill"
	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/menu"
	"github.com/Raghav1000000000/cafe/internal/order"
	"github.com/Raghav1000000000/cafe/internal/report"
)

// HealthChecker reports storage health for the liveness endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Persistent() bool
}

// Services bundles everything the router serves.
type Services struct {
	Orders    order.Service
	Bills     bill.Service
	Customers customer.Service
	Menu      menu.Service
	Reports   report.Service
	OTP       OTPManager
}

type healthResponse struct {
	Success    bool   `json:"success"`
	Status     string `json:"status"`
	Persistent bool   `json:"persistent"`
}

// NewRouter assembles the full REST surface.
func NewRouter(svcs Services, health HealthChecker) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	NewOrderHandler(svcs.Orders).RegisterRoutes(router)
	NewBillHandler(svcs.Bills).RegisterRoutes(router)
	NewOTPHandler(svcs.OTP).RegisterRoutes(router)
	NewCustomerHandler(svcs.Customers).RegisterRoutes(router)
	NewMenuHandler(svcs.Menu).RegisterRoutes(router)
	NewReportHandler(svcs.Reports).RegisterRoutes(router)

	router.Get("/health", handleHealth(health))

	return router
}

func handleHealth(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if health.Persistent() {
			if err := health.Ping(r.Context()); err != nil {
				log.Warn().Err(err).Msg("handler: health ping failed")
				status = "degraded"
			}
		}
		respondWithJSON(w, http.StatusOK, healthResponse{
			Success:    true,
			Status:     status,
			Persistent: health.Persistent(),
		})
	}
}
