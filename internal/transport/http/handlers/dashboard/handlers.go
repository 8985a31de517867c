package dashboardhandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"govpay/internal/domain/dashboard"
	"govpay/internal/transport/http/api"
	"govpay/internal/transport/http/middleware"
)

type Handler struct {
	Service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleSnapshot)
		r.With(middleware.RequireAuth).Get("/totals", h.handleTotals)
		r.With(middleware.RequireAuth).Get("/upcoming-payments", h.handleUpcomingPayments)
	})
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := h.Service.Snapshot(r.Context())
	if snap.Degraded {
		api.WriteJSON(w, http.StatusInternalServerError, api.Envelope{
			Success:   false,
			Data:      snap,
			Error:     &api.Error{Code: "dashboard_degraded", Message: "dashboard data is partially unavailable"},
			RequestID: requestID,
		})
		return
	}
	api.Success(w, snap, requestID)
}

func periodFromQuery(r *http.Request) (int, int) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if raw := r.URL.Query().Get("month"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 12 {
			month = v
		}
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 2000 {
			year = v
		}
	}
	return month, year
}

func (h *Handler) handleTotals(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	month, year := periodFromQuery(r)
	totals, err := h.Service.Totals(r.Context(), month, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_totals_failed", "failed to compute totals", requestID)
		return
	}
	api.Success(w, totals, requestID)
}

func (h *Handler) handleUpcomingPayments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	month, year := periodFromQuery(r)
	payments, err := h.Service.UpcomingPayments(r.Context(), month, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_upcoming_failed", "failed to list upcoming payments", requestID)
		return
	}
	if payments == nil {
		payments = []dashboard.UpcomingPayment{}
	}
	api.Success(w, payments, requestID)
}
