package budgethandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"govpay/internal/domain/audit"
	"govpay/internal/domain/budget"
	"govpay/internal/transport/http/api"
	"govpay/internal/transport/http/middleware"
	"govpay/internal/transport/http/shared"
)

type Handler struct {
	Service *budget.Service
	Audit   *audit.Recorder
}

func NewHandler(service *budget.Service, auditor *audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/budgets", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleList)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.With(middleware.RequireAuth).Get("/{budgetID}", h.handleGet)
		r.With(middleware.RequireAdmin).Put("/{budgetID}", h.handleUpdate)
		r.With(middleware.RequireAdmin).Delete("/{budgetID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var filter budget.Filter
	if id := shared.ParseID(r.URL.Query().Get("ministryId")); id != 0 {
		filter.MinistryID = &id
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Month = &v
		}
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Year = &v
		}
	}

	budgets, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "budget_list_failed", "failed to list budgets", requestID)
		return
	}
	if budgets == nil {
		budgets = []budget.Budget{}
	}
	api.Success(w, budgets, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload budget.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	created, err := h.Service.Create(r.Context(), payload)
	switch {
	case errors.Is(err, budget.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "invalid budget period", requestID)
		return
	case errors.Is(err, budget.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "budget amount must not be negative", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "budget_create_failed", "failed to create budget", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "budget.create", "budget", strconv.FormatInt(created.ID, 10), nil, created); err != nil {
		slog.Warn("audit budget.create failed", "err", err)
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	budgetID := shared.ParseID(chi.URLParam(r, "budgetID"))
	if budgetID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid budget id", requestID)
		return
	}

	found, err := h.Service.Get(r.Context(), budgetID)
	if errors.Is(err, budget.ErrBudgetNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "budget not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "budget_failed", "failed to load budget", requestID)
		return
	}
	api.Success(w, found, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	budgetID := shared.ParseID(chi.URLParam(r, "budgetID"))
	if budgetID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid budget id", requestID)
		return
	}

	var payload budget.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	updated, err := h.Service.UpdateAmount(r.Context(), budgetID, payload)
	switch {
	case errors.Is(err, budget.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "budget amount must not be negative", requestID)
		return
	case errors.Is(err, budget.ErrBudgetNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "budget not found", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "budget_update_failed", "failed to update budget", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "budget.update", "budget", strconv.FormatInt(budgetID, 10), nil, updated); err != nil {
		slog.Warn("audit budget.update failed", "err", err)
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	budgetID := shared.ParseID(chi.URLParam(r, "budgetID"))
	if budgetID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid budget id", requestID)
		return
	}

	err := h.Service.Delete(r.Context(), budgetID)
	if errors.Is(err, budget.ErrBudgetNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "budget not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "budget_delete_failed", "failed to delete budget", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "budget.delete", "budget", strconv.FormatInt(budgetID, 10), nil, nil); err != nil {
		slog.Warn("audit budget.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}
