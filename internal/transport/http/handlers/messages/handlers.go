package messageshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"govpay/internal/domain/messages"
	"govpay/internal/transport/http/api"
	"govpay/internal/transport/http/middleware"
	"govpay/internal/transport/http/shared"
)

type Handler struct {
	Service *messages.Service
}

func NewHandler(service *messages.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleList)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.With(middleware.RequireAuth).Post("/{messageID}/read", h.handleMarkRead)
		r.With(middleware.RequireAuth).Get("/unread-count", h.handleUnreadCount)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employeeID := shared.ParseID(r.URL.Query().Get("employeeId"))
	if employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter required", requestID)
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"

	list, err := h.Service.ListForEmployee(r.Context(), employeeID, unreadOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_list_failed", "failed to list messages", requestID)
		return
	}
	if list == nil {
		list = []messages.Message{}
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload messages.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "required")
	if payload.EmployeeID <= 0 {
		v.Add("employeeId", "required")
	}
	if v.Reject(w, requestID) {
		return
	}

	message, err := h.Service.Create(r.Context(), payload)
	if errors.Is(err, messages.ErrInvalidType) {
		api.Fail(w, http.StatusBadRequest, "invalid_type", "unknown message type", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_create_failed", "failed to create message", requestID)
		return
	}
	api.Created(w, message, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	messageID := shared.ParseID(chi.URLParam(r, "messageID"))
	if messageID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid message id", requestID)
		return
	}

	message, err := h.Service.MarkRead(r.Context(), messageID)
	if errors.Is(err, messages.ErrMessageNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "message not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_read_failed", "failed to mark message read", requestID)
		return
	}
	api.Success(w, message, requestID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employeeID := shared.ParseID(r.URL.Query().Get("employeeId"))
	if employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter required", requestID)
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "message_count_failed", "failed to count unread messages", requestID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, requestID)
}
