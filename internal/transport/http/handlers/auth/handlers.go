package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"govpay/internal/domain/auth"
	"govpay/internal/transport/http/api"
	"govpay/internal/transport/http/middleware"
)

type Handler struct {
	Store     *auth.Store
	JWTSecret string
	JWTTTL    time.Duration
}

func NewHandler(store *auth.Store, secret string, ttl time.Duration) *Handler {
	return &Handler{Store: store, JWTSecret: secret, JWTTTL: ttl}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
	})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Role    string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password required", requestID)
		return
	}

	user, err := h.Store.FindUserByEmail(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, h.JWTTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", requestID)
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("last login update failed", "userId", user.ID, "err", err)
	}

	api.Success(w, loginResponse{
		Token: token,
		User: userView{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			Surname: user.Surname,
			Role:    user.Role,
		},
	}, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, map[string]any{
		"id":    user.UserID,
		"email": user.Email,
		"role":  user.Role,
	}, requestID)
}
