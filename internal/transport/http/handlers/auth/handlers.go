package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/platform/config"
	"sorha/internal/transport/http/api"
	"sorha/internal/transport/http/middleware"
)

type Handler struct {
	Store      *auth.Store
	SessionTTL time.Duration
	Secure     bool
}

func NewHandler(store *auth.Store, cfg config.Config) *Handler {
	return &Handler{Store: store, SessionTTL: cfg.SessionTTL, Secure: cfg.Production()}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.With(middleware.RequireAuthenticated).Get("/auth/session", h.handleSession)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "username and password are required", reqID)
		return
	}

	user, err := h.Store.FindActiveUser(r.Context(), payload.Username)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", reqID)
		return
	}

	sessionUser := auth.SessionUser{ID: user.ID, Username: user.Username, Role: user.Role}
	expires := time.Now().Add(h.SessionTTL)
	if err := h.Store.CreateSession(r.Context(), sessionUser, auth.HashToken(token), expires); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", reqID)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	api.Success(w, map[string]any{"user": sessionUser}, reqID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.Store.RevokeSession(r.Context(), auth.HashToken(cookie.Value)); err != nil {
			api.Fail(w, http.StatusInternalServerError, "session_error", "failed to end session", reqID)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	api.Success(w, map[string]any{"message": "session closed"}, reqID)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, map[string]any{"user": user}, middleware.GetRequestID(r.Context()))
}
