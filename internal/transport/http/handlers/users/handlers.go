package usershandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/users"
	"sorha/internal/transport/http/api"
	"sorha/internal/transport/http/middleware"
	"sorha/internal/transport/http/shared"
)

type Handler struct {
	Store *users.Store
}

func NewHandler(store *users.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireCapability(auth.CapUsersManage))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{userID}", h.handleGet)
		r.Put("/{userID}", h.handleUpdate)
		r.Delete("/{userID}", h.handleDelete)
	})
}

func userID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "userID"))
	return id, err == nil && id > 0
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list users", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := userID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer", reqID)
		return
	}

	user, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load user", reqID)
		return
	}
	api.Success(w, user, reqID)
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	v.Required("role", payload.Role, "role is required")
	v.Enum("role", payload.Role, auth.AllRoles, "role is not recognized")
	if v.Reject(w, reqID) {
		return
	}

	user, err := h.Store.Create(r.Context(), strings.TrimSpace(payload.Username), payload.Password, payload.Role)
	if errors.Is(err, users.ErrUsernameTaken) {
		api.Fail(w, http.StatusBadRequest, "username_taken", "username already exists", reqID)
		return
	}
	if errors.Is(err, users.ErrUnknownRole) {
		api.Fail(w, http.StatusBadRequest, "unknown_role", "role is not recognized", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to create user", reqID)
		return
	}
	api.Created(w, user, reqID)
}

type updateUserRequest struct {
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
	Password string `json:"password"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := userID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer", reqID)
		return
	}

	var payload updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	current, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load user", reqID)
		return
	}

	role := payload.Role
	if role == "" {
		role = current.Role
	}
	active := current.Active
	if payload.Active != nil {
		active = *payload.Active
	}

	caller, _ := middleware.GetUser(r.Context())
	if err := users.CheckSelfProtection(caller.ID, id, current.Role, role, active, false); err != nil {
		api.Fail(w, http.StatusBadRequest, "self_protection", err.Error(), reqID)
		return
	}

	user, err := h.Store.Update(r.Context(), id, role, active, payload.Password)
	if errors.Is(err, users.ErrUnknownRole) {
		api.Fail(w, http.StatusBadRequest, "unknown_role", "role is not recognized", reqID)
		return
	}
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to update user", reqID)
		return
	}
	api.Success(w, user, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := userID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "user id must be a positive integer", reqID)
		return
	}

	caller, _ := middleware.GetUser(r.Context())
	if err := users.CheckSelfProtection(caller.ID, id, "", "", true, true); err != nil {
		api.Fail(w, http.StatusBadRequest, "self_protection", err.Error(), reqID)
		return
	}

	err := h.Store.Delete(r.Context(), id)
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to delete user", reqID)
		return
	}
	api.Success(w, map[string]any{"message": "user deleted"}, reqID)
}
