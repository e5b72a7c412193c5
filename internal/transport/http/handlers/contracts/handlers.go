package contractshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/contracts"
	"sorha/internal/transport/http/api"
	"sorha/internal/transport/http/middleware"
	"sorha/internal/transport/http/shared"
)

type Handler struct {
	Store *contracts.Store
}

func NewHandler(store *contracts.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/contracts", func(r chi.Router) {
		r.Use(middleware.RequireCapability(auth.CapContractsManage))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{contractID}", h.handleGet)
		r.Put("/{contractID}", h.handleUpdate)
		r.Delete("/{contractID}", h.handleDelete)
	})
}

func contractID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "contractID"))
	return id, err == nil && id > 0
}

type contractPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list contracts", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := contractID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "contract id must be a positive integer", reqID)
		return
	}

	contract, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, contracts.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "contract not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load contract", reqID)
		return
	}
	api.Success(w, contract, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload contractPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	contract, err := h.Store.Create(r.Context(), strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Description))
	if errors.Is(err, contracts.ErrNameTaken) {
		api.Fail(w, http.StatusBadRequest, "name_taken", "a contract with that name already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to create contract", reqID)
		return
	}
	api.Created(w, contract, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := contractID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "contract id must be a positive integer", reqID)
		return
	}

	var payload contractPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	contract, err := h.Store.Update(r.Context(), id, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Description))
	if errors.Is(err, contracts.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "contract not found", reqID)
		return
	}
	if errors.Is(err, contracts.ErrNameTaken) {
		api.Fail(w, http.StatusBadRequest, "name_taken", "a contract with that name already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to update contract", reqID)
		return
	}
	api.Success(w, contract, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := contractID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "contract id must be a positive integer", reqID)
		return
	}

	err := h.Store.Delete(r.Context(), id)
	if errors.Is(err, contracts.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "contract not found", reqID)
		return
	}
	if errors.Is(err, contracts.ErrInUse) {
		api.Fail(w, http.StatusBadRequest, "contract_in_use", "contract is assigned to employees and cannot be deleted", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to delete contract", reqID)
		return
	}
	api.Success(w, map[string]any{"message": "contract deleted"}, reqID)
}
