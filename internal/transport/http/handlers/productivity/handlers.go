package productivityhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/productivity"
	"sorha/internal/transport/http/api"
	"sorha/internal/transport/http/middleware"
	"sorha/internal/transport/http/shared"
)

type Handler struct {
	Store *productivity.Store
}

func NewHandler(store *productivity.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/productivity", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.CapProductivityRead)).Get("/metrics", h.handleListMetrics)
		r.With(middleware.RequireCapability(auth.CapProductivityRead)).Get("/records/{employeeID}", h.handleRecordsForEmployee)
		r.With(middleware.RequireCapability(auth.CapProductivityWrite)).Post("/records", h.handleRegisterBatch)
	})
}

func (h *Handler) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	metrics, err := h.Store.ListMetrics(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list metrics", reqID)
		return
	}
	api.Success(w, metrics, reqID)
}

func (h *Handler) handleRecordsForEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "employeeID"))
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", reqID)
		return
	}

	records, err := h.Store.RecordsForEmployee(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list records", reqID)
		return
	}
	api.Success(w, records, reqID)
}

type registerBatchRequest struct {
	EmployeeID int                 `json:"employeeId"`
	RecordedOn string              `json:"recordedOn"`
	Items      []productivity.Item `json:"items"`
}

func (h *Handler) handleRegisterBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload registerBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.EmployeeID <= 0 {
		v.Add("employeeId", "employee id must be a positive integer")
	}
	recordedOn, _ := v.Date("recordedOn", payload.RecordedOn)
	if len(payload.Items) == 0 {
		v.Add("items", "at least one item is required")
	}
	if v.Reject(w, reqID) {
		return
	}

	stored, skipped, err := h.Store.RegisterBatch(r.Context(), payload.EmployeeID, recordedOn, payload.Items)
	if errors.Is(err, productivity.ErrNoValidItems) {
		api.Fail(w, http.StatusBadRequest, "no_valid_items", "no item in the batch is valid", reqID)
		return
	}
	if errors.Is(err, productivity.ErrUnknownEmployee) {
		api.Fail(w, http.StatusBadRequest, "unknown_employee", "employee does not exist", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to register productivity", reqID)
		return
	}
	api.Created(w, map[string]any{"stored": stored, "skipped": skipped}, reqID)
}
