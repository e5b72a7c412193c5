package overtimehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/overtime"
	"sorha/internal/transport/http/api"
	"sorha/internal/transport/http/middleware"
	"sorha/internal/transport/http/shared"
)

type Handler struct {
	Store *overtime.Store
}

func NewHandler(store *overtime.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/overtime", func(r chi.Router) {
		r.Use(middleware.RequireCapability(auth.CapOvertimeManage))
		r.Get("/employee/{employeeID}", h.handleListForEmployee)
		r.Post("/", h.handleCreate)
	})
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "employeeID"))
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", reqID)
		return
	}

	v := shared.NewValidator()
	query := r.URL.Query()
	var from, to time.Time
	if raw := query.Get("startDate"); raw != "" {
		from, _ = v.Date("startDate", raw)
	}
	if raw := query.Get("endDate"); raw != "" {
		to, _ = v.Date("endDate", raw)
	}
	v.DateOrder("startDate", from, "endDate", to)
	if v.Reject(w, reqID) {
		return
	}

	entries, err := h.Store.ListForEmployee(r.Context(), id, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list overtime entries", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

type createOvertimeRequest struct {
	EmployeeID int     `json:"employeeId"`
	EntryDate  string  `json:"entryDate"`
	Hours      float64 `json:"hours"`
	Kind       string  `json:"kind"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.EmployeeID <= 0 {
		v.Add("employeeId", "employee id must be a positive integer")
	}
	entryDate, _ := v.Date("entryDate", payload.EntryDate)
	if payload.Hours <= 0 || payload.Hours > 24 {
		v.Add("hours", "hours must be between 0 and 24")
	}
	v.Required("kind", payload.Kind, "kind is required")
	v.Enum("kind", payload.Kind, overtime.Kinds, "kind must be normal, double or holiday")
	if v.Reject(w, reqID) {
		return
	}

	entry, err := h.Store.Create(r.Context(), overtime.Entry{
		EmployeeID: payload.EmployeeID,
		EntryDate:  entryDate,
		Hours:      payload.Hours,
		Kind:       strings.ToLower(strings.TrimSpace(payload.Kind)),
	})
	if errors.Is(err, overtime.ErrUnknownEmployee) {
		api.Fail(w, http.StatusBadRequest, "unknown_employee", "employee does not exist", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to record overtime", reqID)
		return
	}
	api.Created(w, entry, reqID)
}
