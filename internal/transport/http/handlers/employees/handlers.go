package employeeshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/employees"
	"sorha/internal/domain/payroll"
	"sorha/internal/transport/http/api"
	"sorha/internal/transport/http/middleware"
	"sorha/internal/transport/http/shared"
)

type Handler struct {
	Store   *employees.Store
	Payroll *payroll.Service
}

func NewHandler(store *employees.Store, payrollSvc *payroll.Service) *Handler {
	return &Handler{Store: store, Payroll: payrollSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.CapEmployeesRead)).Get("/", h.handleList)
		r.With(middleware.RequireCapability(auth.CapEmployeesRead)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequireCapability(auth.CapEmployeesWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequireCapability(auth.CapEmployeesWrite)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequireCapability(auth.CapEmployeesWrite)).Delete("/{employeeID}", h.handleDelete)
	})
	r.With(middleware.RequireCapability(auth.CapProfileRead)).Get("/profile", h.handleProfile)
}

func employeeID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "employeeID"))
	return id, err == nil && id > 0
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)
	list, err := h.Store.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list employees", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := employeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", reqID)
		return
	}

	emp, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, employees.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

type employeePayload struct {
	FirstName      string  `json:"firstName"`
	MiddleName     string  `json:"middleName"`
	LastName       string  `json:"lastName"`
	SecondLastName string  `json:"secondLastName"`
	Username       string  `json:"username"`
	Gender         string  `json:"gender"`
	Age            int     `json:"age"`
	ContractID     *int    `json:"contractId"`
	Position       string  `json:"position"`
	MaritalStatus  string  `json:"maritalStatus"`
	BirthDate      string  `json:"birthDate"`
	BirthCity      string  `json:"birthCity"`
	Department     string  `json:"department"`
	Email          string  `json:"email"`
	InternalEmail  string  `json:"internalEmail"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	BaseSalary     float64 `json:"baseSalary"`
	Status         string  `json:"status"`
	Password       string  `json:"password,omitempty"`
}

func (p employeePayload) validate(v *shared.Validator, requirePassword bool) (employees.Employee, bool) {
	v.Required("firstName", p.FirstName, "first name is required")
	v.Required("lastName", p.LastName, "last name is required")
	v.Required("username", p.Username, "username is required")
	if requirePassword {
		v.Required("password", p.Password, "password is required")
	}
	v.Enum("status", p.Status, employees.Statuses, "status must be active or inactive")
	if p.BaseSalary < 0 {
		v.Add("baseSalary", "base salary must not be negative")
	}

	var birthDate *time.Time
	if p.BirthDate != "" {
		parsed, ok := v.Date("birthDate", p.BirthDate)
		if ok {
			birthDate = &parsed
		}
	}
	if v.HasIssues() {
		return employees.Employee{}, false
	}

	status := strings.ToLower(strings.TrimSpace(p.Status))
	if status == "" {
		status = employees.StatusActive
	}

	return employees.Employee{
		FirstName:      strings.TrimSpace(p.FirstName),
		MiddleName:     strings.TrimSpace(p.MiddleName),
		LastName:       strings.TrimSpace(p.LastName),
		SecondLastName: strings.TrimSpace(p.SecondLastName),
		Username:       strings.TrimSpace(p.Username),
		Gender:         strings.TrimSpace(p.Gender),
		Age:            p.Age,
		ContractID:     p.ContractID,
		Position:       strings.TrimSpace(p.Position),
		MaritalStatus:  strings.TrimSpace(p.MaritalStatus),
		BirthDate:      birthDate,
		BirthCity:      strings.TrimSpace(p.BirthCity),
		Department:     strings.TrimSpace(p.Department),
		Email:          strings.TrimSpace(p.Email),
		InternalEmail:  strings.TrimSpace(p.InternalEmail),
		Phone:          strings.TrimSpace(p.Phone),
		Address:        strings.TrimSpace(p.Address),
		BaseSalary:     p.BaseSalary,
		Status:         status,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	emp, ok := payload.validate(v, true)
	if !ok {
		v.Reject(w, reqID)
		return
	}

	created, err := h.Store.Create(r.Context(), emp, payload.Password)
	if err != nil {
		failEmployee(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := employeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", reqID)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	emp, ok := payload.validate(v, false)
	if !ok {
		v.Reject(w, reqID)
		return
	}

	updated, warning, err := h.Store.Update(r.Context(), id, emp)
	if err != nil {
		failEmployee(w, err, reqID)
		return
	}

	data := map[string]any{"employee": updated}
	if warning != "" {
		data["warning"] = true
		data["message"] = warning
	}
	api.Success(w, data, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := employeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", reqID)
		return
	}

	warning, err := h.Store.Delete(r.Context(), id)
	if err != nil {
		failEmployee(w, err, reqID)
		return
	}

	data := map[string]any{"message": "employee deleted"}
	if warning != "" {
		data["warning"] = true
		data["message"] = warning
	}
	api.Success(w, data, reqID)
}

// handleProfile returns the caller's own employee record with its
// payment history.
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Store.GetByUsername(r.Context(), user.Username)
	if errors.Is(err, employees.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load profile", reqID)
		return
	}

	history, err := h.Payroll.History(r.Context(), emp.ID, 0, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load payment history", reqID)
		return
	}

	api.Success(w, map[string]any{"employee": emp, "payments": history}, reqID)
}

func failEmployee(w http.ResponseWriter, err error, reqID string) {
	var business *employees.BusinessError
	switch {
	case errors.Is(err, employees.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.As(err, &business):
		api.Fail(w, http.StatusBadRequest, "business_rule", business.Message, reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "store_error", "employee operation failed", reqID)
	}
}
