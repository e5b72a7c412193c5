package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/payroll"
	"sorha/internal/transport/http/api"
	"sorha/internal/transport/http/middleware"
	"sorha/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireCapability(auth.CapPayrollRun))
		r.Post("/", h.handlePay)
		r.Post("/pay", h.handlePay)
		r.Post("/batch", h.handleBatch)
		r.Get("/history/{employeeID}", h.handleHistory)
	})
}

type payRequest struct {
	EmployeeID int    `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload payRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.EmployeeID <= 0 {
		v.Add("employeeId", "employee id must be a positive integer")
	}
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	message, err := h.Service.PaySingle(r.Context(), payload.EmployeeID, payroll.Period{Start: start, End: end})
	var rejection *payroll.RejectionError
	if errors.As(err, &rejection) {
		api.Fail(w, http.StatusBadRequest, "payment_rejected", rejection.Message, reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payment_error", "payment generation failed", reqID)
		return
	}
	api.Success(w, map[string]any{"message": message}, reqID)
}

// Batch wire values, with the Spanish aliases the original
// administration UI sends.
var batchModes = map[string]payroll.Frequency{
	"weekly":    payroll.FrequencyWeekly,
	"biweekly":  payroll.FrequencyBiweekly,
	"monthly":   payroll.FrequencyMonthly,
	"semanal":   payroll.FrequencyWeekly,
	"quincenal": payroll.FrequencyBiweekly,
	"mensual":   payroll.FrequencyMonthly,
}

var batchHalves = map[string]payroll.Half{
	"":        "",
	"first":   payroll.HalfFirst,
	"second":  payroll.HalfSecond,
	"primera": payroll.HalfFirst,
	"segunda": payroll.HalfSecond,
}

type batchRequest struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Mode  string `json:"mode"`
	Half  string `json:"half"`
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload batchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.IntRange("month", payload.Month, 1, 12, "month must be between 1 and 12")
	v.IntRange("year", payload.Year, payroll.MinYear, payroll.MaxYear, "year must be between 2000 and 2100")

	mode := strings.ToLower(strings.TrimSpace(payload.Mode))
	freq, ok := batchModes[mode]
	if !ok {
		v.Add("mode", "mode must be weekly, biweekly or monthly")
	}
	half, ok := batchHalves[strings.ToLower(strings.TrimSpace(payload.Half))]
	if !ok {
		v.Add("half", "half must be first or second")
	}
	if freq == payroll.FrequencyBiweekly && half == "" {
		v.Add("half", "half is required for biweekly mode")
	}
	if v.Reject(w, reqID) {
		return
	}

	report, err := h.Service.RunBatch(r.Context(), payload.Year, payload.Month, freq, half)
	if errors.Is(err, payroll.ErrNoActiveEmployees) {
		api.Fail(w, http.StatusNotFound, "no_active_employees", "there are no active employees to pay", reqID)
		return
	}
	if errors.Is(err, payroll.ErrInvalidPeriodSpec) {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "invalid payroll period parameters", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "batch_error", "batch payroll run failed", reqID)
		return
	}

	api.WriteJSON(w, report.HTTPStatus(), api.Envelope{
		Success: report.SuccessCount() > 0,
		Data: map[string]any{
			"message": report.Summary(),
			"details": report,
		},
		RequestID: reqID,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "employeeID"))
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", reqID)
		return
	}

	v := shared.NewValidator()
	query := r.URL.Query()
	month := queryInt(query.Get("month"), v, "month")
	year := queryInt(query.Get("year"), v, "year")
	v.IntRange("month", month, 1, 12, "month must be between 1 and 12")
	v.IntRange("year", year, payroll.MinYear, payroll.MaxYear, "year must be between 2000 and 2100")
	if v.Reject(w, reqID) {
		return
	}

	entries, err := h.Service.History(r.Context(), id, month, year)
	if errors.Is(err, payroll.ErrInvalidPeriodSpec) {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "invalid history filter", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load payment history", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func queryInt(raw string, v *shared.Validator, field string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		v.Add(field, field+" must be an integer")
		return 0
	}
	return value
}
