package reportshandler

import (
	"net/http"
	"strconv"
	"time"

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
	r.With(middleware.RequireCapability(auth.CapReportsRead)).Get("/reports/productivity", h.handleProductivityReport)
}

func (h *Handler) handleProductivityReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	v := shared.NewValidator()
	employeeID := 0
	if raw := query.Get("employeeId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			v.Add("employeeId", "employee id must be a positive integer")
		} else {
			employeeID = parsed
		}
	}
	var start time.Time
	if raw := query.Get("startDate"); raw != "" {
		start, _ = v.Date("startDate", raw)
	}
	if v.Reject(w, reqID) {
		return
	}

	rows, err := h.Store.Report(r.Context(), employeeID, start)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to build report", reqID)
		return
	}

	data := map[string]any{"rows": rows}
	if !start.IsZero() {
		data["window"] = map[string]string{
			"from": shared.FormatDate(start),
			"to":   shared.FormatDate(start.AddDate(0, 0, productivity.ReportWindowDays)),
		}
	}
	api.Success(w, data, reqID)
}
