package payrollhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/payroll"
	"sorha/internal/transport/http/middleware"
)

type fakeStore struct {
	activeIDs []int
	results   map[string]string
	calls     int
}

func (f *fakeStore) ActiveEmployeeIDs(ctx context.Context) ([]int, error) {
	return f.activeIDs, nil
}

func (f *fakeStore) GeneratePeriodPayment(ctx context.Context, employeeID int, period payroll.Period) (string, error) {
	f.calls++
	key := period.Start.Format("2006-01-02")
	if result, ok := f.results[key]; ok {
		return result, nil
	}
	return "Pago generado correctamente", nil
}

func (f *fakeStore) History(ctx context.Context, employeeID, month, year int) ([]payroll.Entry, error) {
	return []payroll.Entry{{
		ID:         1,
		EmployeeID: employeeID,
		StartDate:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		PayKind:    "mensual",
		TotalPaid:  1200,
	}}, nil
}

func newRouter(store *fakeStore) http.Handler {
	handler := NewHandler(payroll.NewService(store))
	router := chi.NewRouter()
	router.Route("/api/v1", handler.RegisterRoutes)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, target, body string, user *auth.SessionUser) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), *user))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var payrollUser = &auth.SessionUser{ID: 1, Username: "nomina", Role: auth.RolePayroll}

func TestHandlePaySuccess(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/pay",
		`{"employeeId":7,"startDate":"2024-02-01","endDate":"2024-02-29"}`, payrollUser)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Pago generado correctamente") {
		t.Fatalf("confirmation missing from body: %s", rec.Body.String())
	}
}

func TestHandlePayRejection(t *testing.T) {
	store := &fakeStore{results: map[string]string{"2024-02-01": "Error: periodo ya pagado"}}
	router := newRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/pay",
		`{"employeeId":7,"startDate":"2024-02-01","endDate":"2024-02-29"}`, payrollUser)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error: periodo ya pagado") {
		t.Fatalf("rejection message missing: %s", rec.Body.String())
	}
}

func TestHandlePayValidation(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store)

	tests := []struct {
		name string
		body string
	}{
		{"missing employee", `{"startDate":"2024-02-01","endDate":"2024-02-29"}`},
		{"bad date", `{"employeeId":7,"startDate":"soon","endDate":"2024-02-29"}`},
		{"inverted range", `{"employeeId":7,"startDate":"2024-02-29","endDate":"2024-02-01"}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/pay", tc.body, payrollUser)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if store.calls != 0 {
				t.Fatal("invalid payload must not reach the store")
			}
		})
	}
}

func TestHandlePayRequiresCapability(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/pay",
		`{"employeeId":7,"startDate":"2024-02-01","endDate":"2024-02-29"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous caller, got %d", rec.Code)
	}

	collaborator := &auth.SessionUser{ID: 2, Username: "emp", Role: auth.RoleCollaborator}
	rec = doRequest(t, router, http.MethodPost, "/api/v1/payroll/pay",
		`{"employeeId":7,"startDate":"2024-02-01","endDate":"2024-02-29"}`, collaborator)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for collaborator, got %d", rec.Code)
	}
	if store.calls != 0 {
		t.Fatal("rejected callers must not reach the store")
	}
}

func TestHandleBatchAllSucceed(t *testing.T) {
	store := &fakeStore{activeIDs: []int{1, 2, 3}}
	router := newRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/batch",
		`{"month":2,"year":2024,"mode":"monthly"}`, payrollUser)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.calls != 3 {
		t.Fatalf("expected 3 payments, got %d", store.calls)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Message string `json:"message"`
			Details struct {
				Successes []string `json:"successes"`
				Errors    []string `json:"errors"`
			} `json:"details"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !envelope.Success || len(envelope.Data.Details.Successes) != 3 || len(envelope.Data.Details.Errors) != 0 {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestHandleBatchMixed(t *testing.T) {
	store := &fakeStore{
		activeIDs: []int{1, 2},
		results:   map[string]string{"2024-01-16": "Error: periodo ya pagado"},
	}
	router := newRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/batch",
		`{"month":1,"year":2024,"mode":"biweekly","half":"second"}`, payrollUser)

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207, got %d: %s", rec.Code, rec.Body.String())
	}
	// A partial run still counts as success; the status code and error
	// list carry the failures.
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("partial run should report success: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Error: periodo ya pagado") {
		t.Fatalf("failure line missing: %s", rec.Body.String())
	}
}

func TestHandleBatchNoEmployees(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/batch",
		`{"month":2,"year":2024,"mode":"mensual"}`, payrollUser)

	// Spanish alias must behave identically.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if store.calls != 0 {
		t.Fatal("no payments should run without employees")
	}
}

func TestHandleBatchValidation(t *testing.T) {
	store := &fakeStore{activeIDs: []int{1}}
	router := newRouter(store)

	tests := []struct {
		name string
		body string
	}{
		{"month out of range", `{"month":13,"year":2024,"mode":"monthly"}`},
		{"year out of range", `{"month":2,"year":1999,"mode":"monthly"}`},
		{"unknown mode", `{"month":2,"year":2024,"mode":"daily"}`},
		{"biweekly without half", `{"month":2,"year":2024,"mode":"biweekly"}`},
		{"unknown half", `{"month":2,"year":2024,"mode":"biweekly","half":"third"}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/batch", tc.body, payrollUser)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if store.calls != 0 {
				t.Fatal("invalid parameters must not trigger payments")
			}
		})
	}
}

func TestHandleHistory(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/payroll/history/7?month=2&year=2024", "", payrollUser)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"totalPaid":1200`) {
		t.Fatalf("history entry missing: %s", rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/history/7?month=13&year=2024", "", payrollUser)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for month 13, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/history/7", "", payrollUser)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when month and year are missing, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/history/abc", "", payrollUser)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}
