package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sorha/internal/domain/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name       string
		user       *auth.SessionUser
		capability string
		wantStatus int
	}{
		{"anonymous rejected", nil, auth.CapPayrollRun, http.StatusUnauthorized},
		{"payroll role runs payroll", &auth.SessionUser{ID: 1, Username: "ana", Role: auth.RolePayroll}, auth.CapPayrollRun, http.StatusOK},
		{"collaborator blocked from payroll", &auth.SessionUser{ID: 2, Username: "luis", Role: auth.RoleCollaborator}, auth.CapPayrollRun, http.StatusForbidden},
		{"admin manages users", &auth.SessionUser{ID: 3, Username: "root", Role: auth.RoleAdmin}, auth.CapUsersManage, http.StatusOK},
		{"reports role blocked from users", &auth.SessionUser{ID: 4, Username: "rep", Role: auth.RoleReports}, auth.CapUsersManage, http.StatusForbidden},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/pay", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			RequireCapability(tc.capability)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus != http.StatusOK && !strings.Contains(rec.Body.String(), `"success":false`) {
				t.Fatalf("expected JSON error envelope, got %q", rec.Body.String())
			}
		})
	}
}

func TestRequireCapabilityRedirectsBrowsers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	RequireCapability(auth.CapEmployeesRead)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect for browser navigation, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to login page, got %q", loc)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	rec := httptest.NewRecorder()
	RequireAuthenticated(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous request, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req = req.WithContext(WithUser(req.Context(), auth.SessionUser{ID: 9, Username: "eva", Role: auth.RoleCollaborator}))
	rec = httptest.NewRecorder()
	RequireAuthenticated(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated request, got %d", rec.Code)
	}
}
