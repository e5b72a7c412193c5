package shared

import (
	"testing"
	"time"
)

func TestValidatorRequired(t *testing.T) {
	v := NewValidator()
	v.Required("username", "  ", "username is required")
	v.Required("role", "admin", "role is required")
	if !v.HasIssues() {
		t.Fatal("expected an issue for the blank username")
	}
	issues := v.Issues()
	if len(issues) != 1 || issues[0].Field != "username" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestValidatorEnum(t *testing.T) {
	v := NewValidator()
	v.Enum("mode", "Mensual", []string{"semanal", "quincenal", "mensual"}, "mode must be semanal, quincenal or mensual")
	if v.HasIssues() {
		t.Fatalf("case-insensitive match should pass: %+v", v.Issues())
	}
	v.Enum("mode", "diario", []string{"semanal", "quincenal", "mensual"}, "mode must be semanal, quincenal or mensual")
	if !v.HasIssues() {
		t.Fatal("expected an issue for an unknown mode")
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("startDate", "2024-02-29")
	if !ok || v.HasIssues() {
		t.Fatalf("expected valid date, issues: %+v", v.Issues())
	}
	if parsed.Year() != 2024 || parsed.Month() != time.February || parsed.Day() != 29 {
		t.Fatalf("parsed wrong date: %v", parsed)
	}
	if _, ok := v.Date("endDate", "not-a-date"); ok {
		t.Fatal("expected failure for a malformed date")
	}
	if !v.HasIssues() {
		t.Fatal("expected an issue recorded for the malformed date")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	v.DateOrder("startDate", start, "endDate", end)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected two issues for inverted range, got %+v", v.Issues())
	}
}

func TestIssuesSortedAndCopied(t *testing.T) {
	v := NewValidator()
	v.Add("zeta", "last")
	v.Add("alpha", "first")
	issues := v.Issues()
	if issues[0].Field != "alpha" {
		t.Fatalf("issues not sorted: %+v", issues)
	}
	issues[0].Field = "mutated"
	if v.Issues()[0].Field != "alpha" {
		t.Fatal("Issues must return a copy")
	}
}
