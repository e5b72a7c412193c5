package payroll

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// PaySingle pays one employee for one period. The returned string is the
// procedure's confirmation text. A business refusal comes back as a
// *RejectionError; any other error is a system fault.
func (s *Service) PaySingle(ctx context.Context, employeeID int, period Period) (string, error) {
	result, err := s.store.GeneratePeriodPayment(ctx, employeeID, period)
	if err != nil {
		return "", fmt.Errorf("generate payment for employee %d: %w", employeeID, err)
	}
	trimmed := strings.TrimSpace(result)
	if trimmed == "" {
		return "", fmt.Errorf("payment procedure returned no result for employee %d", employeeID)
	}
	if IsRejection(trimmed) {
		return "", &RejectionError{Message: trimmed}
	}
	return trimmed, nil
}

// Report is the outcome of a batch run, partitioned into per-payment
// confirmation and failure lines in processing order.
type Report struct {
	Successes []string `json:"successes"`
	Errors    []string `json:"errors"`
}

func (r *Report) SuccessCount() int { return len(r.Successes) }
func (r *Report) FailureCount() int { return len(r.Errors) }

// HTTPStatus maps the run outcome: all paid 200, mixed 207, none paid
// 400.
func (r *Report) HTTPStatus() int {
	switch {
	case r.FailureCount() == 0:
		return http.StatusOK
	case r.SuccessCount() == 0:
		return http.StatusBadRequest
	default:
		return http.StatusMultiStatus
	}
}

func (r *Report) Summary() string {
	total := r.SuccessCount() + r.FailureCount()
	return fmt.Sprintf("processed %d payments: %d succeeded, %d failed", total, r.SuccessCount(), r.FailureCount())
}

// RunBatch pays every active employee for every period of the requested
// month. Payments run sequentially and one failure never aborts the
// run; each outcome is recorded in the report. ErrNoActiveEmployees is
// returned before any payment is attempted when nobody qualifies.
func (s *Service) RunBatch(ctx context.Context, year, month int, freq Frequency, half Half) (*Report, error) {
	periods, err := MonthPeriods(year, month, freq, half)
	if err != nil {
		return nil, err
	}

	ids, err := s.store.ActiveEmployeeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNoActiveEmployees
	}

	report := &Report{}
	for _, id := range ids {
		for _, period := range periods {
			message, err := s.PaySingle(ctx, id, period)
			if err != nil {
				report.Errors = append(report.Errors, reportLine(id, period, err.Error()))
				continue
			}
			report.Successes = append(report.Successes, reportLine(id, period, message))
		}
	}
	return report, nil
}

// History lists an employee's payroll entries, optionally filtered by
// month and year of the period start.
func (s *Service) History(ctx context.Context, employeeID, month, year int) ([]Entry, error) {
	if month < 0 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range [1, 12]", ErrInvalidPeriodSpec, month)
	}
	if year != 0 && (year < MinYear || year > MaxYear) {
		return nil, fmt.Errorf("%w: year %d out of range [%d, %d]", ErrInvalidPeriodSpec, year, MinYear, MaxYear)
	}
	return s.store.History(ctx, employeeID, month, year)
}

func reportLine(employeeID int, period Period, message string) string {
	return fmt.Sprintf("employee %d (%s): %s", employeeID, period, message)
}
