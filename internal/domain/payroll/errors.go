package payroll

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidPeriodSpec marks period parameters the caller must fix.
	ErrInvalidPeriodSpec = errors.New("invalid payroll period parameters")

	// ErrNoActiveEmployees is returned by batch runs when there is nobody
	// to pay.
	ErrNoActiveEmployees = errors.New("no active employees")
)

// RejectionError is a business-rule refusal from the payment procedure,
// such as a duplicate period or an inactive employee. It is a client
// error, not a system fault.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

// IsRejection reports whether a procedure result text is a refusal.
// The procedure signals refusals in-band with an "Error:" prefix; any
// other non-empty text is a confirmation. The check is case-insensitive
// and tolerates leading whitespace.
func IsRejection(result string) bool {
	trimmed := strings.TrimSpace(result)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "error:")
}
