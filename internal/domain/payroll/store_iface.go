package payroll

import "context"

type StoreAPI interface {
	ActiveEmployeeIDs(ctx context.Context) ([]int, error)
	GeneratePeriodPayment(ctx context.Context, employeeID int, period Period) (string, error)
	History(ctx context.Context, employeeID int, month, year int) ([]Entry, error)
}
