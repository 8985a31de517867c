package payroll

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	CreateRun(ctx context.Context, month, year int, budgetTotal *decimal.Decimal) (Run, error)
	GetRun(ctx context.Context, runID int64) (Run, error)
	ListRuns(ctx context.Context, filter RunFilter, limit, offset int) ([]Run, int, error)
	ListSteps(ctx context.Context, runID int64) ([]Step, error)
	CompleteStep(ctx context.Context, runID int64, step StepDef, performedBy int64, payload json.RawMessage) error
	UpdateRunStatus(ctx context.Context, runID int64, status string) (Run, error)
	ExistingPayslipEmployeeIDs(ctx context.Context, runID int64) (map[int64]bool, error)
	ListActiveEmployees(ctx context.Context) ([]ActiveEmployee, error)
	InsertPayslip(ctx context.Context, employeeID, runID int64, gross, deductions, net decimal.Decimal) (bool, error)
	ListPayslipsForRun(ctx context.Context, runID int64) ([]Payslip, error)
	ListPayslipDetails(ctx context.Context, runID, employeeID int64, limit, offset int) ([]PayslipDetail, error)
	GetPayslipDetail(ctx context.Context, payslipID int64) (PayslipDetail, error)
	MarkPaid(ctx context.Context, payslipID int64) (Payslip, error)
}
