package payroll

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Service owns the payroll run lifecycle: run creation, step advancement and
// payslip generation. Step ordering is deliberately permissive: a later
// milestone may be recorded before an earlier one; only re-completing the
// same step conflicts.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) CreateRun(ctx context.Context, month, year int, budgetTotal *decimal.Decimal) (Run, error) {
	if month < 1 || month > 12 || year < 2000 {
		return Run{}, ErrInvalidPeriod
	}
	return s.store.CreateRun(ctx, month, year, budgetTotal)
}

func (s *Service) GetRun(ctx context.Context, runID int64) (Run, []Step, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return Run{}, nil, err
	}
	steps, err := s.store.ListSteps(ctx, runID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, steps, nil
}

func (s *Service) ListRuns(ctx context.Context, filter RunFilter, limit, offset int) ([]Run, int, error) {
	return s.store.ListRuns(ctx, filter, limit, offset)
}

// AdvanceStep completes one milestone for the run and derives the new run
// status from the fixed mapping in NextStatus. Returns the updated run and
// the name of the step just completed.
func (s *Service) AdvanceStep(ctx context.Context, runID int64, stepName string, performedBy int64, payload json.RawMessage) (Run, string, error) {
	if _, err := s.store.GetRun(ctx, runID); err != nil {
		return Run{}, "", err
	}

	step, ok := StepByName(stepName)
	if !ok {
		return Run{}, "", ErrInvalidStep
	}

	if err := s.store.CompleteStep(ctx, runID, step, performedBy, payload); err != nil {
		return Run{}, "", err
	}

	run, err := s.store.UpdateRunStatus(ctx, runID, NextStatus(step.Name))
	if err != nil {
		return Run{}, "", err
	}
	return run, step.Name, nil
}

// GeneratePayslips creates one payslip per active employee not yet covered
// by this run. Safe to call repeatedly: employees with an existing payslip
// are skipped, and the unique constraint absorbs concurrent duplicates.
func (s *Service) GeneratePayslips(ctx context.Context, runID int64) (GenerateResult, error) {
	if _, err := s.store.GetRun(ctx, runID); err != nil {
		return GenerateResult{}, err
	}

	existing, err := s.store.ExistingPayslipEmployeeIDs(ctx, runID)
	if err != nil {
		return GenerateResult{}, err
	}

	employees, err := s.store.ListActiveEmployees(ctx)
	if err != nil {
		return GenerateResult{}, err
	}

	created := 0
	for _, employee := range employees {
		if existing[employee.ID] {
			continue
		}
		gross := employee.Salary
		// TODO: deduct the employee's active sanction amounts for the period.
		deductions := decimal.Zero
		net := gross.Sub(deductions)
		inserted, err := s.store.InsertPayslip(ctx, employee.ID, runID, gross, deductions, net)
		if err != nil {
			return GenerateResult{}, err
		}
		if inserted {
			created++
		}
	}

	payslips, err := s.store.ListPayslipsForRun(ctx, runID)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{Total: len(payslips), Created: created, Payslips: payslips}, nil
}

func (s *Service) MarkPaid(ctx context.Context, payslipID int64) (Payslip, error) {
	return s.store.MarkPaid(ctx, payslipID)
}

func (s *Service) ListPayslips(ctx context.Context, runID, employeeID int64, limit, offset int) ([]PayslipDetail, error) {
	return s.store.ListPayslipDetails(ctx, runID, employeeID, limit, offset)
}

func (s *Service) GetPayslip(ctx context.Context, payslipID int64) (PayslipDetail, error) {
	return s.store.GetPayslipDetail(ctx, payslipID)
}
