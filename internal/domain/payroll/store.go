package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"govpay/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateRun(ctx context.Context, month, year int, budgetTotal *decimal.Decimal) (Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_runs (period_month, period_year, status, budget_total)
    VALUES ($1,$2,$3,$4)
    RETURNING id, period_month, period_year, status, budget_total, created_at, updated_at
  `, month, year, StatusDraft, budgetTotal).Scan(
		&run.ID, &run.PeriodMonth, &run.PeriodYear, &run.Status, &run.BudgetTotal, &run.CreatedAt, &run.UpdatedAt)
	if isUniqueViolation(err) {
		return Run{}, ErrDuplicatePeriod
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) GetRun(ctx context.Context, runID int64) (Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, period_month, period_year, status, budget_total, created_at, updated_at
    FROM payroll_runs
    WHERE id = $1
  `, runID).Scan(&run.ID, &run.PeriodMonth, &run.PeriodYear, &run.Status, &run.BudgetTotal, &run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) ListRuns(ctx context.Context, filter RunFilter, limit, offset int) ([]Run, int, error) {
	query := `
    SELECT id, period_month, period_year, status, budget_total, created_at, updated_at
    FROM payroll_runs
    WHERE 1=1
  `
	args := []any{}
	if filter.Month > 0 {
		query += " AND period_month = $" + strconv.Itoa(len(args)+1)
		args = append(args, filter.Month)
	}
	if filter.Year > 0 {
		query += " AND period_year = $" + strconv.Itoa(len(args)+1)
		args = append(args, filter.Year)
	}
	if filter.Status != "" {
		query += " AND status = $" + strconv.Itoa(len(args)+1)
		args = append(args, filter.Status)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") runs", args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY period_year DESC, period_month DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.PeriodMonth, &run.PeriodYear, &run.Status, &run.BudgetTotal, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func (s *Store) ListSteps(ctx context.Context, runID int64) ([]Step, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payroll_run_id, step_order, step_name, completed_at, completed_by_user_id, payload, created_at
    FROM payroll_run_steps
    WHERE payroll_run_id = $1
    ORDER BY step_order
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var step Step
		if err := rows.Scan(&step.ID, &step.PayrollRunID, &step.StepOrder, &step.StepName, &step.CompletedAt, &step.CompletedByUserID, &step.Payload, &step.CreatedAt); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// CompleteStep records a milestone as done. The unique constraint on
// (payroll_run_id, step_name) serializes concurrent completions of the same
// step into a deterministic ErrStepCompleted.
func (s *Store) CompleteStep(ctx context.Context, runID int64, step StepDef, performedBy int64, payload json.RawMessage) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_run_steps (payroll_run_id, step_order, step_name, completed_at, completed_by_user_id, payload)
    VALUES ($1,$2,$3,now(),$4,$5)
  `, runID, step.Order, step.Name, performedBy, payload)
	if isUniqueViolation(err) {
		return ErrStepCompleted
	}
	return err
}

func (s *Store) UpdateRunStatus(ctx context.Context, runID int64, status string) (Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    UPDATE payroll_runs
    SET status = $1, updated_at = now()
    WHERE id = $2
    RETURNING id, period_month, period_year, status, budget_total, created_at, updated_at
  `, status, runID).Scan(&run.ID, &run.PeriodMonth, &run.PeriodYear, &run.Status, &run.BudgetTotal, &run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) ExistingPayslipEmployeeIDs(ctx context.Context, runID int64) (map[int64]bool, error) {
	rows, err := s.DB.Query(ctx, "SELECT employee_id FROM payslips WHERE payroll_run_id = $1", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := map[int64]bool{}
	for rows.Next() {
		var employeeID int64
		if err := rows.Scan(&employeeID); err != nil {
			return nil, err
		}
		existing[employeeID] = true
	}
	return existing, rows.Err()
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]ActiveEmployee, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, salary FROM employees WHERE status = 'active' ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []ActiveEmployee
	for rows.Next() {
		var employee ActiveEmployee
		if err := rows.Scan(&employee.ID, &employee.Salary); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// InsertPayslip returns false when a payslip for (employee, run) already
// exists; a concurrent duplicate insert degrades to the same outcome.
func (s *Store) InsertPayslip(ctx context.Context, employeeID, runID int64, gross, deductions, net decimal.Decimal) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO payslips (employee_id, payroll_run_id, gross, deductions, net)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (employee_id, payroll_run_id) DO NOTHING
  `, employeeID, runID, gross, deductions, net)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListPayslipsForRun(ctx context.Context, runID int64) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, payroll_run_id, gross, deductions, net, paid_at, created_at
    FROM payslips
    WHERE payroll_run_id = $1
    ORDER BY id
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payslips []Payslip
	for rows.Next() {
		var payslip Payslip
		if err := rows.Scan(&payslip.ID, &payslip.EmployeeID, &payslip.PayrollRunID, &payslip.Gross, &payslip.Deductions, &payslip.Net, &payslip.PaidAt, &payslip.CreatedAt); err != nil {
			return nil, err
		}
		payslips = append(payslips, payslip)
	}
	return payslips, rows.Err()
}

func (s *Store) ListPayslipDetails(ctx context.Context, runID, employeeID int64, limit, offset int) ([]PayslipDetail, error) {
	query := `
    SELECT p.id, p.employee_id, p.payroll_run_id, p.gross, p.deductions, p.net, p.paid_at, p.created_at,
           e.name, e.surname, e.employee_number,
           r.period_month, r.period_year
    FROM payslips p
    JOIN employees e ON p.employee_id = e.id
    JOIN payroll_runs r ON p.payroll_run_id = r.id
    WHERE 1=1
  `
	args := []any{}
	if runID > 0 {
		query += " AND p.payroll_run_id = $" + strconv.Itoa(len(args)+1)
		args = append(args, runID)
	}
	if employeeID > 0 {
		query += " AND p.employee_id = $" + strconv.Itoa(len(args)+1)
		args = append(args, employeeID)
	}
	query += " ORDER BY p.id LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []PayslipDetail
	for rows.Next() {
		var detail PayslipDetail
		if err := rows.Scan(
			&detail.ID, &detail.EmployeeID, &detail.PayrollRunID, &detail.Gross, &detail.Deductions, &detail.Net, &detail.PaidAt, &detail.CreatedAt,
			&detail.EmployeeName, &detail.EmployeeSurname, &detail.EmployeeNumber,
			&detail.PeriodMonth, &detail.PeriodYear,
		); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}

func (s *Store) GetPayslipDetail(ctx context.Context, payslipID int64) (PayslipDetail, error) {
	var detail PayslipDetail
	err := s.DB.QueryRow(ctx, `
    SELECT p.id, p.employee_id, p.payroll_run_id, p.gross, p.deductions, p.net, p.paid_at, p.created_at,
           e.name, e.surname, e.employee_number,
           COALESCE(m.name, ''),
           r.period_month, r.period_year
    FROM payslips p
    JOIN employees e ON p.employee_id = e.id
    JOIN payroll_runs r ON p.payroll_run_id = r.id
    LEFT JOIN ministries m ON e.ministry_id = m.id
    WHERE p.id = $1
  `, payslipID).Scan(
		&detail.ID, &detail.EmployeeID, &detail.PayrollRunID, &detail.Gross, &detail.Deductions, &detail.Net, &detail.PaidAt, &detail.CreatedAt,
		&detail.EmployeeName, &detail.EmployeeSurname, &detail.EmployeeNumber,
		&detail.MinistryName,
		&detail.PeriodMonth, &detail.PeriodYear,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayslipDetail{}, ErrPayslipNotFound
	}
	if err != nil {
		return PayslipDetail{}, err
	}
	return detail, nil
}

// MarkPaid stamps paid_at once; repeated calls keep the original timestamp.
func (s *Store) MarkPaid(ctx context.Context, payslipID int64) (Payslip, error) {
	var payslip Payslip
	err := s.DB.QueryRow(ctx, `
    UPDATE payslips
    SET paid_at = COALESCE(paid_at, now())
    WHERE id = $1
    RETURNING id, employee_id, payroll_run_id, gross, deductions, net, paid_at, created_at
  `, payslipID).Scan(&payslip.ID, &payslip.EmployeeID, &payslip.PayrollRunID, &payslip.Gross, &payslip.Deductions, &payslip.Net, &payslip.PaidAt, &payslip.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrPayslipNotFound
	}
	if err != nil {
		return Payslip{}, err
	}
	return payslip, nil
}
