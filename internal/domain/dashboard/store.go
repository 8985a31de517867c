package dashboard

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"govpay/internal/domain/payroll"
	"govpay/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ActiveEmployeeCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE status = 'active'").Scan(&count)
	return count, err
}

// TotalBudget sums every allocation of the period, across all ministries
// and departments. numeric SUM keeps the result exact.
func (s *Store) TotalBudget(ctx context.Context, month, year int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount), 0)
    FROM budgets
    WHERE period_month = $1 AND period_year = $2
  `, month, year).Scan(&total)
	return total, err
}

// TotalSpent counts a payslip as disbursed when it is individually marked
// paid or its run has reached payment_done/reconciled (union of the two).
func (s *Store) TotalSpent(ctx context.Context, month, year int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(p.net), 0)
    FROM payslips p
    JOIN payroll_runs r ON p.payroll_run_id = r.id
    WHERE r.period_month = $1 AND r.period_year = $2
      AND (p.paid_at IS NOT NULL OR r.status::text = ANY($3))
  `, month, year, payroll.SpentStatuses).Scan(&total)
	return total, err
}

func (s *Store) ActiveRunCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payroll_runs
    WHERE status::text = ANY($1)
  `, payroll.ActiveStatuses).Scan(&count)
	return count, err
}

func (s *Store) PendingVerificationCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employee_verifications WHERE status = 'pending'").Scan(&count)
	return count, err
}

func (s *Store) UnreadMessageCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM messages WHERE read_at IS NULL").Scan(&count)
	return count, err
}

func (s *Store) ListMinistriesByPaymentDay(ctx context.Context) ([]MinistryInfo, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, payment_day_of_month
    FROM ministries
    ORDER BY payment_day_of_month, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ministries []MinistryInfo
	for rows.Next() {
		var ministry MinistryInfo
		if err := rows.Scan(&ministry.ID, &ministry.Name, &ministry.PaymentDayOfMonth); err != nil {
			return nil, err
		}
		ministries = append(ministries, ministry)
	}
	return ministries, rows.Err()
}

func (s *Store) MinistryActiveEmployeeCount(ctx context.Context, ministryID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE ministry_id = $1 AND status = 'active'", ministryID).Scan(&count)
	return count, err
}

// MinistryBudget returns the first matching allocation for the period, or
// zero when the ministry has none.
func (s *Store) MinistryBudget(ctx context.Context, ministryID int64, month, year int) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT amount
    FROM budgets
    WHERE ministry_id = $1 AND period_month = $2 AND period_year = $3
    ORDER BY id
    LIMIT 1
  `, ministryID, month, year).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	return amount, err
}

func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, period_month, period_year, status, updated_at
    FROM payroll_runs
    ORDER BY updated_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.ID, &run.PeriodMonth, &run.PeriodYear, &run.Status, &run.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
