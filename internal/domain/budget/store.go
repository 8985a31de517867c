package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"govpay/internal/platform/querier"
)

type StoreAPI interface {
	Create(ctx context.Context, input CreateInput) (Budget, error)
	Get(ctx context.Context, id int64) (Budget, error)
	List(ctx context.Context, filter Filter) ([]Budget, error)
	UpdateAmount(ctx context.Context, id int64, input UpdateInput) (Budget, error)
	Delete(ctx context.Context, id int64) error
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const budgetColumns = "id, ministry_id, department_id, period_month, period_year, amount, allocated_at, created_at"

func scanBudget(row pgx.Row) (Budget, error) {
	var b Budget
	err := row.Scan(&b.ID, &b.MinistryID, &b.DepartmentID, &b.PeriodMonth, &b.PeriodYear, &b.Amount, &b.AllocatedAt, &b.CreatedAt)
	return b, err
}

func (s *Store) Create(ctx context.Context, input CreateInput) (Budget, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO budgets (ministry_id, department_id, period_month, period_year, amount)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+budgetColumns,
		input.MinistryID, input.DepartmentID, input.PeriodMonth, input.PeriodYear, input.Amount)
	return scanBudget(row)
}

func (s *Store) Get(ctx context.Context, id int64) (Budget, error) {
	b, err := scanBudget(s.DB.QueryRow(ctx, "SELECT "+budgetColumns+" FROM budgets WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	}
	return b, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Budget, error) {
	conditions := []string{}
	args := []any{}
	if filter.MinistryID != nil {
		args = append(args, *filter.MinistryID)
		conditions = append(conditions, fmt.Sprintf("ministry_id = $%d", len(args)))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		conditions = append(conditions, fmt.Sprintf("period_month = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("period_year = $%d", len(args)))
	}

	query := "SELECT " + budgetColumns + " FROM budgets"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY period_year DESC, period_month DESC, id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Store) UpdateAmount(ctx context.Context, id int64, input UpdateInput) (Budget, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE budgets SET amount = $2, allocated_at = now()
    WHERE id = $1
    RETURNING `+budgetColumns, id, input.Amount)
	b, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	}
	return b, err
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM budgets WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

var _ StoreAPI = (*Store)(nil)
