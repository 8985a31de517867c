package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"govpay/internal/platform/querier"
)

type StoreAPI interface {
	CreateMinistry(ctx context.Context, input CreateMinistryInput) (Ministry, error)
	GetMinistry(ctx context.Context, id int64) (Ministry, error)
	ListMinistries(ctx context.Context) ([]Ministry, error)

	CreateDepartment(ctx context.Context, input CreateDepartmentInput) (Department, error)
	ListDepartments(ctx context.Context, ministryID int64) ([]Department, error)

	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error)
	UpdateEmployee(ctx context.Context, id int64, input UpdateEmployeeInput) (Employee, error)
	MarkEmployeeVerified(ctx context.Context, id int64, verifiedBy int64) (Employee, error)

	CreateVerification(ctx context.Context, employeeID int64, step string) (Verification, error)
	ListVerifications(ctx context.Context, employeeID int64) ([]Verification, error)
	CompleteVerification(ctx context.Context, id int64, status string, verifiedBy int64, fingerprint bool, notes *string) (Verification, error)

	CreateSanction(ctx context.Context, employeeID, createdBy int64, input CreateSanctionInput) (Sanction, error)
	ListSanctions(ctx context.Context, employeeID int64) ([]Sanction, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const ministryColumns = "id, name, code, sector_category, payment_day_of_month, created_at, updated_at"

func scanMinistry(row pgx.Row) (Ministry, error) {
	var m Ministry
	err := row.Scan(&m.ID, &m.Name, &m.Code, &m.SectorCategory, &m.PaymentDayOfMonth, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (s *Store) CreateMinistry(ctx context.Context, input CreateMinistryInput) (Ministry, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO ministries (name, code, sector_category, payment_day_of_month)
    VALUES ($1, $2, $3, $4)
    RETURNING `+ministryColumns,
		input.Name, input.Code, input.SectorCategory, input.PaymentDayOfMonth)
	m, err := scanMinistry(row)
	if isUniqueViolation(err) {
		return Ministry{}, ErrDuplicateMinistry
	}
	return m, err
}

func (s *Store) GetMinistry(ctx context.Context, id int64) (Ministry, error) {
	m, err := scanMinistry(s.DB.QueryRow(ctx, "SELECT "+ministryColumns+" FROM ministries WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Ministry{}, ErrMinistryNotFound
	}
	return m, err
}

func (s *Store) ListMinistries(ctx context.Context) ([]Ministry, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+ministryColumns+" FROM ministries ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ministries []Ministry
	for rows.Next() {
		m, err := scanMinistry(rows)
		if err != nil {
			return nil, err
		}
		ministries = append(ministries, m)
	}
	return ministries, rows.Err()
}

const departmentColumns = "id, ministry_id, name, code, budget_monthly, created_at, updated_at"

func scanDepartment(row pgx.Row) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.MinistryID, &d.Name, &d.Code, &d.BudgetMonthly, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) CreateDepartment(ctx context.Context, input CreateDepartmentInput) (Department, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO departments (ministry_id, name, code, budget_monthly)
    VALUES ($1, $2, $3, $4)
    RETURNING `+departmentColumns,
		input.MinistryID, input.Name, input.Code, input.BudgetMonthly)
	return scanDepartment(row)
}

func (s *Store) ListDepartments(ctx context.Context, ministryID int64) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+departmentColumns+" FROM departments WHERE ministry_id = $1 ORDER BY name", ministryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

const employeeColumns = `id, ministry_id, department_id, employee_number, name, surname, position,
  salary, status, bank_account, bank_name, mobile_money_provider, mobile_money_number,
  verified_at, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.MinistryID, &e.DepartmentID, &e.EmployeeNumber, &e.Name, &e.Surname,
		&e.Position, &e.Salary, &e.Status, &e.BankAccount, &e.BankName, &e.MobileMoneyProvider,
		&e.MobileMoneyNumber, &e.VerifiedAt, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (Employee, error) {
	provider := input.MobileMoneyProvider
	if provider == "" {
		provider = "none"
	}
	row := s.DB.QueryRow(ctx, `
    INSERT INTO employees (ministry_id, department_id, employee_number, name, surname, position,
      salary, bank_account, bank_name, mobile_money_provider, mobile_money_number)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    RETURNING `+employeeColumns,
		input.MinistryID, input.DepartmentID, input.EmployeeNumber, input.Name, input.Surname,
		input.Position, input.Salary, input.BankAccount, input.BankName, provider, input.MobileMoneyNumber)
	e, err := scanEmployee(row)
	if isUniqueViolation(err) {
		return Employee{}, ErrDuplicateEmployee
	}
	return e, err
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	conditions := []string{}
	args := []any{}
	if filter.MinistryID != nil {
		args = append(args, *filter.MinistryID)
		conditions = append(conditions, fmt.Sprintf("ministry_id = $%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		placeholder := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR surname ILIKE $%d OR employee_number ILIKE $%d)",
			placeholder, placeholder, placeholder))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM employees%s ORDER BY surname, name LIMIT $%d OFFSET $%d",
		employeeColumns, where, len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, input UpdateEmployeeInput) (Employee, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.DepartmentID != nil {
		addSet("department_id", *input.DepartmentID)
	}
	if input.Position != nil {
		addSet("position", *input.Position)
	}
	if input.Salary != nil {
		addSet("salary", *input.Salary)
	}
	if input.Status != nil {
		addSet("status", *input.Status)
	}
	if input.BankAccount != nil {
		addSet("bank_account", *input.BankAccount)
	}
	if input.BankName != nil {
		addSet("bank_name", *input.BankName)
	}
	if input.MobileMoneyProvider != nil {
		addSet("mobile_money_provider", *input.MobileMoneyProvider)
	}
	if input.MobileMoneyNumber != nil {
		addSet("mobile_money_number", *input.MobileMoneyNumber)
	}

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), employeeColumns)
	e, err := scanEmployee(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) MarkEmployeeVerified(ctx context.Context, id int64, verifiedBy int64) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE employees
    SET verified_at = now(), verified_by_user_id = $2, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns, id, verifiedBy)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

const verificationColumns = "id, employee_id, step, verified_by_user_id, verified_at, fingerprint_used, status, notes, created_at"

func scanVerification(row pgx.Row) (Verification, error) {
	var v Verification
	err := row.Scan(&v.ID, &v.EmployeeID, &v.Step, &v.VerifiedByUserID, &v.VerifiedAt,
		&v.FingerprintUsed, &v.Status, &v.Notes, &v.CreatedAt)
	return v, err
}

func (s *Store) CreateVerification(ctx context.Context, employeeID int64, step string) (Verification, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO employee_verifications (employee_id, step)
    VALUES ($1, $2)
    RETURNING `+verificationColumns, employeeID, step)
	return scanVerification(row)
}

func (s *Store) ListVerifications(ctx context.Context, employeeID int64) ([]Verification, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+verificationColumns+" FROM employee_verifications WHERE employee_id = $1 ORDER BY created_at", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var verifications []Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		verifications = append(verifications, v)
	}
	return verifications, rows.Err()
}

func (s *Store) CompleteVerification(ctx context.Context, id int64, status string, verifiedBy int64, fingerprint bool, notes *string) (Verification, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE employee_verifications
    SET status = $2, verified_by_user_id = $3, verified_at = now(), fingerprint_used = $4, notes = $5, updated_at = now()
    WHERE id = $1
    RETURNING `+verificationColumns, id, status, verifiedBy, fingerprint, notes)
	v, err := scanVerification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Verification{}, ErrVerificationNotFound
	}
	return v, err
}

const sanctionColumns = "id, employee_id, type, amount_deduction, reason, applied_at, created_at"

func scanSanction(row pgx.Row) (Sanction, error) {
	var sa Sanction
	err := row.Scan(&sa.ID, &sa.EmployeeID, &sa.Type, &sa.AmountDeduction, &sa.Reason, &sa.AppliedAt, &sa.CreatedAt)
	return sa, err
}

func (s *Store) CreateSanction(ctx context.Context, employeeID, createdBy int64, input CreateSanctionInput) (Sanction, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO sanctions (employee_id, type, amount_deduction, reason, created_by_user_id)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+sanctionColumns,
		employeeID, input.Type, input.AmountDeduction, input.Reason, createdBy)
	return scanSanction(row)
}

func (s *Store) ListSanctions(ctx context.Context, employeeID int64) ([]Sanction, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+sanctionColumns+" FROM sanctions WHERE employee_id = $1 ORDER BY applied_at DESC", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sanctions []Sanction
	for rows.Next() {
		sa, err := scanSanction(rows)
		if err != nil {
			return nil, err
		}
		sanctions = append(sanctions, sa)
	}
	return sanctions, rows.Err()
}

var _ StoreAPI = (*Store)(nil)
