package registry

import (
	"context"
	"fmt"
)

// Enrollment verification steps, created together when an employee is
// registered. All three must be approved before the employee record is
// stamped verified.
var VerificationSteps = []string{"identity_check", "document_check", "biometric_check"}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) CreateMinistry(ctx context.Context, input CreateMinistryInput) (Ministry, error) {
	if input.PaymentDayOfMonth < 1 || input.PaymentDayOfMonth > 28 {
		return Ministry{}, ErrInvalidPaymentDay
	}
	return s.store.CreateMinistry(ctx, input)
}

func (s *Service) GetMinistry(ctx context.Context, id int64) (Ministry, error) {
	return s.store.GetMinistry(ctx, id)
}

func (s *Service) ListMinistries(ctx context.Context) ([]Ministry, error) {
	return s.store.ListMinistries(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, input CreateDepartmentInput) (Department, error) {
	if _, err := s.store.GetMinistry(ctx, input.MinistryID); err != nil {
		return Department{}, err
	}
	return s.store.CreateDepartment(ctx, input)
}

func (s *Service) ListDepartments(ctx context.Context, ministryID int64) ([]Department, error) {
	return s.store.ListDepartments(ctx, ministryID)
}

// CreateEmployee registers the employee and opens their enrollment
// verification steps in one pass.
func (s *Service) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (Employee, error) {
	if input.Salary.IsNegative() {
		return Employee{}, ErrInvalidSalary
	}
	if _, err := s.store.GetMinistry(ctx, input.MinistryID); err != nil {
		return Employee{}, err
	}
	employee, err := s.store.CreateEmployee(ctx, input)
	if err != nil {
		return Employee{}, err
	}
	for _, step := range VerificationSteps {
		if _, err := s.store.CreateVerification(ctx, employee.ID, step); err != nil {
			return Employee{}, fmt.Errorf("open verification %s: %w", step, err)
		}
	}
	return employee, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, input UpdateEmployeeInput) (Employee, error) {
	if input.Salary != nil && input.Salary.IsNegative() {
		return Employee{}, ErrInvalidSalary
	}
	return s.store.UpdateEmployee(ctx, id, input)
}

func (s *Service) ListVerifications(ctx context.Context, employeeID int64) ([]Verification, error) {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListVerifications(ctx, employeeID)
}

// CompleteVerification records the step outcome and, once every step for the
// employee is approved, stamps the employee record verified.
func (s *Service) CompleteVerification(ctx context.Context, id int64, status string, verifiedBy int64, fingerprint bool, notes *string) (Verification, error) {
	verification, err := s.store.CompleteVerification(ctx, id, status, verifiedBy, fingerprint, notes)
	if err != nil {
		return Verification{}, err
	}
	if status != VerificationApproved {
		return verification, nil
	}
	all, err := s.store.ListVerifications(ctx, verification.EmployeeID)
	if err != nil {
		return Verification{}, err
	}
	for _, v := range all {
		if v.Status != VerificationApproved {
			return verification, nil
		}
	}
	if _, err := s.store.MarkEmployeeVerified(ctx, verification.EmployeeID, verifiedBy); err != nil {
		return Verification{}, err
	}
	return verification, nil
}

func (s *Service) CreateSanction(ctx context.Context, employeeID, createdBy int64, input CreateSanctionInput) (Sanction, error) {
	if input.AmountDeduction.IsNegative() {
		return Sanction{}, ErrInvalidDeduction
	}
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return Sanction{}, err
	}
	return s.store.CreateSanction(ctx, employeeID, createdBy, input)
}

func (s *Service) ListSanctions(ctx context.Context, employeeID int64) ([]Sanction, error) {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListSanctions(ctx, employeeID)
}
