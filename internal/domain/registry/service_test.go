package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	ministries     map[int64]Ministry
	employees      map[int64]Employee
	verifications  map[int64]Verification
	nextEmployee   int64
	nextVerifyID   int64
	nextMinistryID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ministries:     map[int64]Ministry{},
		employees:      map[int64]Employee{},
		verifications:  map[int64]Verification{},
		nextEmployee:   1,
		nextVerifyID:   1,
		nextMinistryID: 1,
	}
}

func (f *fakeStore) CreateMinistry(_ context.Context, input CreateMinistryInput) (Ministry, error) {
	for _, m := range f.ministries {
		if m.Code == input.Code {
			return Ministry{}, ErrDuplicateMinistry
		}
	}
	m := Ministry{ID: f.nextMinistryID, Name: input.Name, Code: input.Code, SectorCategory: input.SectorCategory, PaymentDayOfMonth: input.PaymentDayOfMonth}
	f.ministries[m.ID] = m
	f.nextMinistryID++
	return m, nil
}

func (f *fakeStore) GetMinistry(_ context.Context, id int64) (Ministry, error) {
	m, ok := f.ministries[id]
	if !ok {
		return Ministry{}, ErrMinistryNotFound
	}
	return m, nil
}

func (f *fakeStore) ListMinistries(context.Context) ([]Ministry, error) { return nil, nil }

func (f *fakeStore) CreateDepartment(_ context.Context, input CreateDepartmentInput) (Department, error) {
	return Department{ID: 1, MinistryID: input.MinistryID, Name: input.Name, Code: input.Code}, nil
}

func (f *fakeStore) ListDepartments(context.Context, int64) ([]Department, error) { return nil, nil }

func (f *fakeStore) CreateEmployee(_ context.Context, input CreateEmployeeInput) (Employee, error) {
	for _, e := range f.employees {
		if e.EmployeeNumber == input.EmployeeNumber {
			return Employee{}, ErrDuplicateEmployee
		}
	}
	e := Employee{
		ID:             f.nextEmployee,
		MinistryID:     input.MinistryID,
		EmployeeNumber: input.EmployeeNumber,
		Name:           input.Name,
		Surname:        input.Surname,
		Salary:         input.Salary,
		Status:         EmployeeActive,
	}
	f.employees[e.ID] = e
	f.nextEmployee++
	return e, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id int64) (Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEmployees(context.Context, EmployeeFilter) ([]Employee, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) UpdateEmployee(_ context.Context, id int64, input UpdateEmployeeInput) (Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	if input.Salary != nil {
		e.Salary = *input.Salary
	}
	if input.Status != nil {
		e.Status = *input.Status
	}
	f.employees[id] = e
	return e, nil
}

func (f *fakeStore) MarkEmployeeVerified(_ context.Context, id int64, verifiedBy int64) (Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	now := time.Now()
	e.VerifiedAt = &now
	f.employees[id] = e
	return e, nil
}

func (f *fakeStore) CreateVerification(_ context.Context, employeeID int64, step string) (Verification, error) {
	v := Verification{ID: f.nextVerifyID, EmployeeID: employeeID, Step: step, Status: VerificationPending}
	f.verifications[v.ID] = v
	f.nextVerifyID++
	return v, nil
}

func (f *fakeStore) ListVerifications(_ context.Context, employeeID int64) ([]Verification, error) {
	var out []Verification
	for _, v := range f.verifications {
		if v.EmployeeID == employeeID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) CompleteVerification(_ context.Context, id int64, status string, verifiedBy int64, fingerprint bool, notes *string) (Verification, error) {
	v, ok := f.verifications[id]
	if !ok {
		return Verification{}, ErrVerificationNotFound
	}
	v.Status = status
	v.VerifiedByUserID = &verifiedBy
	f.verifications[id] = v
	return v, nil
}

func (f *fakeStore) CreateSanction(_ context.Context, employeeID, createdBy int64, input CreateSanctionInput) (Sanction, error) {
	return Sanction{ID: 1, EmployeeID: employeeID, Type: input.Type, AmountDeduction: input.AmountDeduction, Reason: input.Reason}, nil
}

func (f *fakeStore) ListSanctions(context.Context, int64) ([]Sanction, error) { return nil, nil }

var _ StoreAPI = (*fakeStore)(nil)

func seedMinistry(t *testing.T, svc *Service) Ministry {
	t.Helper()
	m, err := svc.CreateMinistry(context.Background(), CreateMinistryInput{
		Name: "Ministère de la Santé", Code: "SANTE", SectorCategory: "health", PaymentDayOfMonth: 5,
	})
	if err != nil {
		t.Fatalf("CreateMinistry: %v", err)
	}
	return m
}

func TestCreateMinistryPaymentDayBounds(t *testing.T) {
	svc := NewService(newFakeStore())
	for _, day := range []int{0, 29} {
		_, err := svc.CreateMinistry(context.Background(), CreateMinistryInput{Name: "X", Code: "X", PaymentDayOfMonth: day})
		if !errors.Is(err, ErrInvalidPaymentDay) {
			t.Errorf("day %d err = %v, want ErrInvalidPaymentDay", day, err)
		}
	}
}

func TestCreateEmployeeOpensVerifications(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	ministry := seedMinistry(t, svc)

	employee, err := svc.CreateEmployee(ctx, CreateEmployeeInput{
		MinistryID:     ministry.ID,
		EmployeeNumber: "EMP-001",
		Name:           "Jean",
		Surname:        "Kabila",
		Position:       "Agent",
		Salary:         decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	verifications, err := svc.ListVerifications(ctx, employee.ID)
	if err != nil {
		t.Fatalf("ListVerifications: %v", err)
	}
	if len(verifications) != len(VerificationSteps) {
		t.Fatalf("got %d verifications, want %d", len(verifications), len(VerificationSteps))
	}
	for _, v := range verifications {
		if v.Status != VerificationPending {
			t.Fatalf("verification %s status = %s, want pending", v.Step, v.Status)
		}
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.CreateEmployee(ctx, CreateEmployeeInput{MinistryID: 99, EmployeeNumber: "E1", Salary: decimal.NewFromInt(100)}); !errors.Is(err, ErrMinistryNotFound) {
		t.Fatalf("missing ministry err = %v, want ErrMinistryNotFound", err)
	}
	if _, err := svc.CreateEmployee(ctx, CreateEmployeeInput{MinistryID: 1, EmployeeNumber: "E1", Salary: decimal.NewFromInt(-1)}); !errors.Is(err, ErrInvalidSalary) {
		t.Fatalf("negative salary err = %v, want ErrInvalidSalary", err)
	}
}

func TestCompleteVerificationStampsEmployee(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	ministry := seedMinistry(t, svc)

	employee, err := svc.CreateEmployee(ctx, CreateEmployeeInput{
		MinistryID: ministry.ID, EmployeeNumber: "EMP-001", Name: "Jean", Surname: "Kabila", Salary: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	verifications, _ := svc.ListVerifications(ctx, employee.ID)
	for i, v := range verifications {
		if _, err := svc.CompleteVerification(ctx, v.ID, VerificationApproved, 7, false, nil); err != nil {
			t.Fatalf("CompleteVerification %d: %v", i, err)
		}
		got, _ := store.GetEmployee(ctx, employee.ID)
		if i < len(verifications)-1 && got.VerifiedAt != nil {
			t.Fatalf("employee stamped verified after %d of %d steps", i+1, len(verifications))
		}
	}

	got, _ := store.GetEmployee(ctx, employee.ID)
	if got.VerifiedAt == nil {
		t.Fatal("employee not stamped verified after all steps approved")
	}
}

func TestCompleteVerificationRejectedDoesNotStamp(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	ministry := seedMinistry(t, svc)

	employee, err := svc.CreateEmployee(ctx, CreateEmployeeInput{
		MinistryID: ministry.ID, EmployeeNumber: "EMP-001", Name: "Jean", Surname: "Kabila", Salary: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	verifications, _ := svc.ListVerifications(ctx, employee.ID)
	if _, err := svc.CompleteVerification(ctx, verifications[0].ID, VerificationRejected, 7, false, nil); err != nil {
		t.Fatalf("CompleteVerification: %v", err)
	}

	got, _ := store.GetEmployee(ctx, employee.ID)
	if got.VerifiedAt != nil {
		t.Fatal("rejected verification must not stamp the employee")
	}
}
