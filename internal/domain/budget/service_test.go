package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	budgets map[int64]Budget
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{budgets: map[int64]Budget{}, nextID: 1}
}

func (f *fakeStore) Create(_ context.Context, input CreateInput) (Budget, error) {
	b := Budget{
		ID:          f.nextID,
		MinistryID:  input.MinistryID,
		PeriodMonth: input.PeriodMonth,
		PeriodYear:  input.PeriodYear,
		Amount:      input.Amount,
	}
	f.budgets[b.ID] = b
	f.nextID++
	return b, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (Budget, error) {
	b, ok := f.budgets[id]
	if !ok {
		return Budget{}, ErrBudgetNotFound
	}
	return b, nil
}

func (f *fakeStore) List(_ context.Context, filter Filter) ([]Budget, error) {
	var out []Budget
	for _, b := range f.budgets {
		if filter.MinistryID != nil && b.MinistryID != *filter.MinistryID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) UpdateAmount(_ context.Context, id int64, input UpdateInput) (Budget, error) {
	b, ok := f.budgets[id]
	if !ok {
		return Budget{}, ErrBudgetNotFound
	}
	b.Amount = input.Amount
	f.budgets[id] = b
	return b, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.budgets[id]; !ok {
		return ErrBudgetNotFound
	}
	delete(f.budgets, id)
	return nil
}

var _ StoreAPI = (*fakeStore)(nil)

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{MinistryID: 1, PeriodMonth: 13, PeriodYear: 2025, Amount: decimal.NewFromInt(100)}); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("month 13 err = %v, want ErrInvalidPeriod", err)
	}
	if _, err := svc.Create(ctx, CreateInput{MinistryID: 1, PeriodMonth: 6, PeriodYear: 2025, Amount: decimal.NewFromInt(-1)}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount err = %v, want ErrInvalidAmount", err)
	}

	created, err := svc.Create(ctx, CreateInput{MinistryID: 1, PeriodMonth: 6, PeriodYear: 2025, Amount: decimal.Zero})
	if err != nil {
		t.Fatalf("zero amount should be allowed: %v", err)
	}
	if !created.Amount.IsZero() {
		t.Fatalf("amount = %s, want 0", created.Amount)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{MinistryID: 1, PeriodMonth: 6, PeriodYear: 2025, Amount: decimal.NewFromInt(1000)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateAmount(ctx, created.ID, UpdateInput{Amount: decimal.NewFromInt(-5)}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative update err = %v, want ErrInvalidAmount", err)
	}

	updated, err := svc.UpdateAmount(ctx, created.ID, UpdateInput{Amount: decimal.NewFromInt(2000)})
	if err != nil {
		t.Fatalf("UpdateAmount: %v", err)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("amount = %s, want 2000", updated.Amount)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrBudgetNotFound) {
		t.Fatalf("second delete err = %v, want ErrBudgetNotFound", err)
	}
}
