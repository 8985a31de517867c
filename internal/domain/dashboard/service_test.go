package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	employees     int
	budget        decimal.Decimal
	spent         decimal.Decimal
	activeRuns    int
	verifications int
	unread        int
	ministries    []MinistryInfo
	headcounts    map[int64]int
	budgets       map[int64]decimal.Decimal
	recent        []RunSummary

	failEmployees bool
	failBudget    bool
}

func (f *fakeStore) ActiveEmployeeCount(context.Context) (int, error) {
	if f.failEmployees {
		return 0, errors.New("boom")
	}
	return f.employees, nil
}

func (f *fakeStore) TotalBudget(_ context.Context, month, year int) (decimal.Decimal, error) {
	if f.failBudget {
		return decimal.Zero, errors.New("boom")
	}
	return f.budget, nil
}

func (f *fakeStore) TotalSpent(_ context.Context, month, year int) (decimal.Decimal, error) {
	return f.spent, nil
}

func (f *fakeStore) ActiveRunCount(context.Context) (int, error) {
	return f.activeRuns, nil
}

func (f *fakeStore) PendingVerificationCount(context.Context) (int, error) {
	return f.verifications, nil
}

func (f *fakeStore) UnreadMessageCount(context.Context) (int, error) {
	return f.unread, nil
}

func (f *fakeStore) ListMinistriesByPaymentDay(context.Context) ([]MinistryInfo, error) {
	return f.ministries, nil
}

func (f *fakeStore) MinistryActiveEmployeeCount(_ context.Context, ministryID int64) (int, error) {
	return f.headcounts[ministryID], nil
}

func (f *fakeStore) MinistryBudget(_ context.Context, ministryID int64, month, year int) (decimal.Decimal, error) {
	amount, ok := f.budgets[ministryID]
	if !ok {
		return decimal.Zero, nil
	}
	return amount, nil
}

func (f *fakeStore) RecentRuns(_ context.Context, limit int) ([]RunSummary, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

var _ StoreAPI = (*fakeStore)(nil)

func fixedService(store *fakeStore, at time.Time) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return at }
	return svc
}

func TestTotals(t *testing.T) {
	store := &fakeStore{
		budget: decimal.RequireFromString("1000000.50"),
		spent:  decimal.RequireFromString("250000.25"),
	}
	svc := NewService(store)

	totals, err := svc.Totals(context.Background(), 6, 2025)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if !totals.TotalBudget.Equal(decimal.RequireFromString("1000000.50")) {
		t.Fatalf("TotalBudget = %s", totals.TotalBudget)
	}
	if !totals.TotalSpent.Equal(decimal.RequireFromString("250000.25")) {
		t.Fatalf("TotalSpent = %s", totals.TotalSpent)
	}
}

func TestUpcomingPaymentsOrderAndLabels(t *testing.T) {
	store := &fakeStore{
		ministries: []MinistryInfo{
			{ID: 1, Name: "Ministère de la Santé", PaymentDayOfMonth: 5},
			{ID: 2, Name: "Ministère de l'Éducation", PaymentDayOfMonth: 12},
		},
		headcounts: map[int64]int{1: 120, 2: 450},
		budgets:    map[int64]decimal.Decimal{1: decimal.NewFromInt(500000)},
	}
	svc := NewService(store)

	payments, err := svc.UpcomingPayments(context.Background(), 3, 2025)
	if err != nil {
		t.Fatalf("UpcomingPayments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(payments))
	}
	if payments[0].PaymentDate != "5 mars" {
		t.Fatalf("payment date = %q, want %q", payments[0].PaymentDate, "5 mars")
	}
	if payments[0].EmployeeCount != 120 {
		t.Fatalf("employee count = %d, want 120", payments[0].EmployeeCount)
	}
	// Ministry without an allocation reports a zero amount, not an error.
	if !payments[1].Amount.IsZero() {
		t.Fatalf("unbudgeted ministry amount = %s, want 0", payments[1].Amount)
	}
}

func TestSnapshot(t *testing.T) {
	store := &fakeStore{
		employees:     321,
		budget:        decimal.NewFromInt(900000),
		spent:         decimal.NewFromInt(100000),
		activeRuns:    2,
		verifications: 4,
		unread:        7,
		recent: []RunSummary{
			{ID: 9, PeriodMonth: 1, PeriodYear: 2025, Status: "reconciled", UpdatedAt: time.Now()},
		},
	}
	svc := fixedService(store, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))

	snapshot := svc.Snapshot(context.Background())
	if snapshot.Degraded {
		t.Fatal("snapshot unexpectedly degraded")
	}
	if snapshot.TotalEmployees != 321 {
		t.Fatalf("TotalEmployees = %d", snapshot.TotalEmployees)
	}
	if snapshot.ActivePayrolls != 2 || !snapshot.SystemStatus.WorkflowActive {
		t.Fatalf("active runs not reflected: %+v", snapshot.SystemStatus)
	}
	if len(snapshot.RecentActivities) != 1 {
		t.Fatalf("got %d activities, want 1", len(snapshot.RecentActivities))
	}
	if snapshot.RecentActivities[0].Label != "Paie janvier 2025" {
		t.Fatalf("activity label = %q", snapshot.RecentActivities[0].Label)
	}
}

func TestSnapshotDegradesOnStoreFailure(t *testing.T) {
	for name, store := range map[string]*fakeStore{
		"employee count fails": {failEmployees: true},
		"budget total fails":   {failBudget: true},
	} {
		svc := fixedService(store, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))
		snapshot := svc.Snapshot(context.Background())
		if !snapshot.Degraded {
			t.Errorf("%s: snapshot not degraded", name)
		}
		if snapshot.TotalEmployees != 0 || !snapshot.TotalBudget.IsZero() || !snapshot.TotalSpent.IsZero() {
			t.Errorf("%s: degraded snapshot not zeroed: %+v", name, snapshot)
		}
		if snapshot.UpcomingPayments == nil || snapshot.RecentActivities == nil {
			t.Errorf("%s: degraded snapshot slices must be empty, not nil", name)
		}
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(1); got != "janvier" {
		t.Fatalf("MonthName(1) = %q", got)
	}
	if got := MonthName(12); got != "décembre" {
		t.Fatalf("MonthName(12) = %q", got)
	}
	if got := MonthName(0); got != "" {
		t.Fatalf("MonthName(0) = %q, want empty", got)
	}
	if got := MonthName(13); got != "" {
		t.Fatalf("MonthName(13) = %q, want empty", got)
	}
}
