package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const recentRunLimit = 5

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Totals returns the allocation vs disbursement totals for a period.
func (s *Service) Totals(ctx context.Context, month, year int) (PeriodTotals, error) {
	budget, err := s.store.TotalBudget(ctx, month, year)
	if err != nil {
		return PeriodTotals{}, fmt.Errorf("total budget: %w", err)
	}
	spent, err := s.store.TotalSpent(ctx, month, year)
	if err != nil {
		return PeriodTotals{}, fmt.Errorf("total spent: %w", err)
	}
	return PeriodTotals{TotalBudget: budget, TotalSpent: spent}, nil
}

// UpcomingPayments lists ministries in payment-day order with their active
// headcount and the period allocation earmarked for them.
func (s *Service) UpcomingPayments(ctx context.Context, month, year int) ([]UpcomingPayment, error) {
	ministries, err := s.store.ListMinistriesByPaymentDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ministries: %w", err)
	}

	payments := make([]UpcomingPayment, 0, len(ministries))
	for _, ministry := range ministries {
		count, err := s.store.MinistryActiveEmployeeCount(ctx, ministry.ID)
		if err != nil {
			return nil, fmt.Errorf("ministry %d headcount: %w", ministry.ID, err)
		}
		amount, err := s.store.MinistryBudget(ctx, ministry.ID, month, year)
		if err != nil {
			return nil, fmt.Errorf("ministry %d budget: %w", ministry.ID, err)
		}
		payments = append(payments, UpcomingPayment{
			MinistryID:    ministry.ID,
			MinistryName:  ministry.Name,
			PaymentDay:    ministry.PaymentDayOfMonth,
			PaymentDate:   fmt.Sprintf("%d %s", ministry.PaymentDayOfMonth, MonthName(month)),
			EmployeeCount: count,
			Amount:        amount,
		})
	}
	return payments, nil
}

// Snapshot aggregates the whole dashboard for the current period. Any store
// failure degrades to a zeroed snapshot rather than a 500, so the landing
// page still renders when a section of the schema is unavailable.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	now := s.now()
	month, year := int(now.Month()), now.Year()

	snapshot, err := s.build(ctx, month, year)
	if err != nil {
		return Snapshot{
			TotalBudget:      decimal.Zero,
			TotalSpent:       decimal.Zero,
			UpcomingPayments: []UpcomingPayment{},
			RecentActivities: []RecentActivity{},
			Degraded:         true,
		}
	}
	return snapshot
}

func (s *Service) build(ctx context.Context, month, year int) (Snapshot, error) {
	employees, err := s.store.ActiveEmployeeCount(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	totals, err := s.Totals(ctx, month, year)
	if err != nil {
		return Snapshot{}, err
	}
	activeRuns, err := s.store.ActiveRunCount(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	verifications, err := s.store.PendingVerificationCount(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	unread, err := s.store.UnreadMessageCount(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	upcoming, err := s.UpcomingPayments(ctx, month, year)
	if err != nil {
		return Snapshot{}, err
	}
	activities, err := s.recentActivities(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		TotalEmployees:       employees,
		TotalBudget:          totals.TotalBudget,
		TotalSpent:           totals.TotalSpent,
		ActivePayrolls:       activeRuns,
		PendingVerifications: verifications,
		UnreadMessages:       unread,
		UpcomingPayments:     upcoming,
		RecentActivities:     activities,
		SystemStatus: SystemStatus{
			WorkflowActive:       activeRuns > 0,
			VerificationsPending: verifications,
			MessagesUnread:       unread,
		},
	}, nil
}

func (s *Service) recentActivities(ctx context.Context) ([]RecentActivity, error) {
	runs, err := s.store.RecentRuns(ctx, recentRunLimit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	activities := make([]RecentActivity, 0, len(runs))
	for _, run := range runs {
		activities = append(activities, RecentActivity{
			Type:   "payroll_run",
			Label:  fmt.Sprintf("Paie %s %d", MonthName(run.PeriodMonth), run.PeriodYear),
			Status: run.Status,
			At:     run.UpdatedAt,
		})
	}
	return activities, nil
}

var _ StoreAPI = (*Store)(nil)
