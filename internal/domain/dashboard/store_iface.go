package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	ActiveEmployeeCount(ctx context.Context) (int, error)
	TotalBudget(ctx context.Context, month, year int) (decimal.Decimal, error)
	TotalSpent(ctx context.Context, month, year int) (decimal.Decimal, error)
	ActiveRunCount(ctx context.Context) (int, error)
	PendingVerificationCount(ctx context.Context) (int, error)
	UnreadMessageCount(ctx context.Context) (int, error)
	ListMinistriesByPaymentDay(ctx context.Context) ([]MinistryInfo, error)
	MinistryActiveEmployeeCount(ctx context.Context, ministryID int64) (int, error)
	MinistryBudget(ctx context.Context, ministryID int64, month, year int) (decimal.Decimal, error)
	RecentRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
