package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
	ErrInvalidAmount  = errors.New("budget amount must not be negative")
	ErrInvalidPeriod  = errors.New("invalid budget period")
)

// Budget is a period allocation for a ministry, optionally scoped to a
// department.
type Budget struct {
	ID           int64           `json:"id"`
	MinistryID   int64           `json:"ministryId"`
	DepartmentID *int64          `json:"departmentId,omitempty"`
	PeriodMonth  int             `json:"periodMonth"`
	PeriodYear   int             `json:"periodYear"`
	Amount       decimal.Decimal `json:"amount"`
	AllocatedAt  *time.Time      `json:"allocatedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Filter struct {
	MinistryID *int64
	Month      *int
	Year       *int
}

type CreateInput struct {
	MinistryID   int64           `json:"ministryId"`
	DepartmentID *int64          `json:"departmentId"`
	PeriodMonth  int             `json:"periodMonth"`
	PeriodYear   int             `json:"periodYear"`
	Amount       decimal.Decimal `json:"amount"`
}

type UpdateInput struct {
	Amount decimal.Decimal `json:"amount"`
}
