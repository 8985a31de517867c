package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals is the period-wide allocation vs disbursement picture.
type PeriodTotals struct {
	TotalBudget decimal.Decimal `json:"totalBudget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
}

type UpcomingPayment struct {
	MinistryID    int64           `json:"ministryId"`
	MinistryName  string          `json:"ministryName"`
	PaymentDay    int             `json:"paymentDay"`
	PaymentDate   string          `json:"paymentDate"`
	EmployeeCount int             `json:"employeeCount"`
	Amount        decimal.Decimal `json:"amountFC"`
}

type RecentActivity struct {
	Type   string    `json:"type"`
	Label  string    `json:"label"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type SystemStatus struct {
	WorkflowActive       bool `json:"workflowActive"`
	VerificationsPending int  `json:"verificationsPending"`
	MessagesUnread       int  `json:"messagesUnread"`
}

// Snapshot is the dashboard payload. Degraded snapshots carry zeroed counts
// and Degraded=true instead of surfacing the underlying error.
type Snapshot struct {
	TotalEmployees       int               `json:"totalEmployees"`
	TotalBudget          decimal.Decimal   `json:"totalBudget"`
	TotalSpent           decimal.Decimal   `json:"totalBudgetSpent"`
	ActivePayrolls       int               `json:"activePayrolls"`
	PendingVerifications int               `json:"pendingVerifications"`
	UnreadMessages       int               `json:"unreadMessages"`
	UpcomingPayments     []UpcomingPayment `json:"upcomingPayments"`
	RecentActivities     []RecentActivity  `json:"recentActivities"`
	SystemStatus         SystemStatus      `json:"systemStatus"`
	Degraded             bool              `json:"degraded,omitempty"`
}

// MinistryInfo is the slice of a ministry record the aggregator needs.
type MinistryInfo struct {
	ID                int64
	Name              string
	PaymentDayOfMonth int
}

type RunSummary struct {
	ID          int64
	PeriodMonth int
	PeriodYear  int
	Status      string
	UpdatedAt   time.Time
}
