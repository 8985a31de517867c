package payroll

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Run struct {
	ID          int64            `json:"id"`
	PeriodMonth int              `json:"periodMonth"`
	PeriodYear  int              `json:"periodYear"`
	Status      string           `json:"status"`
	BudgetTotal *decimal.Decimal `json:"budgetTotal,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type Step struct {
	ID                int64           `json:"id"`
	PayrollRunID      int64           `json:"payrollRunId"`
	StepOrder         int             `json:"stepOrder"`
	StepName          string          `json:"stepName"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
	CompletedByUserID *int64          `json:"completedByUserId,omitempty"`
	Payload           json.RawMessage `json:"payload,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type Payslip struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employeeId"`
	PayrollRunID int64           `json:"payrollRunId"`
	Gross        decimal.Decimal `json:"gross"`
	Deductions   decimal.Decimal `json:"deductions"`
	Net          decimal.Decimal `json:"net"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// PayslipDetail joins a payslip with employee and period labels for listings.
type PayslipDetail struct {
	Payslip
	EmployeeName    string `json:"employeeName"`
	EmployeeSurname string `json:"employeeSurname"`
	EmployeeNumber  string `json:"employeeNumber"`
	MinistryName    string `json:"ministryName,omitempty"`
	PeriodMonth     int    `json:"periodMonth"`
	PeriodYear      int    `json:"periodYear"`
}

// ActiveEmployee is the slice of the employee record payslip generation needs.
type ActiveEmployee struct {
	ID     int64
	Salary decimal.Decimal
}

type RunFilter struct {
	Month  int
	Year   int
	Status string
}

type GenerateResult struct {
	Total    int       `json:"count"`
	Created  int       `json:"created"`
	Payslips []Payslip `json:"payslips"`
}
