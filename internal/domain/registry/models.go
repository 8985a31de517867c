package registry

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMinistryNotFound     = errors.New("ministry not found")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrVerificationNotFound = errors.New("verification not found")
	ErrDuplicateEmployee    = errors.New("employee number already registered")
	ErrDuplicateMinistry    = errors.New("ministry code already registered")
	ErrInvalidSalary        = errors.New("salary must not be negative")
	ErrInvalidDeduction     = errors.New("deduction must not be negative")
	ErrInvalidPaymentDay    = errors.New("payment day must be between 1 and 28")
)

const (
	EmployeeActive    = "active"
	EmployeeSuspended = "suspended"
	EmployeeRetired   = "retired"

	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

type Ministry struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Code              string    `json:"code"`
	SectorCategory    string    `json:"sectorCategory"`
	PaymentDayOfMonth int       `json:"paymentDayOfMonth"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Department struct {
	ID            int64           `json:"id"`
	MinistryID    int64           `json:"ministryId"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	BudgetMonthly decimal.Decimal `json:"budgetMonthly"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Employee struct {
	ID                  int64           `json:"id"`
	MinistryID          int64           `json:"ministryId"`
	DepartmentID        *int64          `json:"departmentId,omitempty"`
	EmployeeNumber      string          `json:"employeeNumber"`
	Name                string          `json:"name"`
	Surname             string          `json:"surname"`
	Position            string          `json:"position"`
	Salary              decimal.Decimal `json:"salary"`
	Status              string          `json:"status"`
	BankAccount         *string         `json:"bankAccount,omitempty"`
	BankName            *string         `json:"bankName,omitempty"`
	MobileMoneyProvider string          `json:"mobileMoneyProvider"`
	MobileMoneyNumber   *string         `json:"mobileMoneyNumber,omitempty"`
	VerifiedAt          *time.Time      `json:"verifiedAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

type Verification struct {
	ID               int64      `json:"id"`
	EmployeeID       int64      `json:"employeeId"`
	Step             string     `json:"step"`
	VerifiedByUserID *int64     `json:"verifiedByUserId,omitempty"`
	VerifiedAt       *time.Time `json:"verifiedAt,omitempty"`
	FingerprintUsed  bool       `json:"fingerprintUsed"`
	Status           string     `json:"status"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type Sanction struct {
	ID              int64           `json:"id"`
	EmployeeID      int64           `json:"employeeId"`
	Type            string          `json:"type"`
	AmountDeduction decimal.Decimal `json:"amountDeduction"`
	Reason          string          `json:"reason"`
	AppliedAt       time.Time       `json:"appliedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type EmployeeFilter struct {
	MinistryID   *int64
	DepartmentID *int64
	Status       *string
	Search       string
	Limit        int
	Offset       int
}

type CreateMinistryInput struct {
	Name              string `json:"name"`
	Code              string `json:"code"`
	SectorCategory    string `json:"sectorCategory"`
	PaymentDayOfMonth int    `json:"paymentDayOfMonth"`
}

type CreateDepartmentInput struct {
	MinistryID    int64           `json:"ministryId"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	BudgetMonthly decimal.Decimal `json:"budgetMonthly"`
}

type CreateEmployeeInput struct {
	MinistryID          int64           `json:"ministryId"`
	DepartmentID        *int64          `json:"departmentId"`
	EmployeeNumber      string          `json:"employeeNumber"`
	Name                string          `json:"name"`
	Surname             string          `json:"surname"`
	Position            string          `json:"position"`
	Salary              decimal.Decimal `json:"salary"`
	BankAccount         *string         `json:"bankAccount"`
	BankName            *string         `json:"bankName"`
	MobileMoneyProvider string          `json:"mobileMoneyProvider"`
	MobileMoneyNumber   *string         `json:"mobileMoneyNumber"`
}

type UpdateEmployeeInput struct {
	DepartmentID        *int64           `json:"departmentId"`
	Position            *string          `json:"position"`
	Salary              *decimal.Decimal `json:"salary"`
	Status              *string          `json:"status"`
	BankAccount         *string          `json:"bankAccount"`
	BankName            *string          `json:"bankName"`
	MobileMoneyProvider *string          `json:"mobileMoneyProvider"`
	MobileMoneyNumber   *string          `json:"mobileMoneyNumber"`
}

type CreateSanctionInput struct {
	Type            string          `json:"type"`
	AmountDeduction decimal.Decimal `json:"amountDeduction"`
	Reason          string          `json:"reason"`
}
