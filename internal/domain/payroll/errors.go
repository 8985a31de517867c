package payroll

import "errors"

var (
	ErrInvalidPeriod    = errors.New("payroll period out of range")
	ErrDuplicatePeriod  = errors.New("payroll run already exists for this period")
	ErrRunNotFound      = errors.New("payroll run not found")
	ErrInvalidStep      = errors.New("unknown payroll step name")
	ErrStepCompleted    = errors.New("payroll step already completed")
	ErrPayslipNotFound  = errors.New("payslip not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)
