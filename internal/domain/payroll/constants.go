package payroll

// Run statuses. The pending values sit between two approval milestones.
const (
	StatusDraft          = "draft"
	StatusReportUploaded = "report_uploaded"
	StatusAuditPending   = "audit_pending"
	StatusAuditApproved  = "audit_approved"
	StatusAuthPending    = "auth_pending"
	StatusAuthApproved   = "auth_approved"
	StatusPaymentPending = "payment_pending"
	StatusPaymentDone    = "payment_done"
	StatusReconciled     = "reconciled"
)

// Canonical step names, in workflow order.
const (
	StepReportUploaded = "report_uploaded"
	StepAuditApproved  = "audit_approved"
	StepAuthApproved   = "auth_approved"
	StepPaymentDone    = "payment_done"
	StepReconciled     = "reconciled"
)

// Statuses counting as an in-flight payroll cycle (not draft, not reconciled).
var ActiveStatuses = []string{
	StatusReportUploaded,
	StatusAuditPending,
	StatusAuditApproved,
	StatusAuthPending,
	StatusAuthApproved,
	StatusPaymentPending,
	StatusPaymentDone,
}

// SpentStatuses mark runs whose payslips count as disbursed even before
// individual payslips are marked paid.
var SpentStatuses = []string{StatusPaymentDone, StatusReconciled}
