package payroll

// StepDef is one milestone in the fixed five-step approval sequence.
type StepDef struct {
	Order int    `json:"order"`
	Name  string `json:"stepName"`
}

// Steps is the canonical sequence: report upload, audit approval, payment
// authorisation, payment execution, reconciliation.
var Steps = []StepDef{
	{Order: 1, Name: StepReportUploaded},
	{Order: 2, Name: StepAuditApproved},
	{Order: 3, Name: StepAuthApproved},
	{Order: 4, Name: StepPaymentDone},
	{Order: 5, Name: StepReconciled},
}

// StepByName returns the step definition for a canonical name.
func StepByName(name string) (StepDef, bool) {
	for _, step := range Steps {
		if step.Name == name {
			return step, true
		}
	}
	return StepDef{}, false
}

// NextStatus maps a completed step to the run status it produces. The first
// three milestones leave the run waiting on the next authority; the last two
// are terminal for their stage.
func NextStatus(stepName string) string {
	switch stepName {
	case StepReportUploaded:
		return StatusAuditPending
	case StepAuditApproved:
		return StatusAuthPending
	case StepAuthApproved:
		return StatusPaymentPending
	case StepPaymentDone:
		return StatusPaymentDone
	case StepReconciled:
		return StatusReconciled
	}
	return ""
}
