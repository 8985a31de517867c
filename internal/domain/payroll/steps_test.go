package payroll

import "testing"

func TestStepsOrdering(t *testing.T) {
	if len(Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(Steps))
	}
	for i, step := range Steps {
		if step.Order != i+1 {
			t.Fatalf("step %s has order %d, want %d", step.Name, step.Order, i+1)
		}
	}
	want := []string{StepReportUploaded, StepAuditApproved, StepAuthApproved, StepPaymentDone, StepReconciled}
	for i, name := range want {
		if Steps[i].Name != name {
			t.Fatalf("step %d is %s, want %s", i, Steps[i].Name, name)
		}
	}
}

func TestStepByName(t *testing.T) {
	step, ok := StepByName(StepAuditApproved)
	if !ok {
		t.Fatal("expected audit_approved to resolve")
	}
	if step.Order != 2 {
		t.Fatalf("audit_approved order = %d, want 2", step.Order)
	}
	if _, ok := StepByName("signed_off"); ok {
		t.Fatal("unknown step name must not resolve")
	}
}

func TestNextStatus(t *testing.T) {
	cases := map[string]string{
		StepReportUploaded: StatusAuditPending,
		StepAuditApproved:  StatusAuthPending,
		StepAuthApproved:   StatusPaymentPending,
		StepPaymentDone:    StatusPaymentDone,
		StepReconciled:     StatusReconciled,
	}
	for step, want := range cases {
		if got := NextStatus(step); got != want {
			t.Errorf("NextStatus(%s) = %s, want %s", step, got, want)
		}
	}
	if got := NextStatus("bogus"); got != "" {
		t.Errorf("NextStatus(bogus) = %q, want empty", got)
	}
}
