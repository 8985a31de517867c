package shared

import (
	"net/http/httptest"
	"testing"
)

func TestValidatorPeriod(t *testing.T) {
	v := NewValidator()
	v.Period("month", 6, "year", 2025)
	if v.HasIssues() {
		t.Fatalf("valid period flagged: %v", v.Issues())
	}

	v = NewValidator()
	v.Period("month", 0, "year", 1999)
	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
}

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Add("zeta", "bad")
	v.Add("alpha", "bad")
	issues := v.Issues()
	if issues[0].Field != "alpha" || issues[1].Field != "zeta" {
		t.Fatalf("issues not sorted by field: %v", issues)
	}
}

func TestValidatorEnum(t *testing.T) {
	v := NewValidator()
	v.Enum("status", "Active", []string{"active", "suspended"}, "unknown status")
	if v.HasIssues() {
		t.Fatal("enum match should be case-insensitive")
	}

	v = NewValidator()
	v.Enum("status", "gone", []string{"active", "suspended"}, "unknown status")
	if !v.HasIssues() {
		t.Fatal("unknown enum value not flagged")
	}

	// Empty values are left to Required.
	v = NewValidator()
	v.Enum("status", "", []string{"active"}, "unknown status")
	if v.HasIssues() {
		t.Fatal("empty value must not trip the enum check")
	}
}

func TestValidatorReject(t *testing.T) {
	v := NewValidator()
	rec := httptest.NewRecorder()
	if v.Reject(rec, "req-1") {
		t.Fatal("clean validator must not reject")
	}

	v.Add("name", "required")
	rec = httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("validator with issues must reject")
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestParseID(t *testing.T) {
	if got := ParseID("42"); got != 42 {
		t.Fatalf("ParseID(42) = %d", got)
	}
	for _, raw := range []string{"", "abc", "-1", "0"} {
		if got := ParseID(raw); got != 0 {
			t.Errorf("ParseID(%q) = %d, want 0", raw, got)
		}
	}
}
