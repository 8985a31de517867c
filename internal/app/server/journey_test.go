package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"govpay/internal/platform/config"
)

// Journey tests exercise the whole stack against a throwaway database.
// They are skipped unless TEST_DATABASE_URL points at one.
func newTestApp(t *testing.T) *App {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "journey-test-secret",
		JWTTTL:             time.Hour,
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "journey-password",
		PayslipDir:         t.TempDir(),
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      "../../../migrations",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 10000,
		MetricsEnabled:     false,
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	t.Cleanup(func() { app.DB.Close() })
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func doJSON(t *testing.T, app *App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func login(t *testing.T, app *App) string {
	t.Helper()
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@test.local",
		"password": "journey-password",
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return data.Token
}

func TestPayrollJourney(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	// Use a unique period so reruns against the same database pass.
	month := int(time.Now().Month())
	year := 2100 + int(time.Now().UnixNano()%100)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/ministries/", token, map[string]any{
		"name": fmt.Sprintf("Ministère Test %d", time.Now().UnixNano()),
		"code": fmt.Sprintf("TST-%d", time.Now().UnixNano()),
		"sectorCategory": "test", "paymentDayOfMonth": 5,
	})
	if status != http.StatusCreated {
		t.Fatalf("create ministry status = %d (%+v)", status, env.Error)
	}
	var ministry struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &ministry); err != nil {
		t.Fatalf("decode ministry: %v", err)
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/employees/", token, map[string]any{
		"ministryId":     ministry.ID,
		"employeeNumber": fmt.Sprintf("EMP-%d", time.Now().UnixNano()),
		"name":           "Jean",
		"surname":        "Ilunga",
		"position":       "Agent",
		"salary":         "750.00",
	})
	if status != http.StatusCreated {
		t.Fatalf("create employee status = %d (%+v)", status, env.Error)
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/payroll/runs", token, map[string]any{
		"periodMonth": month, "periodYear": year,
	})
	if status != http.StatusCreated {
		t.Fatalf("create run status = %d (%+v)", status, env.Error)
	}
	var run struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.Status != "draft" {
		t.Fatalf("new run status = %s", run.Status)
	}

	// Duplicate period must conflict.
	status, env = doJSON(t, app, http.MethodPost, "/api/v1/payroll/runs", token, map[string]any{
		"periodMonth": month, "periodYear": year,
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate run status = %d", status)
	}

	// Generate payslips twice; second pass creates nothing new.
	generatePath := fmt.Sprintf("/api/v1/payroll/runs/%d/generate-payslips", run.ID)
	status, env = doJSON(t, app, http.MethodPost, generatePath, token, nil)
	if status != http.StatusOK {
		t.Fatalf("generate status = %d (%+v)", status, env.Error)
	}
	var gen struct {
		Count   int `json:"count"`
		Created int `json:"created"`
	}
	if err := json.Unmarshal(env.Data, &gen); err != nil {
		t.Fatalf("decode generate: %v", err)
	}
	if gen.Created == 0 {
		t.Fatal("first generation created no payslips")
	}
	firstTotal := gen.Count

	status, env = doJSON(t, app, http.MethodPost, generatePath, token, nil)
	if status != http.StatusOK {
		t.Fatalf("second generate status = %d", status)
	}
	if err := json.Unmarshal(env.Data, &gen); err != nil {
		t.Fatalf("decode second generate: %v", err)
	}
	if gen.Created != 0 || gen.Count != firstTotal {
		t.Fatalf("second generation created=%d count=%d, want 0/%d", gen.Created, gen.Count, firstTotal)
	}

	// Walk the milestones up to payment; repeating one conflicts.
	stepPath := fmt.Sprintf("/api/v1/payroll/runs/%d/step", run.ID)
	wantStatus := map[string]string{
		"report_uploaded": "audit_pending",
		"audit_approved":  "auth_pending",
		"auth_approved":   "payment_pending",
		"payment_done":    "payment_done",
		"reconciled":      "reconciled",
	}
	advance := func(step string) {
		t.Helper()
		status, env = doJSON(t, app, http.MethodPut, stepPath, token, map[string]string{"step": step})
		if status != http.StatusOK {
			t.Fatalf("step %s status = %d (%+v)", step, status, env.Error)
		}
		var advanced struct {
			Run struct {
				ID     int64  `json:"id"`
				Status string `json:"status"`
			} `json:"run"`
			StepCompleted string `json:"stepCompleted"`
		}
		if err := json.Unmarshal(env.Data, &advanced); err != nil {
			t.Fatalf("decode run after %s: %v", step, err)
		}
		if advanced.StepCompleted != step {
			t.Fatalf("stepCompleted = %q, want %q", advanced.StepCompleted, step)
		}
		if advanced.Run.Status != wantStatus[step] {
			t.Fatalf("after %s run status = %s, want %s", step, advanced.Run.Status, wantStatus[step])
		}
	}
	for _, step := range []string{"report_uploaded", "audit_approved", "auth_approved", "payment_done"} {
		advance(step)
	}

	// With the run at payment_done and nothing individually marked paid, every
	// payslip of the period counts toward totalSpent.
	status, env = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/payroll/payslips?runId=%d&limit=200", run.ID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("list payslips status = %d", status)
	}
	var payslips []struct {
		Net    decimal.Decimal `json:"net"`
		PaidAt *string         `json:"paidAt"`
	}
	if err := json.Unmarshal(env.Data, &payslips); err != nil {
		t.Fatalf("decode payslips: %v", err)
	}
	if len(payslips) != firstTotal {
		t.Fatalf("listed %d payslips, want %d", len(payslips), firstTotal)
	}
	wantSpent := decimal.Zero
	for _, p := range payslips {
		if p.PaidAt != nil {
			t.Fatal("payslip already marked paid")
		}
		wantSpent = wantSpent.Add(p.Net)
	}

	status, env = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/dashboard/totals?month=%d&year=%d", month, year), token, nil)
	if status != http.StatusOK {
		t.Fatalf("totals status = %d", status)
	}
	var totals struct {
		TotalSpent decimal.Decimal `json:"totalSpent"`
	}
	if err := json.Unmarshal(env.Data, &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	if totals.TotalSpent.IsZero() {
		t.Fatal("totalSpent is zero for a payment_done run")
	}
	if !totals.TotalSpent.Equal(wantSpent) {
		t.Fatalf("totalSpent = %s, want %s", totals.TotalSpent, wantSpent)
	}

	advance("reconciled")

	status, _ = doJSON(t, app, http.MethodPut, stepPath, token, map[string]string{"step": "audit_approved"})
	if status != http.StatusConflict {
		t.Fatalf("repeated step status = %d, want 409", status)
	}

	status, _ = doJSON(t, app, http.MethodPut, stepPath, token, map[string]string{"step": "signed_off"})
	if status != http.StatusBadRequest {
		t.Fatalf("unknown step status = %d, want 400", status)
	}

	// Dashboard still answers.
	status, env = doJSON(t, app, http.MethodGet, "/api/v1/dashboard/", token, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard status = %d", status)
	}
	if !env.Success {
		t.Fatal("dashboard envelope not successful")
	}
}
